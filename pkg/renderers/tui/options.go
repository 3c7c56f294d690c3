package tui

import (
	"go.uber.org/zap"
)

// Theme captures optional formatting hints applied when printing messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme prefixes errors with a cross so they stand out in plain
// terminals.
var DefaultTheme = Theme{ErrorPrefix: "✗ "}

// Option configures the Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithPageSize limits how many choices a select prompt shows at once.
func WithPageSize(size int) Option {
	return func(s *Session) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithLogger attaches a logger for navigation events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}
