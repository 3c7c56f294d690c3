package flow

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Controller.
type Option func(*Controller)

// WithSender overrides the submission sender (LogSender by default).
func WithSender(sender Sender) Option {
	return func(c *Controller) {
		if sender != nil {
			c.sender = sender
		}
	}
}

// WithLogger attaches a logger used for transitions and the default sender.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp submissions.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}
