package stepform

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-stepform/pkg/answers"
	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/flow"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/renderers/text"
	"github.com/goliatone/go-stepform/pkg/renderers/vanilla"
)

// RenderOptions aliases render.RenderOptions for callers that only import
// the top-level package.
type RenderOptions = render.RenderOptions

// LoadCatalog reads a catalog document from path, or returns the embedded
// default survey when path is empty.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

// DefaultStorageDir is where answers are persisted when no directory is
// configured: $XDG_CONFIG_HOME/stepform on Linux.
func DefaultStorageDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("stepform: resolve config dir: %w", err)
	}
	return filepath.Join(base, "stepform"), nil
}

// Option configures NewSession.
type Option func(*sessionConfig)

type sessionConfig struct {
	key    string
	logger *zap.Logger
	sender flow.Sender
}

// WithKey overrides the storage key answers are persisted under.
func WithKey(key string) Option {
	return func(cfg *sessionConfig) {
		cfg.key = strings.TrimSpace(key)
	}
}

// WithLogger shares one logger between the store and the controller.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *sessionConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithSender replaces the default logging sender.
func WithSender(sender flow.Sender) Option {
	return func(cfg *sessionConfig) {
		cfg.sender = sender
	}
}

// NewSession wires an answer store over storage and a step controller for
// cat, restoring any persisted answers.
func NewSession(cat *catalog.Catalog, storage answers.Storage, options ...Option) (*flow.Controller, *answers.Store, error) {
	cfg := sessionConfig{key: answers.DefaultKey, logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	store, err := answers.NewStore(cat, storage,
		answers.WithKey(cfg.key),
		answers.WithLogger(cfg.logger.Named("answers")),
	)
	if err != nil {
		return nil, nil, err
	}

	ctrl, err := flow.New(cat, store,
		flow.WithLogger(cfg.logger.Named("flow")),
		flow.WithSender(cfg.sender),
	)
	if err != nil {
		return nil, nil, err
	}
	return ctrl, store, nil
}

// NewRegistry registers the built-in renderers: "vanilla" HTML and "text".
func NewRegistry(options ...vanilla.Option) (*render.Registry, error) {
	html, err := vanilla.New(options...)
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(html, text.New())
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}
