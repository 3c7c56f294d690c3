package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-stepform"
	"github.com/goliatone/go-stepform/pkg/answers"
	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/flow"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	catalogPath string
	storageDir  string
	storageKey  string
	logLevel    string
	logFormat   string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stepform",
	Short: "Multi-step survey forms with persisted answers",
	Long: `stepform presents a survey catalog one step at a time, validates each
step before moving on and keeps answers on disk so an interrupted survey
resumes where it stopped.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		logger, err = newLogger(logLevel, logFormat)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&catalogPath, "catalog", "", "catalog document (JSON or YAML); the bundled survey when empty")
	flags.StringVar(&storageDir, "storage-dir", "", "directory for persisted answers (default $XDG_CONFIG_HOME/stepform)")
	flags.StringVar(&storageKey, "key", answers.DefaultKey, "storage key answers are persisted under")
	flags.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "console", "log format: console or json")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadCatalog() (*catalog.Catalog, error) {
	cat, err := stepform.LoadCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

func openStorage() (*answers.FileStorage, error) {
	dir := storageDir
	if dir == "" {
		var err error
		if dir, err = stepform.DefaultStorageDir(); err != nil {
			return nil, err
		}
	}
	return answers.NewFileStorage(dir)
}

// openSession loads the catalog and restores persisted answers.
func openSession(sender flow.Sender) (*catalog.Catalog, *flow.Controller, *answers.Store, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, nil, nil, err
	}
	storage, err := openStorage()
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("opening session", zap.String("storage", storage.Dir()), zap.String("key", storageKey))

	ctrl, store, err := stepform.NewSession(cat, storage,
		stepform.WithKey(storageKey),
		stepform.WithLogger(logger),
		stepform.WithSender(sender),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	return cat, ctrl, store, nil
}

// commandContext returns the command's context, or a background context when
// the command was invoked without Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
