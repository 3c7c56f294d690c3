package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-stepform/pkg/renderers/vanilla"
	"github.com/goliatone/go-stepform/pkg/web"
)

var (
	serveAddr    string
	serveTheme   string
	serveVariant string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the survey as an HTML form",
	Long: `Serves a single survey session over HTTP. The session shares its
persisted answers with "stepform run".`,
	RunE: runServe,
}

func init() {
	flags := serveCmd.Flags()
	flags.StringVar(&serveAddr, "addr", "127.0.0.1:8080", "listen address")
	flags.StringVar(&serveTheme, "theme", "", "theme name")
	flags.StringVar(&serveVariant, "variant", "", "theme variant")
}

func runServe(cmd *cobra.Command, _ []string) error {
	_, ctrl, _, err := openSession(nil)
	if err != nil {
		return err
	}
	renderer, err := vanilla.New()
	if err != nil {
		return err
	}
	handler, err := web.NewHandler(ctrl, renderer,
		web.WithLogger(logger.Named("web")),
		web.WithTheme(serveTheme, serveVariant),
		web.WithAssets(vanilla.AssetsFS()),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("serving survey", zap.String("addr", serveAddr))
	cmd.Printf("Survey available at http://%s/\n", serveAddr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
