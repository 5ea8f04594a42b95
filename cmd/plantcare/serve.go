package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vbonduro/plantcare/internal/service"
	"github.com/vbonduro/plantcare/internal/web"
	"github.com/vbonduro/plantcare/internal/web/templates"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, closeSessions, err := openSessionStore(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	photos, err := openPhotoStore(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}

	gateway := newGateway(a.cfg, a.logger)
	credential := a.cfg.Credential()
	if credential == "" {
		a.logger.Info("no default API key configured; users will be asked for one")
	}

	server := web.NewServer(
		gateway,
		service.NewDetectionService(gateway, photos, a.logger),
		service.NewAuthService(sessions, a.logger),
		credential,
		templates.FS,
		a.logger,
	)
	httpServer := server.HTTPServer(a.cfg.ListenAddr)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", "addr", a.cfg.ListenAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("failed to shutdown server gracefully", "error", err)
	}
	return nil
}
