package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vecviz/internal/api"
	"vecviz/internal/logging"
	"vecviz/internal/render"
	"vecviz/internal/session"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session over HTTP (JSON, SSE and PNG snapshots)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().Int("port", 8080, "port to listen on")
	a.flagKeys(cmd, map[string]string{"port": "server.port"})
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	log := logging.Logger()

	eng := session.NewEngine(session.New(cfg.SessionOptions()))

	raster, err := render.NewRaster()
	if err != nil {
		return err
	}
	server := api.NewServer(eng, cfg.Camera(), raster)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Handler(),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start session engine in background
	engCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := eng.Run(engCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("engine stopped", "err", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("http server shutdown", "err", err)
	}

	// Stop the engine after the last request drained
	cancel()

	log.Info("shutdown complete")
	return nil
}
