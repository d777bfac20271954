// Command quizserver runs the quiz and presign handlers as a plain HTTP
// server, with /metrics and /healthz, for local use and container hosts.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lllllllleong/documentquizflow/internal/api"
	"github.com/Lllllllleong/documentquizflow/internal/gcp"
	"github.com/Lllllllleong/documentquizflow/internal/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := services.NewPipeline(ctx)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	presigner, err := services.NewPresigner(ctx)
	if err != nil {
		return err
	}
	defer presigner.Close()

	srv := &http.Server{
		Addr:              ":" + gcp.GetEnv("PORT", "8080"),
		Handler:           api.NewRouter(pipeline, presigner),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening.", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
