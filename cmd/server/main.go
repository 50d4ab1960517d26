// Storefront API for Usual Etiquetas.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/usualetiquetas/storefront/app"
	"github.com/usualetiquetas/storefront/server"
)

const shutdownTimeout = 30 * time.Second

func main() {
	fallback := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if err := run(fallback); err != nil {
		os.Exit(1)
	}
}

func run(fallback *slog.Logger) error {
	application, err := app.New()
	if err != nil {
		fallback.Error("failed to initialize app", "error", err)
		return err
	}
	defer application.Close()

	srv, err := server.New(application.Config, application.Logger, application.Handlers)
	if err != nil {
		fallback.Error("failed to initialize server", "error", err)
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			application.Logger.Error("server failed", "error", err)
			return err
		}
		return nil
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Close(ctx); err != nil {
		application.Logger.Error("server forced to shutdown", "error", err)
		return err
	}
	return nil
}
