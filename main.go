package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Manuela-30/GestionBiblioteca/catalog"
	"github.com/Manuela-30/GestionBiblioteca/config"
	"github.com/Manuela-30/GestionBiblioteca/server"
	"github.com/Manuela-30/GestionBiblioteca/version"
)

func main() {
	cfg := config.Parse()
	setupLogger(cfg)

	slog.Info("starting", "version", version.String())

	cat := catalog.New()
	if cfg.Seed {
		if err := catalog.Seed(cat); err != nil {
			slog.Error("seed sample data", "err", err)
			os.Exit(1)
		}
	}

	srv := server.New(cfg, cat)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("shutdown", "err", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server", "err", err)
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
