package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"violet/internal/config"
	apphttp "violet/internal/http"
	"violet/internal/log"
	"violet/internal/storage"
	"violet/internal/tracker"
)

func main() {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	var store storage.Store
	switch cfg.DataBackend {
	case "sqlite":
		var err error
		store, err = storage.NewSQLiteStore(cfg.SQLiteDBPath, logger)
		if err != nil {
			logger.Error("Failed to initialize SQLite backend", log.FieldError, err)
			os.Exit(1)
		}
	default:
		store = storage.NewMemoryStore()
	}
	logger.Info("Storage initialized", log.FieldBackend, cfg.DataBackend)

	tr := tracker.New(store, logger, tracker.Options{
		DefaultCurrency:        cfg.DefaultCurrency,
		IncludePendingInTotals: cfg.IncludePendingInTotals,
	})
	defer tr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := tr.Load(ctx); err != nil {
		logger.Error("Failed to load persisted state", log.FieldError, err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, tr, logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting violet server", "port", cfg.Port, log.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
			return ctx.Err()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
