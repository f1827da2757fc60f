// Package main is the entry point for the Coptic calendar API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/coptic-calendar-api/internal/api"
	"github.com/zapponejosh/coptic-calendar-api/internal/config"
	"github.com/zapponejosh/coptic-calendar-api/internal/database"
	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
	"github.com/zapponejosh/coptic-calendar-api/internal/logger"
	"github.com/zapponejosh/coptic-calendar-api/internal/metrics"
)

const (
	shutdownTimeout = 10 * time.Second
	poolStatsPeriod = 30 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	log.Info("starting coptic calendar API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
	)

	ds, err := dataset.Load(cfg.MasterDataPath)
	if err != nil {
		return fmt.Errorf("load master data: %w", err)
	}
	log.Info("master data loaded",
		slog.String("path", cfg.MasterDataPath),
		slog.String("version", ds.Version),
		slog.Int("fixed_feasts", len(ds.FixedFeasts)),
		slog.Int("saints", len(ds.Saints)),
	)

	m := metrics.New()
	m.SetDataset(ds.Version)

	var db *database.DB
	if cfg.SnapshotsEnabled() {
		db, err = database.Open(database.DefaultConfig(cfg.DatabasePath), log)
		if err != nil {
			return fmt.Errorf("open snapshot store: %w", err)
		}
		defer db.Close()

		if _, err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate snapshot store: %w", err)
		}
		go recordPoolStats(ctx, db, m)
	} else {
		log.Info("snapshot store disabled")
	}

	handlers := api.NewHandlers(ds, db, m, cfg, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("coptic calendar API ready", slog.String("addr", srv.Addr))
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

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func recordPoolStats(ctx context.Context, db *database.DB, m *metrics.Metrics) {
	ticker := time.NewTicker(poolStatsPeriod)
	defer ticker.Stop()

	for {
		m.RecordDBPoolStats(db.Stats())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
