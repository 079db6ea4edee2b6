// Command budgetmaild runs the budgetmail ingestion daemon. It watches a
// spool directory for bank notification emails, extracts transactions from
// them, and records them in the configured store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/budgetmail/budgetmail/internal/daemon"
	"github.com/budgetmail/budgetmail/pkg/api"
	"github.com/budgetmail/budgetmail/pkg/config"
	"github.com/budgetmail/budgetmail/pkg/ingest"
	"github.com/budgetmail/budgetmail/pkg/logging"
	"github.com/budgetmail/budgetmail/pkg/reader/maildir"
	"github.com/budgetmail/budgetmail/pkg/store/jsonfile"
	"github.com/budgetmail/budgetmail/pkg/store/postgres"
)

func main() {
	// Optional .env file for local development
	_ = godotenv.Load()

	logger := logging.Setup(logging.FromEnv())

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"store", cfg.StoreBackend,
		"maildir", cfg.MaildirPath,
		"poll_interval_seconds", cfg.PollIntervalSeconds,
	)

	store, closeStore, err := newStore(cfg, logger)
	if err != nil {
		logger.Error("failed to create store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	reader, err := maildir.New(maildir.Config{
		Dir:      cfg.MaildirPath,
		Interval: time.Duration(cfg.PollIntervalSeconds) * time.Second,
	}, logger.With("component", "reader"))
	if err != nil {
		logger.Error("failed to create maildir reader", "error", err)
		os.Exit(1)
	}

	ingestor := ingest.New(store, logger.With("component", "ingest"))
	runner := daemon.New(reader, ingestor, logger)

	// Setup context with cancellation on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := runner.Run(ctx); err != nil {
		logger.Error("daemon failed", "error", err)
		os.Exit(1)
	}
}

func newStore(cfg *config.Config, logger *slog.Logger) (api.Store, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		store, err := postgres.New(postgres.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
		}, logger.With("component", "store", "backend", "postgres"))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "jsonfile":
		store, err := jsonfile.New(cfg.JSONFilePath, logger.With("component", "store", "backend", "jsonfile"))
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
