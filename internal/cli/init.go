// Package cli provides common CLI initialization utilities shared by
// cmd/budget, cmd/budget-report and cmd/budget-sync-worker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"budget/internal/backend"
	"budget/internal/budget"
	"budget/internal/config"
	applog "budget/internal/log"
	"budget/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from LOG_LEVEL and installs it as
// the slog default.
func SetupLogger(level, component string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(level),
		Component: component,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// Storage is the opened backend plus the adapter reading and writing the ledger blob.
type Storage struct {
	Backend *backend.BackendResult
	Adapter *storage.Adapter
}

func (s *Storage) Close() error {
	return s.Backend.Close()
}

// OpenStorage opens the blob store selected by cfg.
func OpenStorage(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*Storage, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}
	return &Storage{Backend: res, Adapter: storage.NewAdapter(res.Blobs, cfg.StorageKey)}, nil
}

// OpenStore opens storage and loads the ledger into a Store. A malformed
// blob is an error; the caller must not continue with an empty ledger.
func OpenStore(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*budget.Store, *Storage, error) {
	st, err := OpenStorage(ctx, logger, cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := budget.Open(ctx, st.Adapter)
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("open budget store: %w", err)
	}
	return store, st, nil
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
