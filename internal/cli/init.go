// Package cli provides process bootstrap and the tracker subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"

	"tracker/internal/backend"
	"tracker/internal/config"
	"tracker/internal/log"
	"tracker/internal/services"
	"tracker/internal/store"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from cfg and installs it as the
// slog default.
func SetupLogger(cfg *config.Config) *log.Logger {
	lc := log.DefaultConfig()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		lc.Level = level
	}
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// App is an opened tracker: a loaded store behind a ledger service.
type App struct {
	Config *config.Config
	Logger *log.Logger
	Ledger *services.LedgerService

	cleanup backend.CleanupFunc
}

// Open creates the configured backend, loads the persisted transactions
// and wires the ledger service. A failed read is logged and the session
// starts empty.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	openCtx, cancel := context.WithTimeout(ctx, cfg.BackendTimeout)
	defer cancel()

	res, err := backend.NewFactory(logger).CreateBackend(openCtx, bc)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	st := store.New(res.Store, cfg.StorageKey, logger)
	if _, err := st.Load(openCtx); err != nil && !errors.Is(err, store.ErrPersistence) {
		res.Cleanup()
		return nil, err
	}

	var pub services.Publisher
	if res.Publisher != nil {
		pub = res.Publisher
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Ledger:  services.NewLedgerService(st, pub, logger),
		cleanup: res.Cleanup,
	}, nil
}

// Close releases the backend and broker connections.
func (a *App) Close() error {
	if a.cleanup == nil {
		return nil
	}
	if err := a.cleanup(); err != nil {
		a.Logger.Error("Cleanup failed", log.FieldOperation, log.OpShutdown, log.FieldError, err)
		return err
	}
	return nil
}
