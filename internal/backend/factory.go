package backend

import (
	"context"
	"errors"
	"fmt"

	"tracker/internal/amqp"
	"tracker/internal/kv"
	"tracker/internal/kv/file"
	"tracker/internal/kv/memory"
	"tracker/internal/kv/redis"
	"tracker/internal/kv/resilient"
	"tracker/internal/log"
	"tracker/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store kv.Backend
		err   error
	)
	switch config.Type {
	case MemoryBackend:
		store = memory.New()
	case FileBackend:
		store, err = f.createFileBackend(config)
	case SQLiteBackend:
		store, err = f.createSQLiteBackend(config)
	case RedisBackend:
		store, err = f.createRedisBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}
	f.logger.InfoContext(ctx, "Initialized storage backend", log.FieldBackend, config.Type)

	result := &BackendResult{Store: store}

	// Event publishing is optional; the tracker works without a broker.
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events",
				log.FieldErrorType, log.ErrorTypeNetwork,
				log.FieldError, err)
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				log.FieldExchange, config.AMQPExchange,
				log.FieldQueue, config.AMQPQueue)
			result.Publisher = client
		}
	}

	result.Cleanup = func() error {
		var errs []error
		if c, ok := store.(kv.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("storage: %w", err))
			}
		}
		if result.Publisher != nil {
			if err := result.Publisher.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		return errors.Join(errs...)
	}

	return result, nil
}

func (f *DefaultFactory) createFileBackend(config Config) (kv.Backend, error) {
	s, err := file.New(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file backend: %w", err)
	}
	f.logger.Debug("Using data directory", "data_directory", s.Dir())
	return s, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (kv.Backend, error) {
	repo, err := storage.NewKVRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.Debug("Opened SQLite database", "db_path", config.SQLiteDBPath)
	return repo, nil
}

func (f *DefaultFactory) createRedisBackend(config Config) (kv.Backend, error) {
	rc := redis.DefaultConfig()
	rc.Addr = config.RedisAddr
	rc.Username = config.RedisUsername
	rc.Password = config.RedisPassword
	rc.DB = config.RedisDB
	if config.RedisKeyPrefix != "" {
		rc.KeyPrefix = config.RedisKeyPrefix
	}
	s, err := redis.New(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis backend: %w", err)
	}
	return resilient.Wrap("redis", s, resilient.DefaultConfig(), f.logger), nil
}
