package backend

import (
	"context"
	"slices"

	"tracker/internal/amqp"
	"tracker/internal/kv"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds what the factory opened. Publisher is nil when no
// broker is configured.
type BackendResult struct {
	Store     kv.Backend
	Publisher *amqp.Client
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// File specific
	DataDirectory string

	// SQLite specific
	SQLiteDBPath string

	// Redis specific
	RedisAddr      string
	RedisUsername  string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	// Optional event publishing, any backend
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	RedisBackend  BackendType = "redis"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid reports whether bt is a known backend type.
func (bt BackendType) IsValid() bool {
	return slices.Contains(GetBackendTypes(), bt)
}
