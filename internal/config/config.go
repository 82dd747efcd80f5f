package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"tracker/internal/core"
	"tracker/internal/log"
)

type Config struct {
	// Backend selection
	DataBackend string
	StorageKey  string

	// File backend
	DataDir string

	// Database
	SQLiteDBPath string

	// Redis
	RedisAddr      string
	RedisUsername  string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	// AMQP (optional change events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Presentation
	Currency string

	LogLevel       string
	BackendTimeout time.Duration
}

// ValidBackends lists the accepted DATA_BACKEND values.
var ValidBackends = []string{"memory", "file", "sqlite", "redis"}

func Load() *Config {
	cfg := &Config{
		DataBackend: getEnv("DATA_BACKEND", "file"),
		StorageKey:  getEnv("STORAGE_KEY", "expense-tracker-transactions"),

		DataDir:      getEnv("DATA_DIR", "./data"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/tracker.db"),

		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisUsername:  getEnv("REDIS_USERNAME", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "tracker:"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tracker"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transaction_events"),

		Currency: strings.ToUpper(getEnv("CURRENCY", core.DefaultCurrency)),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		BackendTimeout: getEnvDuration("BACKEND_TIMEOUT", 5*time.Second),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if !slices.Contains(ValidBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, ValidBackends))
	}

	if strings.TrimSpace(c.StorageKey) == "" {
		errors = append(errors, "storage key cannot be empty")
	}

	switch c.DataBackend {
	case "file":
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using file backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	case "redis":
		if c.RedisAddr == "" {
			errors = append(errors, "Redis address cannot be empty when using redis backend")
		}
		if c.RedisDB < 0 || c.RedisDB > 15 {
			errors = append(errors, fmt.Sprintf("invalid Redis database %d: must be between 0 and 15", c.RedisDB))
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if !core.IsSupportedCurrency(c.Currency) {
		errors = append(errors, fmt.Sprintf("unsupported currency '%s': must be an ISO 4217 code with two decimal places", c.Currency))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("%v: must be one of debug, info, warn, error", err))
	}

	if c.BackendTimeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid backend timeout %v: must be at least 100ms", c.BackendTimeout))
	} else if c.BackendTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid backend timeout %v: must be at most 5 minutes", c.BackendTimeout))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
