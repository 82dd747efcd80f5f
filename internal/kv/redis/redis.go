package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

type Config struct {
	// Addr is the Redis server address, e.g. "localhost:6379".
	Addr     string
	Username string
	Password string
	// DB is the Redis database number (0-15).
	DB          int
	KeyPrefix   string
	DialTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Addr:        "localhost:6379",
		KeyPrefix:   "tracker:",
		DialTimeout: 5 * time.Second,
	}
}

// Store keeps every key as a plain Redis string under KeyPrefix.
type Store struct {
	client rueidis.Client
	prefix string
}

func New(cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis: no address configured")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultConfig().DialTimeout
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{cfg.Addr},
		Username:    cfg.Username,
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("redis: failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: failed to ping server: %w", err)
	}

	return &Store{client: client, prefix: cfg.KeyPrefix}, nil
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	resp := s.client.Do(ctx, s.client.B().Get().Key(s.key(key)).Build())
	if err := resp.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	v, err := resp.ToString()
	if err != nil {
		return "", false, fmt.Errorf("redis get: failed to read response: %w", err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	cmd := s.client.B().Set().Key(s.key(key)).Value(value).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.client.Close()
	return nil
}
