// Package resilient wraps a networked kv.Backend with a circuit breaker and
// a per-operation timeout.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"tracker/internal/kv"
	"tracker/internal/log"
)

// ErrCircuitOpen is returned without contacting the backend while the
// breaker is open.
var ErrCircuitOpen = errors.New("kv: circuit breaker open")

// Config tunes the breaker.
type Config struct {
	// Timeout bounds each Get and Set. Zero disables it.
	Timeout time.Duration
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before a trial request.
	OpenTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Timeout:     2 * time.Second,
		MaxFailures: 3,
		OpenTimeout: 30 * time.Second,
	}
}

// Backend is a kv.Backend guarded by a circuit breaker.
type Backend struct {
	next    kv.Backend
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  *log.Logger
}

type getResult struct {
	value string
	ok    bool
}

// Wrap guards next. name labels the breaker in logs.
func Wrap(name string, next kv.Backend, cfg Config, logger *log.Logger) *Backend {
	if logger == nil {
		logger = log.Discard()
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultConfig().MaxFailures
	}
	b := &Backend{
		next:    next,
		timeout: cfg.Timeout,
		logger:  logger.WithComponent(log.ComponentBackend),
	}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warn("Circuit breaker state changed",
				log.FieldBackend, name,
				"from", from.String(),
				"to", to.String())
		},
	})
	return b
}

// State reports the breaker state: closed, half-open or open.
func (b *Backend) State() string {
	return b.cb.State().String()
}

func (b *Backend) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	res, err := b.cb.Execute(func() (interface{}, error) {
		v, ok, err := b.next.Get(ctx, key)
		return getResult{value: v, ok: ok}, err
	})
	if err != nil {
		return "", false, b.wrap("get", key, err)
	}
	r := res.(getResult)
	return r.value, r.ok, nil
}

func (b *Backend) Set(ctx context.Context, key, value string) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Set(ctx, key, value)
	})
	if err != nil {
		return b.wrap("set", key, err)
	}
	return nil
}

// Close closes the wrapped backend if it holds resources.
func (b *Backend) Close() error {
	if c, ok := b.next.(kv.Closer); ok {
		return c.Close()
	}
	return nil
}

func (b *Backend) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.timeout)
}

func (b *Backend) wrap(op, key string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		b.logger.Warn("Request rejected by circuit breaker", log.FieldOperation, op, log.FieldStorageKey, key)
		return ErrCircuitOpen
	}
	return fmt.Errorf("%s %s: %w", op, key, err)
}
