package resilient

import (
	"context"
	"errors"
	"testing"
	"time"

	"tracker/internal/kv/memory"
)

var errDown = errors.New("connection refused")

type downBackend struct {
	calls int
}

func (d *downBackend) Get(context.Context, string) (string, bool, error) {
	d.calls++
	return "", false, errDown
}

func (d *downBackend) Set(context.Context, string, string) error {
	d.calls++
	return errDown
}

type slowBackend struct{}

func (slowBackend) Get(ctx context.Context, _ string) (string, bool, error) {
	<-ctx.Done()
	return "", false, ctx.Err()
}

func (slowBackend) Set(ctx context.Context, _, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestPassThrough(t *testing.T) {
	ctx := context.Background()
	b := Wrap("memory", memory.New(), DefaultConfig(), nil)

	if _, ok, err := b.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := b.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := b.Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}
	if b.State() != "closed" {
		t.Fatalf("expected closed breaker, got %s", b.State())
	}
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	down := &downBackend{}
	b := Wrap("redis", down, Config{MaxFailures: 2, OpenTimeout: time.Minute}, nil)

	for i := 0; i < 2; i++ {
		if err := b.Set(ctx, "k", "v"); !errors.Is(err, errDown) {
			t.Fatalf("attempt %d: expected backend error, got %v", i, err)
		}
	}
	if b.State() != "open" {
		t.Fatalf("expected open breaker, got %s", b.State())
	}

	if _, _, err := b.Get(ctx, "k"); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if down.calls != 2 {
		t.Fatalf("open breaker should not reach the backend, got %d calls", down.calls)
	}
}

func TestTimeout(t *testing.T) {
	b := Wrap("slow", slowBackend{}, Config{Timeout: 10 * time.Millisecond}, nil)

	err := b.Set(context.Background(), "k", "v")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
