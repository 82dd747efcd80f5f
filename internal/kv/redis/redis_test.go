package redis

import (
	"context"
	"os"
	"testing"
)

func TestNewRequiresAddress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = ""
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected error without address")
	}
}

// TestRedisRoundTrip needs a live server; set REDIS_TEST_ADDR to run it.
func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	cfg := DefaultConfig()
	cfg.Addr = addr
	cfg.KeyPrefix = "tracker-test:"
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Set(ctx, "k", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, "k")
	if !ok || err != nil || v != "[]" {
		t.Fatalf("unexpected get: v=%q ok=%v err=%v", v, ok, err)
	}
	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}
