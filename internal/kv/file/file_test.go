package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, ok, err := s.Get(ctx, "expense-tracker-transactions"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "expense-tracker-transactions", `[{"id":"1"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "expense-tracker-transactions", `[]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	reopened, err := New(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok, err := reopened.Get(ctx, "expense-tracker-transactions")
	if !ok || err != nil || v != "[]" {
		t.Fatalf("unexpected get: v=%q ok=%v err=%v", v, ok, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "expense-tracker-transactions.json" {
		t.Fatalf("unexpected files left behind: %v", entries)
	}
}

func TestFileStoreEscapesKeys(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Set(ctx, "../escape", "x"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.json")); err == nil {
		t.Fatalf("key escaped the data directory")
	}
	if v, ok, _ := s.Get(ctx, "../escape"); !ok || v != "x" {
		t.Fatalf("unexpected get: v=%q ok=%v", v, ok)
	}
}

func TestFileStoreCancelledContext(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Set(ctx, "k", "v"); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
