// Package kv defines the key-value port the transaction store persists through.
package kv

import (
	"context"
	"errors"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("kv: backend closed")

// Backend is a string key-value store. Get reports ok=false for a missing
// key; an error means the backend could not be read at all.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Closer is implemented by backends that hold connections or handles.
type Closer interface {
	Close() error
}
