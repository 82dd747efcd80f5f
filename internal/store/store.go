// Package store owns the transaction collection and writes it through to a
// key-value backend after every mutation.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"tracker/internal/core"
	"tracker/internal/kv"
	"tracker/internal/log"
)

// DefaultKey is the backend key the whole collection is stored under.
const DefaultKey = "expense-tracker-transactions"

var (
	// ErrPersistence marks a backend failure. The in-memory collection has
	// already been changed when a mutation returns it.
	ErrPersistence = errors.New("persistence failed")
	ErrDuplicateID = errors.New("duplicate transaction id")
	ErrNotFound    = errors.New("transaction not found")

	// ErrReadFailed is wrapped into ErrPersistence while writes are held
	// back after a failed Load.
	ErrReadFailed = errors.New("persisted transactions could not be read, not overwriting them")
)

type Store struct {
	mu      sync.Mutex
	backend kv.Backend
	key     string
	logger  *log.Logger
	txs     []core.Transaction // newest first by insertion

	// readFailed is set by a Load that could not read the backend. The
	// collection in memory is then not a superset of what is persisted, so
	// persist refuses to write until a later Load succeeds.
	readFailed bool
}

// New returns an empty store. Call Load to read persisted data.
func New(backend kv.Backend, key string, logger *log.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{
		backend: backend,
		key:     key,
		logger:  logger.WithComponent(log.ComponentStore),
	}
}

// Key returns the backend key in use.
func (s *Store) Key() string {
	return s.key
}

// Load replaces the in-memory collection with the persisted one and returns
// a copy of it. A missing key or unreadable document yields an empty
// collection and no error. A backend read failure also yields an empty
// collection, reported as ErrPersistence, and holds back every write until
// a later Load succeeds.
func (s *Store) Load(ctx context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txs = nil
	data, ok, err := s.backend.Get(ctx, s.key)
	s.readFailed = err != nil
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read persisted transactions",
			log.FieldOperation, log.OpLoad,
			log.FieldStorageKey, s.key,
			log.FieldErrorType, log.ErrorTypePersistence,
			log.FieldError, err)
		return []core.Transaction{}, fmt.Errorf("%w: load: %w", ErrPersistence, err)
	}
	if !ok {
		s.logger.DebugContext(ctx, "No persisted transactions", log.FieldStorageKey, s.key)
		return []core.Transaction{}, nil
	}

	txs, rejected, err := Decode(data)
	if err != nil {
		s.logger.WarnContext(ctx, "Persisted transactions unreadable, starting empty",
			log.FieldOperation, log.OpLoad,
			log.FieldStorageKey, s.key,
			log.FieldErrorType, log.ErrorTypeMalformedData,
			log.FieldError, err)
		return []core.Transaction{}, nil
	}
	for _, r := range rejected {
		s.logger.WarnContext(ctx, "Dropped invalid persisted transaction",
			log.FieldOperation, log.OpLoad,
			log.FieldTxID, r.ID,
			"index", r.Index,
			log.FieldErrorType, log.ErrorTypeMalformedData,
			log.FieldError, r.Err)
	}

	s.txs = txs
	s.logger.InfoContext(ctx, "Loaded transactions",
		log.FieldStorageKey, s.key,
		log.FieldCount, len(txs),
		log.FieldRejected, len(rejected))
	return slices.Clone(txs), nil
}

// Transactions returns a copy of the collection in stored order.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.txs)
	if out == nil {
		out = []core.Transaction{}
	}
	return out
}

// Len returns the number of transactions held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txs)
}

// Get returns the transaction with id.
func (s *Store) Get(id string) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.txs[i], true
	}
	return core.Transaction{}, false
}

// Add prepends t and persists the collection. Invalid transactions and
// duplicate ids are rejected without any change. An ErrPersistence error
// means t was added in memory but not written.
func (s *Store) Add(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(t.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
	}
	s.txs = slices.Insert(s.txs, 0, t)
	return s.persist(ctx, log.OpAdd)
}

// Remove deletes the transaction with id and persists the collection.
// Removing an unknown id is not an error; it still writes through.
func (s *Store) Remove(ctx context.Context, id string) (removed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(id); i >= 0 {
		s.txs = slices.Delete(s.txs, i, i+1)
		removed = true
	}
	return removed, s.persist(ctx, log.OpRemove)
}

// Replace swaps the transaction with id for one rebuilt from d, keeping its
// id, creation time and position.
func (s *Store) Replace(ctx context.Context, id string, d core.Draft) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	t, err := s.txs[i].Rebuild(d)
	if err != nil {
		return core.Transaction{}, err
	}
	s.txs[i] = t
	return t, s.persist(ctx, log.OpReplace)
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.txs, func(t core.Transaction) bool { return t.ID == id })
}

// persist writes the full collection. Callers hold s.mu.
func (s *Store) persist(ctx context.Context, op string) error {
	if s.readFailed {
		s.logger.WarnContext(ctx, "Write held back after failed load",
			log.FieldOperation, op,
			log.FieldStorageKey, s.key,
			log.FieldErrorType, log.ErrorTypePersistence)
		return fmt.Errorf("%w: %s: %w", ErrPersistence, op, ErrReadFailed)
	}
	data, err := Encode(s.txs)
	if err == nil {
		err = s.backend.Set(ctx, s.key, data)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to persist transactions, in-memory state kept",
			log.FieldOperation, op,
			log.FieldStorageKey, s.key,
			log.FieldCount, len(s.txs),
			log.FieldErrorType, log.ErrorTypePersistence,
			log.FieldError, err)
		return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
	}
	s.logger.DebugContext(ctx, "Persisted transactions",
		log.FieldOperation, op,
		log.FieldCount, len(s.txs),
		log.FieldBytes, len(data))
	return nil
}
