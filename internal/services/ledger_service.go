package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/log"
	"tracker/internal/store"
)

// Publisher announces collection changes. *amqp.Client implements it.
type Publisher interface {
	PublishTransactionEvent(ctx context.Context, e *amqp.TransactionEvent) error
}

// LedgerService turns user input into store mutations and derives the
// figures and list a front end displays.
type LedgerService struct {
	store     *store.Store
	publisher Publisher
	logger    *log.Logger
	now       func() time.Time
}

// NewLedgerService wires a loaded store. publisher may be nil.
func NewLedgerService(st *store.Store, publisher Publisher, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.Discard()
	}
	return &LedgerService{
		store:     st,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
		now:       time.Now,
	}
}

func (s *LedgerService) today() core.Date {
	return core.DateOf(s.now())
}

// Add validates f and records a new transaction. A returned error wrapping
// store.ErrPersistence comes with a valid transaction that is held in
// memory but not yet persisted.
func (s *LedgerService) Add(ctx context.Context, f Form) (core.Transaction, error) {
	d, err := f.Draft(s.today())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid transaction: %w", err)
	}
	t, err := core.NewTransaction(d, s.now())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid transaction: %w", err)
	}
	if err := s.store.Add(ctx, t); err != nil {
		if !errors.Is(err, store.ErrPersistence) {
			return core.Transaction{}, err
		}
		return t, err
	}

	s.logger.InfoContext(ctx, "Transaction added",
		log.FieldTxID, t.ID,
		log.FieldKind, t.Kind,
		log.FieldAmountCents, t.Amount.Cents,
		log.FieldCategory, t.Category)
	s.publish(ctx, amqp.OpAdded, t)
	return t, nil
}

// Remove deletes id. Unknown ids are not an error and publish nothing.
func (s *LedgerService) Remove(ctx context.Context, id string) (bool, error) {
	removed, err := s.store.Remove(ctx, id)
	if err != nil {
		return removed, err
	}
	if !removed {
		s.logger.DebugContext(ctx, "Remove of unknown transaction ignored", log.FieldTxID, id)
		return false, nil
	}

	s.logger.InfoContext(ctx, "Transaction removed", log.FieldTxID, id)
	s.publish(ctx, amqp.OpRemoved, core.Transaction{ID: id})
	return true, nil
}

// Edit replaces every field of id with the values in f.
func (s *LedgerService) Edit(ctx context.Context, id string, f Form) (core.Transaction, error) {
	d, err := f.Draft(s.today())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid transaction: %w", err)
	}
	t, err := s.store.Replace(ctx, id, d)
	if err != nil {
		return t, err
	}

	s.logger.InfoContext(ctx, "Transaction replaced",
		log.FieldTxID, t.ID,
		log.FieldKind, t.Kind,
		log.FieldAmountCents, t.Amount.Cents)
	s.publish(ctx, amqp.OpReplaced, t)
	return t, nil
}

// Get returns the transaction with id.
func (s *LedgerService) Get(id string) (core.Transaction, bool) {
	return s.store.Get(id)
}

// Summary aggregates the whole collection.
func (s *LedgerService) Summary() core.Summary {
	return core.Summarize(s.store.Transactions())
}

// List returns the display sequence for sel and key.
func (s *LedgerService) List(sel core.Selector, key core.SortKey) []core.Transaction {
	return core.View(s.store.Transactions(), sel, key)
}

// FilterOptions lists the selectors a front end offers: all, both kinds,
// then every category currently in use.
func (s *LedgerService) FilterOptions() []core.Selector {
	opts := []core.Selector{core.SelectAll, core.Selector(core.Income), core.Selector(core.Expense)}
	for _, c := range core.Categories(s.store.Transactions()) {
		opts = append(opts, core.Selector(c))
	}
	return opts
}

func (s *LedgerService) publish(ctx context.Context, op string, t core.Transaction) {
	if s.publisher == nil {
		return
	}
	e := amqp.NewTransactionEvent(op, t.ID)
	if op != amqp.OpRemoved {
		e.Kind = t.Kind.String()
		e.AmountCents = t.Amount.Cents
		e.Category = t.Category
	}
	if err := s.publisher.PublishTransactionEvent(ctx, e); err != nil {
		// The change is already applied and persisted.
		s.logger.ErrorContext(ctx, "Failed to publish transaction event",
			log.FieldOperation, log.OpPublish,
			log.FieldTxID, t.ID,
			log.FieldErrorType, log.ErrorTypeNetwork,
			log.FieldError, err)
	}
}
