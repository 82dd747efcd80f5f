package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tracker/internal/core"
)

// record is the persisted shape of a transaction. Type and Date are the
// field names older data used for Kind and OccurredOn; they are read but
// never written.
type record struct {
	ID          string          `json:"id"`
	Kind        core.Kind       `json:"kind,omitempty"`
	Type        core.Kind       `json:"type,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	OccurredOn  string          `json:"occurredOn,omitempty"`
	Date        string          `json:"date,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// legacyLocation is the zone a legacy `date` timestamp is read in. Such
// timestamps are the picked day at local midnight, converted to UTC.
var legacyLocation = time.Local

// Encode serialises the collection in order.
func Encode(txs []core.Transaction) (string, error) {
	records := make([]record, len(txs))
	for i, t := range txs {
		records[i] = record{
			ID:          t.ID,
			Kind:        t.Kind,
			Amount:      t.Amount.Decimal(),
			Category:    t.Category,
			Description: t.Description,
			OccurredOn:  t.OccurredOn.String(),
			CreatedAt:   t.CreatedAt,
		}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode transactions: %w", err)
	}
	return string(b), nil
}

// Rejected describes a persisted record Decode dropped.
type Rejected struct {
	Index int
	ID    string
	Err   error
}

// Decode parses a persisted collection. An error means the document itself
// is unreadable. Records that fail validation or repeat an earlier id are
// dropped and reported in rejected; the rest keep their order.
func Decode(data string) (txs []core.Transaction, rejected []Rejected, err error) {
	var records []record
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, nil, fmt.Errorf("decode transactions: %w", err)
	}

	txs = make([]core.Transaction, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		t, err := r.transaction()
		if err == nil {
			if _, dup := seen[t.ID]; dup {
				err = fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
			}
		}
		if err != nil {
			rejected = append(rejected, Rejected{Index: i, ID: r.ID, Err: err})
			continue
		}
		seen[t.ID] = struct{}{}
		txs = append(txs, t)
	}
	return txs, rejected, nil
}

func (r record) transaction() (core.Transaction, error) {
	kind := r.Kind
	if kind == "" {
		kind = r.Type
	}
	day := r.OccurredOn
	if day == "" {
		day = r.Date
	}
	on, err := core.ParseDateIn(day, legacyLocation)
	if err != nil {
		return core.Transaction{}, err
	}
	cents := r.Amount.Round(2).Shift(2)
	if cents.GreaterThan(decimal.New(core.MaxAmountCents, 0)) {
		return core.Transaction{}, fmt.Errorf("%w: %s", core.ErrInvalidAmount, r.Amount)
	}
	t := core.Transaction{
		ID:          r.ID,
		Kind:        kind,
		Amount:      core.Money{Cents: cents.IntPart()},
		Category:    r.Category,
		Description: r.Description,
		OccurredOn:  on,
		CreatedAt:   r.CreatedAt,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}
