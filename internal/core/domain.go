package core

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// DateLayout is the textual form of a Date, both on the wire and on the command line.
const DateLayout = "2006-01-02"

type (
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Draft carries the user supplied fields of a transaction before an id
	// and creation time are assigned.
	Draft struct {
		Kind        Kind
		Amount      Money
		Category    string
		Description string
		OccurredOn  Date
	}

	// Transaction is a single recorded income or expense. Values are never
	// mutated once built; an edit replaces the whole value.
	Transaction struct {
		ID          string
		Kind        Kind
		Amount      Money
		Category    string
		Description string
		OccurredOn  Date
		CreatedAt   time.Time
	}
)

var (
	ErrEmptyID              = errors.New("empty id")
	ErrInvalidKind          = errors.New("invalid kind")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrEmptyCategory        = errors.New("empty category")
	ErrCategoryKindMismatch = errors.New("category does not belong to kind")
)

var categories = map[Kind][]string{
	Income: {
		"Salary",
		"Freelance",
		"Investment",
		"Business",
		"Gift",
		"Other Income",
	},
	Expense: {
		"Food & Dining",
		"Transportation",
		"Shopping",
		"Entertainment",
		"Bills & Utilities",
		"Healthcare",
		"Travel",
		"Education",
		"Other Expense",
	},
}

// ParseKind accepts "income" or "expense" in any letter case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

func (k Kind) IsValid() bool {
	return k == Income || k == Expense
}

// String implements fmt.Stringer
func (k Kind) String() string {
	return string(k)
}

// Label returns the capitalised name shown to users.
func (k Kind) Label() string {
	switch k {
	case Income:
		return "Income"
	case Expense:
		return "Expense"
	}
	return string(k)
}

// CategoriesFor returns the fixed category set of kind, in display order.
// The returned slice is a copy.
func CategoriesFor(k Kind) []string {
	return slices.Clone(categories[k])
}

// IsCategoryOf reports whether category belongs to the set of kind.
func IsCategoryOf(k Kind, category string) bool {
	return slices.Contains(categories[k], category)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD date. A full RFC 3339 timestamp is also
// accepted and truncated to its day in the local time zone.
func ParseDate(s string) (Date, error) {
	return ParseDateIn(s, time.Local)
}

// ParseDateIn is ParseDate with timestamps truncated to their day in loc.
// Older data stored a picked day as local midnight converted to UTC, so the
// calendar day is only recovered in the zone it was picked in.
func ParseDateIn(s string, loc *time.Location) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t.In(loc)), nil
}

// String returns the YYYY-MM-DD form, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	if m.Cents > MaxAmountCents {
		return fmt.Errorf("%w: exceeds %s", ErrInvalidAmount, Money{Cents: MaxAmountCents})
	}
	return nil
}

// NewID returns a fresh opaque transaction id.
func NewID() string {
	return uuid.NewString()
}

func (d Draft) Validate() error {
	if !d.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, d.Kind)
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(d.Category) == "" {
		return ErrEmptyCategory
	}
	if !IsCategoryOf(d.Kind, d.Category) {
		return fmt.Errorf("%w: %q is not a %s category", ErrCategoryKindMismatch, d.Category, d.Kind)
	}
	return d.OccurredOn.Validate()
}

// NewTransaction validates d and stamps it with a new id and createdAt.
func NewTransaction(d Draft, createdAt time.Time) (Transaction, error) {
	if err := d.Validate(); err != nil {
		return Transaction{}, err
	}
	return d.build(NewID(), createdAt), nil
}

// Rebuild validates d and builds a transaction that keeps the identity and
// creation time of t. It is how an edit replaces a transaction wholesale.
func (t Transaction) Rebuild(d Draft) (Transaction, error) {
	if err := d.Validate(); err != nil {
		return Transaction{}, err
	}
	return d.build(t.ID, t.CreatedAt), nil
}

func (d Draft) build(id string, createdAt time.Time) Transaction {
	return Transaction{
		ID:          id,
		Kind:        d.Kind,
		Amount:      d.Amount,
		Category:    d.Category,
		Description: d.Description,
		OccurredOn:  d.OccurredOn,
		CreatedAt:   createdAt,
	}
}

// Draft returns the user supplied fields of t.
func (t Transaction) Draft() Draft {
	return Draft{
		Kind:        t.Kind,
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		OccurredOn:  t.OccurredOn,
	}
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	return t.Draft().Validate()
}
