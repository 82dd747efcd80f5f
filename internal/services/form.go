package services

import (
	"fmt"
	"strings"

	"tracker/internal/core"
)

// Form is the raw user input for a transaction, as typed.
type Form struct {
	Kind        string
	Amount      string
	Category    string
	Description string
	// Date is YYYY-MM-DD; empty means today.
	Date string
}

// Draft parses f. Parse failures wrap the core sentinel errors.
func (f Form) Draft(today core.Date) (core.Draft, error) {
	kind, err := core.ParseKind(f.Kind)
	if err != nil {
		return core.Draft{}, err
	}
	amount, err := core.ParseMoney(f.Amount)
	if err != nil {
		return core.Draft{}, fmt.Errorf("amount %q: %w", f.Amount, err)
	}
	on := today
	if strings.TrimSpace(f.Date) != "" {
		if on, err = core.ParseDate(f.Date); err != nil {
			return core.Draft{}, err
		}
	}
	d := core.Draft{
		Kind:        kind,
		Amount:      amount,
		Category:    strings.TrimSpace(f.Category),
		Description: strings.TrimSpace(f.Description),
		OccurredOn:  on,
	}
	return d, d.Validate()
}
