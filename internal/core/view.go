package core

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SelectAll is the filter selector that keeps every transaction.
const SelectAll Selector = "all"

const (
	SortByDate     SortKey = "date"
	SortByAmount   SortKey = "amount"
	SortByCategory SortKey = "category"
)

type (
	// Selector narrows the displayed transactions: SelectAll, a Kind, or a
	// category name.
	Selector string

	// SortKey names the field the displayed transactions are ordered by.
	SortKey string
)

// ParseSortKey validates s. The empty string means SortByDate.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case "":
		return SortByDate, nil
	case SortByDate, SortByAmount, SortByCategory:
		return k, nil
	}
	return "", fmt.Errorf("invalid sort key %q: must be one of date, amount, category", s)
}

// Filter returns the transactions matched by sel, in input order. The input
// slice is never modified.
func Filter(txs []Transaction, sel Selector) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if sel.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Match reports whether t passes the selector. Kind selectors compare the
// kind; any other value is an exact category match.
func (sel Selector) Match(t Transaction) bool {
	switch k := Kind(sel); {
	case sel == SelectAll:
		return true
	case k.IsValid():
		return t.Kind == k
	default:
		return t.Category == string(sel)
	}
}

// Sort returns a sorted copy of txs. The sort is stable.
//
//   - SortByDate: most recent OccurredOn first, ties broken by most recent
//     CreatedAt.
//   - SortByAmount: largest amount first regardless of kind.
//   - SortByCategory: ascending by category under English collation.
//
// Unknown keys return the copy in input order.
func Sort(txs []Transaction, key SortKey) []Transaction {
	out := slices.Clone(txs)
	if out == nil {
		out = []Transaction{}
	}
	switch key {
	case SortByDate:
		slices.SortStableFunc(out, func(a, b Transaction) int {
			if c := b.OccurredOn.Compare(a.OccurredOn.Time); c != 0 {
				return c
			}
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortByAmount:
		slices.SortStableFunc(out, func(a, b Transaction) int {
			switch {
			case a.Amount.Cents > b.Amount.Cents:
				return -1
			case a.Amount.Cents < b.Amount.Cents:
				return 1
			}
			return 0
		})
	case SortByCategory:
		c := NewCategoryCollator()
		slices.SortStableFunc(out, func(a, b Transaction) int {
			return c.CompareString(a.Category, b.Category)
		})
	}
	return out
}

// NewCategoryCollator returns the collator category ordering uses.
// A collator is not safe for concurrent use.
func NewCategoryCollator() *collate.Collator {
	return collate.New(language.English)
}

// View is the display pipeline: Sort(Filter(txs, sel), key).
func View(txs []Transaction, sel Selector, key SortKey) []Transaction {
	return Sort(Filter(txs, sel), key)
}

// Categories returns the distinct categories used in txs, in first seen
// order. These are the category filter options.
func Categories(txs []Transaction) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, t := range txs {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	return out
}
