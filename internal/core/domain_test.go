package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	plus2 := time.FixedZone("UTC+2", 2*60*60)
	minus5 := time.FixedZone("UTC-5", -5*60*60)
	cases := []struct {
		in   string
		loc  *time.Location
		want Date
		ok   bool
	}{
		{"2025-03-04", time.UTC, NewDate(2025, 3, 4), true},
		{" 2025-03-04 ", plus2, NewDate(2025, 3, 4), true},
		{"2025-03-04", minus5, NewDate(2025, 3, 4), true},
		{"2025-03-04T18:30:00.000Z", time.UTC, NewDate(2025, 3, 4), true},
		{"2025-03-04T23:30:00+02:00", time.UTC, NewDate(2025, 3, 4), true},
		// Local midnight of 15 March in UTC+2, as stored in UTC.
		{"2025-03-14T22:00:00.000Z", plus2, NewDate(2025, 3, 15), true},
		{"2025-03-14T22:00:00.000Z", time.UTC, NewDate(2025, 3, 14), true},
		// Local midnight of 15 March in UTC-5.
		{"2025-03-15T05:00:00.000Z", minus5, NewDate(2025, 3, 15), true},
		{"04/03/2025", time.UTC, Date{}, false},
		{"", time.UTC, Date{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDateIn(tc.in, tc.loc)
		if tc.ok {
			if err != nil || !got.Equal(tc.want.Time) {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
		}
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("Income"); err != nil || k != Income {
		t.Fatalf("expected income, got %q (err=%v)", k, err)
	}
	if k, err := ParseKind("expense"); err != nil || k != Expense {
		t.Fatalf("expected expense, got %q (err=%v)", k, err)
	}
	if _, err := ParseKind("transfer"); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestCategorySetsAreDisjoint(t *testing.T) {
	for _, c := range CategoriesFor(Income) {
		if IsCategoryOf(Expense, c) {
			t.Fatalf("category %q is in both sets", c)
		}
	}
	if len(CategoriesFor(Income)) != 6 || len(CategoriesFor(Expense)) != 9 {
		t.Fatalf("unexpected set sizes: %d income, %d expense", len(CategoriesFor(Income)), len(CategoriesFor(Expense)))
	}
}

func TestCategoriesForReturnsCopy(t *testing.T) {
	cats := CategoriesFor(Income)
	cats[0] = "Lottery"
	if !IsCategoryOf(Income, "Salary") || IsCategoryOf(Income, "Lottery") {
		t.Fatalf("mutating the returned slice changed the category set")
	}
}

func TestNewTransaction(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	good := Draft{
		Kind:       Income,
		Amount:     Money{Cents: 150000},
		Category:   "Salary",
		OccurredOn: NewDate(2025, 5, 31),
	}
	tx, err := NewTransaction(good, now)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if tx.ID == "" || !tx.CreatedAt.Equal(now) || tx.Category != "Salary" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	other, _ := NewTransaction(good, now)
	if other.ID == tx.ID {
		t.Fatalf("expected distinct ids, got %q twice", tx.ID)
	}

	bads := []struct {
		name string
		d    Draft
		want error
	}{
		{"zero amount", Draft{Kind: Income, Category: "Salary", OccurredOn: NewDate(2025, 1, 1)}, ErrInvalidAmount},
		{"negative amount", Draft{Kind: Expense, Amount: Money{Cents: -5}, Category: "Travel", OccurredOn: NewDate(2025, 1, 1)}, ErrInvalidAmount},
		{"missing category", Draft{Kind: Expense, Amount: Money{Cents: 5}, OccurredOn: NewDate(2025, 1, 1)}, ErrEmptyCategory},
		{"expense category on income", Draft{Kind: Income, Amount: Money{Cents: 5}, Category: "Food & Dining", OccurredOn: NewDate(2025, 1, 1)}, ErrCategoryKindMismatch},
		{"unknown category", Draft{Kind: Expense, Amount: Money{Cents: 5}, Category: "Crypto", OccurredOn: NewDate(2025, 1, 1)}, ErrCategoryKindMismatch},
		{"bad kind", Draft{Kind: "transfer", Amount: Money{Cents: 5}, Category: "Travel", OccurredOn: NewDate(2025, 1, 1)}, ErrInvalidKind},
		{"zero date", Draft{Kind: Expense, Amount: Money{Cents: 5}, Category: "Travel"}, ErrInvalidDate},
	}
	for _, tc := range bads {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTransaction(tc.d, now); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRebuildKeepsIdentity(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tx, err := NewTransaction(Draft{Kind: Expense, Amount: Money{Cents: 999}, Category: "Travel", OccurredOn: NewDate(2025, 6, 1)}, created)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	edited, err := tx.Rebuild(Draft{Kind: Income, Amount: Money{Cents: 100}, Category: "Gift", Description: "birthday", OccurredOn: NewDate(2025, 6, 2)})
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if edited.ID != tx.ID || !edited.CreatedAt.Equal(created) {
		t.Fatalf("identity not kept: %+v", edited)
	}
	if edited.Kind != Income || edited.Amount.Cents != 100 || edited.Description != "birthday" {
		t.Fatalf("fields not replaced: %+v", edited)
	}

	if _, err := tx.Rebuild(Draft{Kind: Income, Amount: Money{Cents: 100}, Category: "Travel", OccurredOn: NewDate(2025, 6, 2)}); !errors.Is(err, ErrCategoryKindMismatch) {
		t.Fatalf("expected mismatch error, got %v", err)
	}
}

func TestTransactionValidateRequiresID(t *testing.T) {
	tx := Transaction{Kind: Income, Amount: Money{Cents: 1}, Category: "Gift", OccurredOn: NewDate(2025, 1, 1)}
	if err := tx.Validate(); !errors.Is(err, ErrEmptyID) {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
}
