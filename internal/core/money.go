// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and rendering cent amounts for display.
package core

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency code is configured.
const DefaultCurrency = money.USD

// MaxAmountCents caps a single amount at 10 billion major units. Totals are
// plain int64 sums, so the cap keeps any realistic collection far from
// overflow.
const MaxAmountCents int64 = 1_000_000_000_000

var maxCents = decimal.New(MaxAmountCents, 0)

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive cents.
// Returns an error for invalid formats, negative values, or zero amounts.
//
// Examples:
//   ParseDecimalToCents("12.34") -> 1234, nil
//   ParseDecimalToCents("12,34") -> 1234, nil
//   ParseDecimalToCents("12.345") -> 1235, nil (rounds up)
//   ParseDecimalToCents("12.344") -> 1234, nil (rounds down)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	// Only plain positive decimals: no sign, no exponent, at most one dot.
	if strings.Count(s, ".") > 1 || strings.Trim(s, "0123456789.") != "" || s == "." {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := d.Round(2).Shift(2)
	if cents.GreaterThan(maxCents) || !cents.IsPositive() {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// ParseMoney is ParseDecimalToCents returning a Money.
func ParseMoney(s string) (Money, error) {
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

// Decimal returns the exact major unit value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String returns the amount with exactly two fraction digits and no symbol.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) Add(n Money) Money { return Money{Cents: m.Cents + n.Cents} }
func (m Money) Sub(n Money) Money { return Money{Cents: m.Cents - n.Cents} }
func (m Money) IsZero() bool      { return m.Cents == 0 }
func (m Money) IsNegative() bool  { return m.Cents < 0 }

// Format renders m in the given ISO 4217 currency, e.g. "$1,500.00".
// Negative amounts keep their sign. A code IsSupportedCurrency rejects falls
// back to DefaultCurrency.
func (m Money) Format(currency string) string {
	if !IsSupportedCurrency(currency) {
		currency = DefaultCurrency
	}
	return money.New(m.Cents, currency).Display()
}

// IsSupportedCurrency reports whether code is an ISO 4217 currency with two
// fraction digits. Amounts are held in hundredths, so currencies such as JPY
// or BHD would render scaled.
func IsSupportedCurrency(code string) bool {
	c := money.GetCurrency(code)
	return c != nil && c.Fraction == 2
}
