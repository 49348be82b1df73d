// Package types provides common type aliases and utilities.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal so repeated aggregation never drifts by a cent.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// DateLayout is the wire format for date-only values (rate period bounds,
// travel dates).
const DateLayout = "2006-01-02"

// DateOnly truncates t to UTC midnight. Rate period intervals and resolver
// lookups compare date-only values; normalizing here keeps the closed
// interval math independent of the caller's clock and timezone.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a date-only string in DateLayout into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t as a date-only string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DayKey renders t as the compact day key used by the sequence allocator
// (YYYYMMDD).
func DayKey(t time.Time) string {
	return t.UTC().Format("20060102")
}
