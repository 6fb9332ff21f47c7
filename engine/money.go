// Package engine is the debt and cash-flow projection engine. Every function
// is a pure computation over its arguments: no I/O, no shared mutable state,
// safe to call from any number of goroutines.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// CurrencyPlaces is the scale of every currency value we return.
	CurrencyPlaces int32 = 2

	// DaysPerMonth is the fixed month length used for date arithmetic.
	// Interest compounds monthly, but payoff dates advance in 30-day steps.
	DaysPerMonth = 30

	CurrencySymbol = "R$"
)

var hundred = decimal.NewFromInt(100)

// RoundMoney quantizes a currency value to cents, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// FormatMoney renders a value as "R$1234.50".
func FormatMoney(d decimal.Decimal) string {
	return CurrencySymbol + RoundMoney(d).StringFixed(CurrencyPlaces)
}

// ParseAmount normalizes user or OCR text into a decimal. It accepts an
// optional currency prefix, "1234.56", "1234,56" and "1.234,56".
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, CurrencySymbol)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, " ", "")

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return d, nil
}

// AddMonths advances a date by whole 30-day months.
func AddMonths(start time.Time, months int) time.Time {
	return start.AddDate(0, 0, months*DaysPerMonth)
}

func clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}
