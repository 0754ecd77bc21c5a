// Package core provides money parsing and handling utilities.
//
// This file contains the Amount type used for every paycheck, expense cell
// and add-on, and the single place where user input is coerced into money.
package core

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is an exact decimal money value. The zero value is 0.
type Amount struct {
	d decimal.Decimal
}

// NewAmount builds an Amount from whole units and cents, e.g. NewAmount(12, 34) is 12.34.
func NewAmount(units, cents int64) Amount {
	return Amount{d: decimal.New(units*100+cents, -2)}
}

// AmountFromInt builds an Amount from a whole number of units.
func AmountFromInt(units int64) Amount {
	return Amount{d: decimal.NewFromInt(units)}
}

const (
	// maxInputLen bounds raw amount input. Together with the exponent range
	// it keeps every rescale on a parsed value small.
	maxInputLen = 32
	minExponent = -maxInputLen
	maxExponent = 15
	// Scale is the number of decimals every Amount is rounded to.
	Scale = 2
)

// maxAbsAmount is the exclusive upper bound on the magnitude of an Amount.
var maxAbsAmount = decimal.New(1, 15)

// ParseAmount converts user input to an Amount.
//
// Dot and comma are both accepted as decimal separators. When both appear,
// the last one is the decimal separator and the other groups thousands; a
// lone comma is always decimal, so "1,000" reads as 1. Blank, non-numeric or
// out-of-range input (|value| >= 1e15) yields exactly zero: data entry is
// never interrupted by a parse failure, totals just read as zero. Values are
// rounded to two decimals.
//
// Examples:
//
//	ParseAmount("12.34")    -> 12.34
//	ParseAmount("12,34")    -> 12.34
//	ParseAmount("1,000.50") -> 1000.50
//	ParseAmount("1.000,50") -> 1000.50
//	ParseAmount("")         -> 0
//	ParseAmount("abc")      -> 0
//	ParseAmount("1e20")     -> 0
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxInputLen {
		return Amount{}
	}
	d, err := decimal.NewFromString(normalizeSeparators(s))
	if err != nil {
		return Amount{}
	}
	if exp := d.Exponent(); exp < minExponent || exp > maxExponent {
		return Amount{}
	}
	if d.Abs().GreaterThanOrEqual(maxAbsAmount) {
		return Amount{}
	}
	return Amount{d: d.Round(Scale)}
}

func normalizeSeparators(s string) string {
	comma, dot := strings.LastIndexByte(s, ','), strings.LastIndexByte(s, '.')
	switch {
	case comma < 0:
		return s
	case dot < 0:
		if strings.Count(s, ",") == 1 {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case comma < dot:
		return strings.ReplaceAll(s, ",", "")
	default:
		return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
	}
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d)}
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// Equal compares by value, so 1.5 equals 1.50.
func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

// Float64 returns the nearest float64, for charts only.
// Use Amount for calculations to avoid floating-point drift.
func (a Amount) Float64() float64 {
	return a.d.InexactFloat64()
}

// Fixed formats with exactly two decimals, like "1350.00".
func (a Amount) Fixed() string {
	return a.d.StringFixed(Scale)
}

// Input formats the amount for an editable field: blank when zero.
func (a Amount) Input() string {
	if a.d.IsZero() {
		return ""
	}
	return a.d.String()
}

// String implements fmt.Stringer.
func (a Amount) String() string {
	return a.d.String()
}

// MarshalJSON writes the amount as a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

// UnmarshalJSON accepts a number, a quoted string or null. Both are coerced
// like ParseAmount, so a blob holding raw input or an out-of-range number
// loads with zero in its place.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = ParseAmount(s)
		return nil
	}
	*a = ParseAmount(string(data))
	return nil
}
