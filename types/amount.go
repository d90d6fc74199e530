// Package types provides common types used across the gym ledger.
package types

import (
	"fmt"
	"strconv"
)

// Amount is a quantity of balance units, the ledger's single fungible
// accounting currency. All arithmetic is integer-only — no floating point.
//
// An Amount may be negative in intermediate arithmetic, but no stored account
// balance is ever allowed below zero; the engine enforces that invariant.
type Amount int64

// Units creates an Amount from a raw unit count.
func Units(n int64) Amount { return Amount(n) }

// Int64 returns the raw unit count.
func (a Amount) Int64() int64 { return int64(a) }

// Arithmetic operations

// Add returns a + other.
func (a Amount) Add(other Amount) Amount { return a + other }

// Sub returns a - other.
func (a Amount) Sub(other Amount) Amount { return a - other }

// Mul returns a multiplied by a quantity.
func (a Amount) Mul(qty int64) Amount { return a * Amount(qty) }

// Div returns a divided by divisor using integer division; the remainder is
// discarded. Panics on division by zero.
func (a Amount) Div(divisor Amount) Amount {
	if divisor == 0 {
		panic("amount: division by zero")
	}
	return a / divisor
}

// Mod returns the remainder of a divided by divisor. Panics on division by zero.
func (a Amount) Mod(divisor Amount) Amount {
	if divisor == 0 {
		panic("amount: division by zero")
	}
	return a % divisor
}

// Neg returns the negative of the Amount.
func (a Amount) Neg() Amount { return -a }

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool { return a == 0 }

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool { return a > 0 }

// IsNegative returns true if the amount is less than zero.
func (a Amount) IsNegative() bool { return a < 0 }

// LessThan returns true if a is less than other.
func (a Amount) LessThan(other Amount) bool { return a < other }

// GreaterThan returns true if a is greater than other.
func (a Amount) GreaterThan(other Amount) bool { return a > other }

// Min returns the smaller of two Amounts.
func (a Amount) Min(other Amount) Amount {
	if a < other {
		return a
	}
	return other
}

// Max returns the larger of two Amounts.
func (a Amount) Max(other Amount) Amount {
	if a > other {
		return a
	}
	return other
}

// String returns the unit count followed by the unit suffix, e.g. "50u".
func (a Amount) String() string {
	return strconv.FormatInt(int64(a), 10) + "u"
}

// ParseAmount parses a string produced by String (with or without the "u"
// suffix) back into an Amount.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return 0, fmt.Errorf("amount: parse %q: empty string", s)
	}
	if s[len(s)-1] == 'u' {
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount: parse %q: %w", s, err)
	}
	return Amount(n), nil
}

// SumAmounts calculates the sum of multiple Amounts.
func SumAmounts(values ...Amount) Amount {
	var total Amount
	for _, v := range values {
		total += v
	}
	return total
}
