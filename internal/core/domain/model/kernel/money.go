package kernel

import (
	"bytes"

	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// moneyDisplayPlaces is the number of decimal places used when a Money value
// leaves the domain (JSON, String). Arithmetic itself is exact.
const moneyDisplayPlaces = 2

// Money is an exact decimal amount in the order currency. Prices, taxes,
// shipping fees and totals are all Money, so that sums such as
// subtotal + taxes + shipping - discount hold to the last digit.
//
// The zero value is a valid amount of 0.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates Money from a decimal. Negative amounts are rejected.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), 0, "unbounded")
	}
	return Money{amount: amount}, nil
}

// MoneyFromString parses amounts such as "25.50".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d)
}

// MoneyFromFloat converts a float such as a JSON number. The float is
// converted through its shortest decimal representation, so 25.5 becomes
// exactly 25.5.
func MoneyFromFloat(f float64) (Money, error) {
	return NewMoney(decimal.NewFromFloat(f))
}

// MustMoney parses s and panics on error. Intended for constants and tests.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns an amount of 0.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other. The result is not clamped at zero.
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Times returns m multiplied by a whole quantity.
func (m Money) Times(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

// Rate returns m multiplied by a fractional rate such as 0.10.
func (m Money) Rate(rate decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(rate)}
}

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsZero reports whether m == 0.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equal compares amounts numerically, so 66 equals 66.00.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Decimal exposes the exact amount for persistence adapters.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Float64 returns the amount rounded to display precision as a float.
func (m Money) Float64() float64 {
	return m.amount.Round(moneyDisplayPlaces).InexactFloat64()
}

// String renders the amount with two decimal places, e.g. "81.00".
func (m Money) String() string {
	return m.amount.StringFixed(moneyDisplayPlaces)
}

// MarshalJSON encodes the amount as a JSON number with two decimal places.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	parsed, err := MoneyFromString(string(bytes.Trim(data, `"`)))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
