// Package money provides a Money value object. Amounts are stored as int64 in
// the smallest unit of their currency (cents for USD, satoshi for BTC) so that
// balance arithmetic is exact; floats exist only at the API boundary.
package money

import (
	"fmt"
	"math"

	"github.com/finpocket/finpocket/pkg/currency"
)

// Money represents a monetary value in a specific currency.
// Invariants:
//   - the amount is stored in the currency's smallest unit
//   - arithmetic requires matching currencies
type Money struct {
	amount   int64
	currency currency.Code
}

// ErrCurrencyMismatch is returned when arithmetic mixes currencies.
var ErrCurrencyMismatch = fmt.Errorf("currency mismatch")

// New creates Money from a main-unit amount (e.g. dollars), rounding to the
// currency's smallest unit.
func New(amount float64, code currency.Code) (Money, error) {
	meta, err := currency.Get(code)
	if err != nil {
		return Money{}, err
	}
	factor := math.Pow10(meta.Decimals)
	scaled := amount * factor
	if math.IsNaN(scaled) || math.IsInf(scaled, 0) ||
		scaled > math.MaxInt64 || scaled < math.MinInt64 {
		return Money{}, fmt.Errorf("amount %v out of range for %s", amount, code)
	}
	return Money{amount: int64(math.Round(scaled)), currency: code}, nil
}

// NewFromSmallestUnit creates Money directly from a smallest-unit amount.
func NewFromSmallestUnit(amount int64, code currency.Code) Money {
	return Money{amount: amount, currency: code}
}

// Amount returns the amount in the smallest currency unit.
func (m Money) Amount() int64 { return m.amount }

// AmountFloat returns the amount in the main currency unit.
func (m Money) AmountFloat() float64 {
	meta, err := currency.Get(m.currency)
	if err != nil {
		return 0
	}
	return float64(m.amount) / math.Pow10(meta.Decimals)
}

// Currency returns the currency code.
func (m Money) Currency() currency.Code { return m.currency }

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.amount > 0 }

// Add returns m + other. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Subtract returns m - other. Currencies must match.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// LessThan reports m < other for matching currencies.
func (m Money) LessThan(other Money) bool {
	return m.currency == other.currency && m.amount < other.amount
}

func (m Money) String() string {
	return fmt.Sprintf("%v %s", m.AmountFloat(), m.currency)
}
