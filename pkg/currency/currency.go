// Package currency defines the currency codes the wallet supports and their
// minor-unit metadata. The supported set is deliberately small: one fiat
// currency (USD) and one crypto asset (BTC).
package currency

import (
	"fmt"
	"strings"
)

// Code is an ISO 4217-style currency code.
type Code string

const (
	// USD is the fiat currency of every wallet.
	USD Code = "USD"
	// BTC is the crypto asset of every wallet.
	BTC Code = "BTC"
)

// DefaultCurrency is assumed when a request omits the currency field.
const DefaultCurrency = USD

// Meta describes a currency's minor-unit precision.
type Meta struct {
	Code     Code
	Decimals int
}

var supported = map[Code]Meta{
	USD: {Code: USD, Decimals: 2},
	BTC: {Code: BTC, Decimals: 8},
}

// Parse normalizes and validates a currency code string.
// An empty string resolves to DefaultCurrency.
func Parse(s string) (Code, error) {
	if s == "" {
		return DefaultCurrency, nil
	}
	code := Code(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := supported[code]; !ok {
		return "", fmt.Errorf("unsupported currency %q", s)
	}
	return code, nil
}

// Get returns the metadata for a supported currency code.
func Get(code Code) (Meta, error) {
	meta, ok := supported[code]
	if !ok {
		return Meta{}, fmt.Errorf("unsupported currency %q", code)
	}
	return meta, nil
}

// IsSupported reports whether the code belongs to the supported set.
func IsSupported(code Code) bool {
	_, ok := supported[code]
	return ok
}

// IsCrypto reports whether the code denotes the crypto-side balance.
func (c Code) IsCrypto() bool {
	return c == BTC
}

func (c Code) String() string {
	return string(c)
}
