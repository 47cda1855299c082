// Package domain holds the error taxonomy shared by services and the web API.
package domain

import (
	"errors"
	"fmt"

	"github.com/finpocket/finpocket/pkg/money"
)

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrWalletNotFound is returned when no wallet exists for a user.
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrRecipientNotFound is returned when a transfer recipient cannot be
	// resolved to an existing user.
	ErrRecipientNotFound = errors.New("recipient not found")
	// ErrSelfTransfer is returned when a transfer names the sender as recipient.
	ErrSelfTransfer = errors.New("cannot transfer to yourself")
	// ErrInsufficientBalance is returned when a debit exceeds the available
	// balance. Use AsInsufficientBalance to recover the amounts.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrAmountMustBePositive is returned for zero or negative amounts.
	ErrAmountMustBePositive = errors.New("amount must be greater than zero")
	// ErrUnsupportedCurrencyPair is returned for conversions outside USD<->BTC.
	ErrUnsupportedCurrencyPair = errors.New("unsupported currency pair")
	// ErrAlreadyExists is returned when creating a resource that already exists.
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrInvalidCredentials is returned on failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned for missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrCategoryNotFound is returned when an expense names an unknown category.
	ErrCategoryNotFound = errors.New("category not found")
)

// InsufficientBalanceError carries the available and required amounts so the
// caller can surface the shortfall. It matches ErrInsufficientBalance under
// errors.Is.
type InsufficientBalanceError struct {
	Available money.Money
	Required  money.Money
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %s, required %s",
		e.Available, e.Required)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// NewInsufficientBalance builds an InsufficientBalanceError for a failed debit.
func NewInsufficientBalance(available, required money.Money) error {
	return &InsufficientBalanceError{Available: available, Required: required}
}

// AsInsufficientBalance extracts the typed error, if present.
func AsInsufficientBalance(err error) (*InsufficientBalanceError, bool) {
	var ib *InsufficientBalanceError
	if errors.As(err, &ib) {
		return ib, true
	}
	return nil, false
}
