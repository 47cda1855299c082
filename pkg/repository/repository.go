// Package repository defines the persistence interfaces the services depend
// on. Implementations live under infra/repository.
package repository

import (
	"context"

	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/google/uuid"
)

// UserRepository persists user identity records.
type UserRepository interface {
	Create(ctx context.Context, create dto.UserCreate) error
	Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error)
	// GetByEmail matches the email case-insensitively.
	GetByEmail(ctx context.Context, email string) (*dto.UserRead, error)
	// GetCredentialsByEmail returns the user with the password hash for login.
	GetCredentialsByEmail(ctx context.Context, email string) (*dto.UserWithCredentials, error)
	// Search returns up to limit users whose name or email contains q,
	// case-insensitively, excluding excludeID. It backs the user-search
	// suggestion endpoint, never transfer resolution.
	Search(ctx context.Context, q string, excludeID uuid.UUID, limit int) ([]*dto.UserRead, error)
}

// WalletRepository persists wallet balance records.
type WalletRepository interface {
	Create(ctx context.Context, create dto.WalletCreate) error
	GetByUser(ctx context.Context, userID uuid.UUID) (*dto.WalletRead, error)
	// GetByUserForUpdate reads the wallet row with a pessimistic row lock
	// (SELECT ... FOR UPDATE). Must be called inside a UnitOfWork transaction;
	// it is the only safe read preceding a debit.
	GetByUserForUpdate(ctx context.Context, userID uuid.UUID) (*dto.WalletRead, error)
	Update(ctx context.Context, id uuid.UUID, update dto.WalletUpdate) error
}

// TransactionRepository appends and queries immutable ledger records.
type TransactionRepository interface {
	Create(ctx context.Context, create dto.TransactionCreate) error
	Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error
	Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error)
	// ListByUser returns the user's records, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, filter dto.TransactionFilter) ([]*dto.TransactionRead, error)
	CountByUser(ctx context.Context, userID uuid.UUID, filter dto.TransactionFilter) (int64, error)
	// SumByWallet returns sum(COMPLETED INCOME) - sum(COMPLETED EXPENSE) for a
	// wallet in the given currency, in smallest units. Used to check the
	// ledger-balance invariant.
	SumByWallet(ctx context.Context, walletID uuid.UUID, currency string) (int64, error)
}

// CategoryRepository reads and seeds the expense category catalog.
type CategoryRepository interface {
	Create(ctx context.Context, id uuid.UUID, name string) error
	GetByName(ctx context.Context, name string) (*dto.CategoryRead, error)
	List(ctx context.Context) ([]*dto.CategoryRead, error)
}

// ExpenseRepository persists analytics-only expense records.
type ExpenseRepository interface {
	Create(ctx context.Context, create dto.ExpenseCreate) error
	Get(ctx context.Context, id uuid.UUID) (*dto.ExpenseRead, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.ExpenseRead, error)
}

// AnalyticsRepository answers aggregate queries over the ledger and expense
// tables. Sums come back in main units, ready for the API.
type AnalyticsRepository interface {
	// Summary totals the user's COMPLETED fiat ledger records.
	Summary(ctx context.Context, userID uuid.UUID) (*dto.Summary, error)
	// MonthlyTotals returns net fiat movement per month, oldest first.
	MonthlyTotals(ctx context.Context, userID uuid.UUID, months int) ([]*dto.MonthlyTotal, error)
	// ExpenseTotalsByCategory sums tracked expenses per category name.
	ExpenseTotalsByCategory(ctx context.Context, userID uuid.UUID) ([]*dto.CategoryTotal, error)
}

// VirtualCardRepository persists cosmetic virtual cards.
type VirtualCardRepository interface {
	Create(ctx context.Context, create dto.VirtualCardCreate) error
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]*dto.VirtualCardRead, error)
}
