// Package repository implements the persistence interfaces on top of GORM.
package repository

import (
	"context"

	"github.com/finpocket/finpocket/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides a transaction boundary and repository access in one
// abstraction. Repositories obtained inside Do use the transaction session,
// so every read and write of a ledger operation shares one atomic scope.
type UoW struct {
	db *gorm.DB
}

// NewUoW creates a UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn in a gorm transaction, providing a UoW bound to that transaction.
// A non-nil error from fn rolls everything back.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: tx})
	})
}

func (u *UoW) Users() repository.UserRepository     { return &userRepository{db: u.db} }
func (u *UoW) Wallets() repository.WalletRepository { return &walletRepository{db: u.db} }
func (u *UoW) Transactions() repository.TransactionRepository {
	return &transactionRepository{db: u.db}
}
func (u *UoW) Categories() repository.CategoryRepository { return &categoryRepository{db: u.db} }
func (u *UoW) Expenses() repository.ExpenseRepository    { return &expenseRepository{db: u.db} }
func (u *UoW) VirtualCards() repository.VirtualCardRepository {
	return &virtualCardRepository{db: u.db}
}
func (u *UoW) Analytics() repository.AnalyticsRepository { return &analyticsRepository{db: u.db} }

var _ repository.UnitOfWork = (*UoW)(nil)
