package repository

import "context"

// UnitOfWork provides a transaction boundary and repository access in one
// abstraction. All repositories obtained from the UnitOfWork passed to Do use
// the same database session, so every read and write inside fn is atomic:
// either the whole ledger operation commits or none of it does.
type UnitOfWork interface {
	// Do runs fn in a transaction boundary. A non-nil error from fn rolls the
	// transaction back and is returned unchanged.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	Users() UserRepository
	Wallets() WalletRepository
	Transactions() TransactionRepository
	Categories() CategoryRepository
	Expenses() ExpenseRepository
	VirtualCards() VirtualCardRepository
	Analytics() AnalyticsRepository
}
