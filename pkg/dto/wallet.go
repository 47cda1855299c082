package dto

import (
	"time"

	"github.com/google/uuid"
)

// WalletRead is a read-optimized DTO for wallet queries. Balances are carried
// in the smallest currency unit; the web layer maps them to main units.
type WalletRead struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	FiatBalance   int64 // cents
	CryptoBalance int64 // satoshi
	CreatedAt     time.Time
}

// WalletCreate is a DTO for creating a wallet with zero balances.
type WalletCreate struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

// WalletUpdate is a DTO for updating wallet balances. Nil fields are left
// untouched. Values are absolute, not deltas: the ledger service computes the
// new balance under a row lock and writes it back.
type WalletUpdate struct {
	FiatBalance   *int64
	CryptoBalance *int64
}
