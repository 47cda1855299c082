package dto

import (
	"time"

	"github.com/google/uuid"
)

// Transaction direction.
const (
	TransactionTypeIncome  = "INCOME"
	TransactionTypeExpense = "EXPENSE"
)

// Transaction purpose tags.
const (
	TransactionCategoryWallet  = "WALLET"
	TransactionCategoryP2P     = "P2P"
	TransactionCategoryCrypto  = "CRYPTO"
	TransactionCategoryGeneral = "GENERAL"
)

// Transaction statuses. COMPLETED is the only terminal state.
const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
)

// TransactionRead is a read-optimized DTO for ledger records.
type TransactionRead struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	WalletID   uuid.UUID  `json:"wallet_id"`
	Amount     int64      `json:"-"`
	AmountMain float64    `json:"amount"`
	Currency   string     `json:"currency"`
	Type       string     `json:"type"`
	Category   string     `json:"category"`
	Status     string     `json:"status"`
	SenderID   *uuid.UUID `json:"sender_id,omitempty"`
	ReceiverID *uuid.UUID `json:"receiver_id,omitempty"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TransactionCreate is a DTO for appending a ledger record.
type TransactionCreate struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	WalletID   uuid.UUID
	Amount     int64 // smallest unit, always positive
	Currency   string
	Type       string
	Category   string
	Status     string
	SenderID   *uuid.UUID
	ReceiverID *uuid.UUID
	Note       string
}

// TransactionUpdate is a DTO for the PENDING -> COMPLETED status move.
type TransactionUpdate struct {
	Status *string
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	Type     string
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
	// Cursor paginates by walking records created before the given id.
	Cursor *uuid.UUID
}
