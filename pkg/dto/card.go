package dto

import (
	"time"

	"github.com/google/uuid"
)

// VirtualCardRead is a read DTO for cosmetic virtual cards. Cards carry no
// settlement semantics and never participate in the ledger.
type VirtualCardRead struct {
	ID         uuid.UUID `json:"id"`
	WalletID   uuid.UUID `json:"wallet_id"`
	CardNumber string    `json:"card_number"`
	ExpiryDate string    `json:"expiry_date"`
	CVV        string    `json:"cvv"`
	CreatedAt  time.Time `json:"created_at"`
}

// VirtualCardCreate is a DTO for attaching a new card to a wallet.
type VirtualCardCreate struct {
	ID         uuid.UUID
	WalletID   uuid.UUID
	CardNumber string
	ExpiryDate string
	CVV        string
}
