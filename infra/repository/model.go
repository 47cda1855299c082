package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a user record in the database.
type User struct {
	gorm.Model
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Name     string    `gorm:"not null;size:100"`
	Email    string    `gorm:"uniqueIndex;not null;size:255"`
	Password string    `gorm:"not null"`
}

// Wallet represents a wallet record. Balances are stored in the smallest
// currency unit (cents / satoshi) and are only mutated through the ledger
// service inside a locked transaction.
type Wallet struct {
	gorm.Model
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	FiatBalance   int64     `gorm:"not null;default:0;check:fiat_balance >= 0"`
	CryptoBalance int64     `gorm:"not null;default:0;check:crypto_balance >= 0"`
}

// Transaction represents one immutable ledger movement. Transfer pairs share
// SenderID/ReceiverID; there is no pair identifier.
type Transaction struct {
	gorm.Model
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	WalletID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	Amount     int64      `gorm:"not null"`
	Currency   string     `gorm:"type:varchar(3);not null;default:'USD'"`
	Type       string     `gorm:"type:varchar(10);not null"`
	Category   string     `gorm:"type:varchar(16);not null;default:'GENERAL'"`
	Status     string     `gorm:"type:varchar(10);not null;default:'PENDING'"`
	SenderID   *uuid.UUID `gorm:"type:uuid"`
	ReceiverID *uuid.UUID `gorm:"type:uuid"`
	Note       string     `gorm:"size:500"`
}

// Category is one entry of the fixed expense-label catalog.
type Category struct {
	gorm.Model
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Name string    `gorm:"uniqueIndex;not null;size:50"`
}

// Expense is an analytics-only record; it does not affect wallet balances.
type Expense struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null"`
	Description string    `gorm:"size:255"`
	Amount      int64     `gorm:"not null"`
	Date        time.Time `gorm:"not null"`
	Category    Category  `gorm:"foreignKey:CategoryID"`
}

// VirtualCard is a cosmetic artifact attached to a wallet.
type VirtualCard struct {
	gorm.Model
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	WalletID   uuid.UUID `gorm:"type:uuid;index;not null"`
	CardNumber string    `gorm:"type:varchar(16);not null"`
	ExpiryDate string    `gorm:"type:varchar(5);not null"`
	CVV        string    `gorm:"type:varchar(3);not null"`
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Wallet{},
		&Transaction{},
		&Category{},
		&Expense{},
		&VirtualCard{},
	)
}
