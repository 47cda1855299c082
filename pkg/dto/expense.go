package dto

import (
	"time"

	"github.com/google/uuid"
)

// CategoryRead is a read DTO for the expense category catalog.
type CategoryRead struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ExpenseRead is a read-optimized DTO for tracked expenses. Expenses are
// analytics records only; they never touch wallet balances.
type ExpenseRead struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	Description string       `json:"description"`
	Amount      int64        `json:"-"`
	AmountMain  float64      `json:"amount"`
	Category    CategoryRead `json:"category"`
	Date        time.Time    `json:"date"`
}

// ExpenseCreate is a DTO for recording a new expense.
type ExpenseCreate struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CategoryID  uuid.UUID
	Description string
	Amount      int64 // cents
	Date        time.Time
}
