// Package events defines the domain events emitted after ledger mutations
// commit and after rate refreshes. The web layer's notifier subscribes to
// these; the ledger itself never talks to a connection.
package events

import (
	"time"

	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/google/uuid"
)

// Event type constants
const (
	EventTypeBalanceUpdated      = "Balance.Updated"
	EventTypeTransactionRecorded = "Transaction.Recorded"
	EventTypeRateUpdated         = "Rate.Updated"
)

// BalanceUpdated is emitted once per affected user after a ledger operation
// commits.
type BalanceUpdated struct {
	UserID uuid.UUID
	Wallet dto.WalletRead
}

func (BalanceUpdated) Type() string { return EventTypeBalanceUpdated }

// TransactionRecorded is emitted once per appended ledger record.
type TransactionRecorded struct {
	UserID      uuid.UUID
	Transaction dto.TransactionRead
}

func (TransactionRecorded) Type() string { return EventTypeTransactionRecorded }

// RateUpdated is emitted after every successful (or fallback) rate refresh.
type RateUpdated struct {
	Base      string    `json:"base"`  // BTC
	Quote     string    `json:"quote"` // USD
	Rate      float64   `json:"rate"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (RateUpdated) Type() string { return EventTypeRateUpdated }
