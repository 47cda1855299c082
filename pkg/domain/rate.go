package domain

import (
	"time"

	"github.com/finpocket/finpocket/pkg/currency"
)

// RateQuote is a point-in-time exchange rate between two currencies.
type RateQuote struct {
	Base      currency.Code `json:"base"`
	Quote     currency.Code `json:"quote"`
	Rate      float64       `json:"rate"`
	Source    string        `json:"source"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// Pair returns the cache key form of the quote, e.g. "BTC/USD".
func (q RateQuote) Pair() string {
	return string(q.Base) + "/" + string(q.Quote)
}
