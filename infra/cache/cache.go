// Package cache provides rate quote caches used by the rate service. A cache
// miss is (nil, nil); callers fall back to the feed or the last known rate.
package cache

import (
	"context"
	"time"

	"github.com/finpocket/finpocket/pkg/domain"
)

// RateCache stores exchange rate quotes with a TTL.
type RateCache interface {
	Get(ctx context.Context, key string) (*domain.RateQuote, error)
	Set(ctx context.Context, key string, quote *domain.RateQuote, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
