// Package rate maintains the BTC/USD exchange rate used for conversions. The
// service polls an upstream feed, caches quotes, and always has an answer:
// dependents never see an error, only the freshest rate available.
package rate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/finpocket/finpocket/infra/cache"
	"github.com/finpocket/finpocket/infra/ratefeed"
	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/pkg/currency"
	"github.com/finpocket/finpocket/pkg/domain"
	"github.com/finpocket/finpocket/pkg/domain/events"
	"github.com/finpocket/finpocket/pkg/eventbus"
)

// Service serves exchange rate quotes for the supported pairs.
type Service struct {
	feed     ratefeed.Feed
	cache    cache.RateCache
	bus      eventbus.Bus
	cfg      config.RateFeed
	logger   *slog.Logger
	mu       sync.RWMutex
	lastSeen map[string]*domain.RateQuote
}

// New creates a new rate service.
func New(
	feed ratefeed.Feed,
	rateCache cache.RateCache,
	bus eventbus.Bus,
	cfg config.RateFeed,
	logger *slog.Logger,
) *Service {
	return &Service{
		feed:     feed,
		cache:    rateCache,
		bus:      bus,
		cfg:      cfg,
		logger:   logger.With("service", "rate"),
		lastSeen: make(map[string]*domain.RateQuote),
	}
}

// Quote returns the current quote for base priced in quote currency. It never
// returns an error: cache first, then the feed, then the last quote seen in
// this process, then the configured fallback.
func (s *Service) Quote(ctx context.Context, base, quote currency.Code) domain.RateQuote {
	if base == quote {
		return domain.RateQuote{
			Base: base, Quote: quote, Rate: 1.0,
			Source: "internal", FetchedAt: time.Now(),
		}
	}

	key := string(base) + "/" + string(quote)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
		return *cached
	}

	if q, err := s.refreshPair(ctx, base, quote); err == nil {
		return *q
	}

	last := s.lastOrFallback(base, quote)
	s.logger.Warn("serving last known rate", "pair", key, "rate", last.Rate,
		"source", last.Source)
	return last
}

// BTCUSD is a convenience for the pair every conversion uses.
func (s *Service) BTCUSD(ctx context.Context) domain.RateQuote {
	return s.Quote(ctx, currency.BTC, currency.USD)
}

// Refresh forces a fetch from the feed for the BTC/USD pair. Every refresh
// tick pushes a rate event, on feed failure the last known or fallback rate,
// so subscribers always see a fresh timestamped quote.
func (s *Service) Refresh(ctx context.Context) {
	if _, err := s.refreshPair(ctx, currency.BTC, currency.USD); err != nil {
		s.logger.Warn("rate refresh failed", "error", err)
		s.emit(ctx, s.lastOrFallback(currency.BTC, currency.USD))
	}
}

// Start polls the feed until ctx is cancelled. Intended to run in its own
// goroutine; it fetches once immediately so the first conversion after boot
// does not pay the feed latency.
func (s *Service) Start(ctx context.Context) {
	s.Refresh(ctx)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("rate polling stopped")
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

func (s *Service) refreshPair(ctx context.Context, base, quote currency.Code) (*domain.RateQuote, error) {
	q, err := s.feed.Fetch(ctx, base, quote)
	if err != nil {
		return nil, err
	}

	key := q.Pair()
	if err := s.cache.Set(ctx, key, q, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("rate cache set failed", "pair", key, "error", err)
	}

	s.mu.Lock()
	s.lastSeen[key] = q
	s.mu.Unlock()

	s.emit(ctx, *q)

	s.logger.Debug("rate refreshed", "pair", key, "rate", q.Rate, "source", q.Source)
	return q, nil
}

func (s *Service) emit(ctx context.Context, q domain.RateQuote) {
	if err := s.bus.Emit(ctx, events.RateUpdated{
		Base: string(q.Base), Quote: string(q.Quote), Rate: q.Rate,
		Source: q.Source, FetchedAt: q.FetchedAt,
	}); err != nil {
		s.logger.Warn("rate event emit failed", "pair", q.Pair(), "error", err)
	}
}

// lastOrFallback returns the last quote seen in this process, or the
// configured fallback when nothing was ever fetched.
func (s *Service) lastOrFallback(base, quote currency.Code) domain.RateQuote {
	key := string(base) + "/" + string(quote)
	s.mu.RLock()
	last := s.lastSeen[key]
	s.mu.RUnlock()
	if last != nil {
		return *last
	}
	return domain.RateQuote{
		Base: base, Quote: quote, Rate: s.cfg.FallbackRate,
		Source: "fallback", FetchedAt: time.Now(),
	}
}
