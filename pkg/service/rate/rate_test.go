package rate_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finpocket/finpocket/infra/cache"
	infraeventbus "github.com/finpocket/finpocket/infra/eventbus"
	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/pkg/currency"
	"github.com/finpocket/finpocket/pkg/domain"
	"github.com/finpocket/finpocket/pkg/domain/events"
	"github.com/finpocket/finpocket/pkg/service/rate"
)

type fakeFeed struct {
	rate float64
	err  error
}

func (f *fakeFeed) Name() string { return "fake" }

func (f *fakeFeed) Fetch(_ context.Context, base, quote currency.Code) (*domain.RateQuote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.RateQuote{
		Base: base, Quote: quote, Rate: f.rate,
		Source: f.Name(), FetchedAt: time.Now(),
	}, nil
}

func newService(feed *fakeFeed, bus *infraeventbus.MemoryBus) *rate.Service {
	cfg := config.RateFeed{
		PollInterval: 10 * time.Second,
		CacheTTL:     time.Minute,
		FallbackRate: 110000,
	}
	return rate.New(feed, cache.NewMemoryCache(), bus, cfg, slog.Default())
}

func TestQuoteFetchesFromFeed(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())
	svc := newService(&fakeFeed{rate: 98765}, bus)

	q := svc.BTCUSD(context.Background())
	assert.Equal(t, 98765.0, q.Rate)
	assert.Equal(t, "fake", q.Source)
}

func TestQuotePrefersCache(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())
	feed := &fakeFeed{rate: 100000}
	svc := newService(feed, bus)

	first := svc.BTCUSD(context.Background())
	require.Equal(t, 100000.0, first.Rate)

	// The cached quote survives a feed change until it expires.
	feed.rate = 200000
	second := svc.BTCUSD(context.Background())
	assert.Equal(t, 100000.0, second.Rate)
}

func TestQuoteFallsBackWhenFeedFails(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())
	svc := newService(&fakeFeed{err: errors.New("feed down")}, bus)

	q := svc.BTCUSD(context.Background())
	assert.Equal(t, 110000.0, q.Rate)
	assert.Equal(t, "fallback", q.Source)
}

func TestQuoteServesStaleAfterFeedFailure(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())
	feed := &fakeFeed{rate: 123456}
	cfg := config.RateFeed{
		PollInterval: 10 * time.Second,
		CacheTTL:     time.Nanosecond, // force expiry so the feed is retried
		FallbackRate: 110000,
	}
	svc := rate.New(feed, cache.NewMemoryCache(), bus, cfg, slog.Default())

	first := svc.BTCUSD(context.Background())
	require.Equal(t, 123456.0, first.Rate)

	feed.err = errors.New("feed down")
	time.Sleep(time.Millisecond)
	second := svc.BTCUSD(context.Background())
	assert.Equal(t, 123456.0, second.Rate)
}

func TestSameCurrencyIsIdentity(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())
	svc := newService(&fakeFeed{rate: 100000}, bus)

	q := svc.Quote(context.Background(), currency.USD, currency.USD)
	assert.Equal(t, 1.0, q.Rate)
}

func TestRefreshEmitsRateUpdated(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())
	svc := newService(&fakeFeed{rate: 105000}, bus)

	svc.Refresh(context.Background())

	published := bus.Published()
	require.Len(t, published, 1)
	ev, ok := published[0].(events.RateUpdated)
	require.True(t, ok)
	assert.Equal(t, 105000.0, ev.Rate)
	assert.Equal(t, "BTC", ev.Base)
	assert.Equal(t, "USD", ev.Quote)
}

func TestRefreshEmitsEveryTick(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())
	svc := newService(&fakeFeed{rate: 105000}, bus)

	// An unchanged rate still gets pushed so subscribers see a fresh quote.
	svc.Refresh(context.Background())
	svc.Refresh(context.Background())

	assert.Len(t, bus.Published(), 2)
}

func TestRefreshEmitsFallbackWhenFeedFails(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())
	svc := newService(&fakeFeed{err: errors.New("feed down")}, bus)

	svc.Refresh(context.Background())

	published := bus.Published()
	require.Len(t, published, 1)
	ev, ok := published[0].(events.RateUpdated)
	require.True(t, ok)
	assert.Equal(t, 110000.0, ev.Rate)
	assert.Equal(t, "fallback", ev.Source)
}

func TestRefreshEmitsStaleQuoteAfterFeedFailure(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())
	feed := &fakeFeed{rate: 123456}
	svc := newService(feed, bus)

	svc.Refresh(context.Background())
	feed.err = errors.New("feed down")
	svc.Refresh(context.Background())

	published := bus.Published()
	require.Len(t, published, 2)
	ev, ok := published[1].(events.RateUpdated)
	require.True(t, ok)
	assert.Equal(t, 123456.0, ev.Rate)
	assert.Equal(t, "fake", ev.Source)
}
