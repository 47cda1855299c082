// Package ratefeed provides upstream exchange rate feeds consumed by the rate
// service.
package ratefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/pkg/currency"
	"github.com/finpocket/finpocket/pkg/domain"
)

// Feed fetches a fresh quote for a currency pair from an upstream source.
type Feed interface {
	Name() string
	Fetch(ctx context.Context, base, quote currency.Code) (*domain.RateQuote, error)
}

// CoinGeckoFeed implements Feed against the CoinGecko simple price endpoint.
type CoinGeckoFeed struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// coinGeckoResponse is the simple/price response shape.
// Example: { "bitcoin": { "usd": 109532.12 } }
type coinGeckoResponse map[string]map[string]float64

// coinGeckoIDs maps currency codes to CoinGecko coin identifiers.
var coinGeckoIDs = map[currency.Code]string{
	currency.BTC: "bitcoin",
}

// NewCoinGeckoFeed creates a new CoinGecko feed using config.
func NewCoinGeckoFeed(cfg config.RateFeed, logger *slog.Logger) *CoinGeckoFeed {
	return &CoinGeckoFeed{
		baseURL: cfg.ApiUrl,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
	}
}

// Name returns the feed identifier recorded on quotes.
func (f *CoinGeckoFeed) Name() string { return "coingecko" }

// Fetch retrieves the current rate for base priced in quote.
func (f *CoinGeckoFeed) Fetch(ctx context.Context, base, quote currency.Code) (*domain.RateQuote, error) {
	coinID, ok := coinGeckoIDs[base]
	if !ok {
		return nil, fmt.Errorf("no coingecko id for currency %s", base)
	}
	vsCurrency := strings.ToLower(string(quote))

	url := fmt.Sprintf("%s?ids=%s&vs_currencies=%s", f.baseURL, coinID, vsCurrency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rate: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp coinGeckoResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	rate, ok := apiResp[coinID][vsCurrency]
	if !ok {
		return nil, fmt.Errorf("pair %s/%s missing from response", base, quote)
	}
	if rate <= 0 {
		return nil, fmt.Errorf("feed returned non-positive rate %f for %s/%s", rate, base, quote)
	}

	return &domain.RateQuote{
		Base:      base,
		Quote:     quote,
		Rate:      rate,
		Source:    f.Name(),
		FetchedAt: time.Now(),
	}, nil
}

var _ Feed = (*CoinGeckoFeed)(nil)
