package webapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"

	"github.com/finpocket/finpocket/app"
	"github.com/finpocket/finpocket/infra/cache"
	infraeventbus "github.com/finpocket/finpocket/infra/eventbus"
	infrarepository "github.com/finpocket/finpocket/infra/repository"
	"github.com/finpocket/finpocket/internal/testdb"
	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/pkg/currency"
	"github.com/finpocket/finpocket/pkg/domain"
)

type stubFeed struct{}

func (stubFeed) Name() string { return "stub" }

func (stubFeed) Fetch(_ context.Context, base, quote currency.Code) (*domain.RateQuote, error) {
	return &domain.RateQuote{
		Base: base, Quote: quote, Rate: 110000,
		Source: "stub", FetchedAt: time.Now(),
	}, nil
}

type APISuite struct {
	suite.Suite
	app *fiber.App
}

func (s *APISuite) SetupTest() {
	cfg := &config.App{
		Env:  "test",
		Auth: config.Auth{Jwt: config.Jwt{Secret: "test-secret", Expiry: time.Hour}},
		RateFeed: config.RateFeed{
			PollInterval: time.Minute,
			CacheTTL:     time.Minute,
			FallbackRate: 110000,
		},
		RateLimit: config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		Cors:      config.Cors{AllowOrigins: "*"},
	}

	logger := slog.Default()
	application := app.New(app.Deps{
		Uow:    infrarepository.NewUoW(testdb.New(s.T())),
		Bus:    infraeventbus.NewWithMemory(logger),
		Cache:  cache.NewMemoryCache(),
		Feed:   stubFeed{},
		Logger: logger,
		Config: cfg,
	})
	s.Require().NoError(application.Expense.SeedCategories(context.Background()))
	s.app = application.Fiber
}

func (s *APISuite) request(method, path, token string, body any) *http.Response {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	return resp
}

func (s *APISuite) decode(resp *http.Response) map[string]any {
	defer resp.Body.Close() //nolint:errcheck
	var out map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *APISuite) registerUser(name, email string) string {
	resp := s.request(fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": name, "email": email, "password": "password123",
	})
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	body := s.decode(resp)
	data := body["data"].(map[string]any)
	return data["token"].(string)
}

func (s *APISuite) TestRegisterAndLogin() {
	token := s.registerUser("Alice", "alice@example.com")
	s.NotEmpty(token)

	resp := s.request(fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "alice@example.com", "password": "password123",
	})
	s.Equal(fiber.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = s.request(fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "alice@example.com", "password": "wrong",
	})
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck
}

func (s *APISuite) TestAuthMountedAtBothPrefixes() {
	resp := s.request(fiber.MethodPost, "/auth/register", "", fiber.Map{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	})
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = s.request(fiber.MethodPost, "/auth/login", "", fiber.Map{
		"email": "alice@example.com", "password": "password123",
	})
	s.Equal(fiber.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck
}

func (s *APISuite) TestRegisterValidation() {
	resp := s.request(fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "Alice", "email": "not-an-email", "password": "password123",
	})
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck
}

func (s *APISuite) TestWalletRequiresToken() {
	resp := s.request(fiber.MethodGet, "/api/wallet/", "", nil)
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck
}

func (s *APISuite) TestDepositAndWallet() {
	token := s.registerUser("Alice", "alice@example.com")

	resp := s.request(fiber.MethodPost, "/api/wallet/deposit", token, fiber.Map{
		"amount": 100.0, "currency": "USD",
	})
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = s.request(fiber.MethodGet, "/api/wallet/", token, nil)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	body := s.decode(resp)
	data := body["data"].(map[string]any)
	s.InDelta(100.0, data["fiat_balance"].(float64), 1e-9)
	s.Zero(data["crypto_balance"].(float64))
}

func (s *APISuite) TestTransferFlow() {
	alice := s.registerUser("Alice", "alice@example.com")
	bob := s.registerUser("Bob", "bob@example.com")

	resp := s.request(fiber.MethodPost, "/api/wallet/deposit", alice, fiber.Map{
		"amount": 100.0,
	})
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = s.request(fiber.MethodPost, "/api/transfer", alice, fiber.Map{
		"recipient": "bob@example.com", "amount": 40.0, "note": "lunch",
	})
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = s.request(fiber.MethodGet, "/api/wallet/", bob, nil)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	body := s.decode(resp)
	data := body["data"].(map[string]any)
	s.InDelta(40.0, data["fiat_balance"].(float64), 1e-9)
}

func (s *APISuite) TestTransferInsufficientBalance() {
	alice := s.registerUser("Alice", "alice@example.com")
	s.registerUser("Bob", "bob@example.com")

	resp := s.request(fiber.MethodPost, "/api/transfer", alice, fiber.Map{
		"recipient": "bob@example.com", "amount": 40.0,
	})
	s.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
	body := s.decode(resp)
	shortfall := body["errors"].(map[string]any)
	s.InDelta(0.0, shortfall["available"].(float64), 1e-9)
	s.InDelta(40.0, shortfall["required"].(float64), 1e-9)
	s.Equal("USD", shortfall["currency"])
}

func (s *APISuite) TestConvert() {
	token := s.registerUser("Alice", "alice@example.com")

	resp := s.request(fiber.MethodPost, "/api/wallet/deposit", token, fiber.Map{
		"amount": 220.0,
	})
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = s.request(fiber.MethodPost, "/api/convert", token, fiber.Map{
		"from": "USD", "to": "BTC", "amount": 110.0,
	})
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = s.request(fiber.MethodPost, "/api/convert", token, fiber.Map{
		"from": "USD", "to": "USD", "amount": 10.0,
	})
	s.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = s.request(fiber.MethodGet, "/api/wallet/", token, nil)
	body := s.decode(resp)
	data := body["data"].(map[string]any)
	s.InDelta(110.0, data["fiat_balance"].(float64), 1e-9)
	s.InDelta(0.001, data["crypto_balance"].(float64), 1e-12)
}

func (s *APISuite) TestExpenseAndAnalytics() {
	token := s.registerUser("Alice", "alice@example.com")

	resp := s.request(fiber.MethodPost, "/api/expenses/", token, fiber.Map{
		"description": "Groceries", "amount": 60.0, "category": "Food",
	})
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = s.request(fiber.MethodPost, "/api/expenses/", token, fiber.Map{
		"description": "Mystery", "amount": 10.0, "category": "Nope",
	})
	s.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck

	resp = s.request(fiber.MethodGet, "/api/analytics/by-category", token, nil)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	body := s.decode(resp)
	totals := body["data"].([]any)
	s.Require().Len(totals, 1)
	entry := totals[0].(map[string]any)
	s.Equal("Food", entry["category"])
	s.InDelta(60.0, entry["total"].(float64), 1e-9)
}

func (s *APISuite) TestVirtualCards() {
	token := s.registerUser("Alice", "alice@example.com")

	resp := s.request(fiber.MethodPost, "/api/virtual-cards/", token, nil)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	body := s.decode(resp)
	data := body["data"].(map[string]any)
	s.Len(data["card_number"].(string), 16)

	resp = s.request(fiber.MethodGet, "/api/virtual-cards/", token, nil)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	listBody := s.decode(resp)
	s.Len(listBody["data"].([]any), 1)
}

func (s *APISuite) TestUserSearch() {
	alice := s.registerUser("Alice", "alice@example.com")
	s.registerUser("Bob", "bob@example.com")

	resp := s.request(fiber.MethodGet, "/api/users/search?q=bob", alice, nil)
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)
	body := s.decode(resp)
	matches := body["data"].([]any)
	s.Require().Len(matches, 1)
	match := matches[0].(map[string]any)
	s.Equal("bob@example.com", match["email"])
}

func (s *APISuite) TestHealthEndpoint() {
	resp := s.request(fiber.MethodGet, "/", "", nil)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	resp.Body.Close() //nolint:errcheck
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}
