package analytics_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraeventbus "github.com/finpocket/finpocket/infra/eventbus"
	infrarepository "github.com/finpocket/finpocket/infra/repository"
	"github.com/finpocket/finpocket/internal/testdb"
	"github.com/finpocket/finpocket/pkg/currency"
	"github.com/finpocket/finpocket/pkg/domain"
	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/finpocket/finpocket/pkg/money"
	"github.com/finpocket/finpocket/pkg/repository"
	"github.com/finpocket/finpocket/pkg/service/analytics"
	"github.com/finpocket/finpocket/pkg/service/expense"
	"github.com/finpocket/finpocket/pkg/service/ledger"
)

type stubRates struct{}

func (stubRates) BTCUSD(context.Context) domain.RateQuote {
	return domain.RateQuote{Base: currency.BTC, Quote: currency.USD, Rate: 110000}
}

type fixture struct {
	uow       repository.UnitOfWork
	analytics *analytics.Service
	ledger    *ledger.Service
	expense   *expense.Service
	userID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	uow := infrarepository.NewUoW(testdb.New(t))
	logger := slog.Default()
	bus := infraeventbus.NewWithMemory(logger)

	f := &fixture{
		uow:       uow,
		analytics: analytics.New(uow, logger),
		ledger:    ledger.New(uow, bus, stubRates{}, logger),
		expense:   expense.New(uow, logger),
		userID:    uuid.New(),
	}

	ctx := context.Background()
	err := uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.Users().Create(ctx, dto.UserCreate{
			ID: f.userID, Name: "Alice", Email: "alice@example.com", Password: "hash",
		}); err != nil {
			return err
		}
		return uow.Wallets().Create(ctx, dto.WalletCreate{ID: uuid.New(), UserID: f.userID})
	})
	require.NoError(t, err)
	return f
}

func usd(t *testing.T, amount float64) money.Money {
	t.Helper()
	m, err := money.New(amount, currency.USD)
	require.NoError(t, err)
	return m
}

func TestSummaryTotalsLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.Deposit(ctx, f.userID, usd(t, 200))
	require.NoError(t, err)
	_, err = f.ledger.Withdraw(ctx, f.userID, usd(t, 50))
	require.NoError(t, err)

	summary, err := f.analytics.Summary(ctx, f.userID)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, summary.TotalIncome, 1e-9)
	assert.InDelta(t, 50.0, summary.TotalExpense, 1e-9)
	assert.InDelta(t, 150.0, summary.Balance, 1e-9)
}

func TestSummaryEmptyLedger(t *testing.T) {
	f := newFixture(t)

	summary, err := f.analytics.Summary(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalIncome)
	assert.Zero(t, summary.TotalExpense)
	assert.Zero(t, summary.Balance)
}

func TestMonthlyGroupsByMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.Deposit(ctx, f.userID, usd(t, 100))
	require.NoError(t, err)
	_, err = f.ledger.Withdraw(ctx, f.userID, usd(t, 30))
	require.NoError(t, err)

	totals, err := f.analytics.Monthly(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, time.Now().Format("2006-01"), totals[0].Month)
	assert.InDelta(t, 70.0, totals[0].Total, 1e-9)
}

func TestByCategorySumsExpenses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.expense.SeedCategories(ctx))

	_, err := f.expense.Add(ctx, f.userID, "Groceries", 60, "Food", time.Now())
	require.NoError(t, err)
	_, err = f.expense.Add(ctx, f.userID, "Takeout", 40, "Food", time.Now())
	require.NoError(t, err)
	_, err = f.expense.Add(ctx, f.userID, "Bus pass", 25, "Transport", time.Now())
	require.NoError(t, err)

	totals, err := f.analytics.ByCategory(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	// Largest category first.
	assert.Equal(t, "Food", totals[0].Category)
	assert.InDelta(t, 100.0, totals[0].Total, 1e-9)
	assert.Equal(t, "Transport", totals[1].Category)
	assert.InDelta(t, 25.0, totals[1].Total, 1e-9)
}
