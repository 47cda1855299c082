package money_test

import (
	"testing"

	"github.com/finpocket/finpocket/pkg/currency"
	"github.com/finpocket/finpocket/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_USDUsesCents(t *testing.T) {
	m, err := money.New(100.25, currency.USD)
	require.NoError(t, err)
	assert.Equal(t, int64(10025), m.Amount())
	assert.InDelta(t, 100.25, m.AmountFloat(), 0.0001)
}

func TestNew_BTCUsesSatoshi(t *testing.T) {
	m, err := money.New(0.00153846, currency.BTC)
	require.NoError(t, err)
	assert.Equal(t, int64(153846), m.Amount())
}

func TestNew_RoundsToSmallestUnit(t *testing.T) {
	m, err := money.New(0.005, currency.USD)
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.Amount())
}

func TestNew_UnsupportedCurrency(t *testing.T) {
	_, err := money.New(1, currency.Code("EUR"))
	assert.Error(t, err)
}

func TestAdd_CurrencyMismatch(t *testing.T) {
	usd, err := money.New(1, currency.USD)
	require.NoError(t, err)
	btc, err := money.New(1, currency.BTC)
	require.NoError(t, err)

	_, err = usd.Add(btc)
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestSubtract(t *testing.T) {
	a, err := money.New(100, currency.USD)
	require.NoError(t, err)
	b, err := money.New(40.50, currency.USD)
	require.NoError(t, err)

	got, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, int64(5950), got.Amount())
}

func TestLessThan(t *testing.T) {
	a := money.NewFromSmallestUnit(100, currency.USD)
	b := money.NewFromSmallestUnit(200, currency.USD)
	assert.True(t, a.LessThan(b))
	assert.False(t, b.LessThan(a))
}
