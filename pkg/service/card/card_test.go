package card_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infrarepository "github.com/finpocket/finpocket/infra/repository"
	"github.com/finpocket/finpocket/internal/testdb"
	"github.com/finpocket/finpocket/pkg/domain"
	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/finpocket/finpocket/pkg/repository"
	"github.com/finpocket/finpocket/pkg/service/card"
)

func newService(t *testing.T) (*card.Service, uuid.UUID) {
	t.Helper()
	uow := infrarepository.NewUoW(testdb.New(t))
	svc := card.New(uow, slog.Default())

	ctx := context.Background()
	userID := uuid.New()
	err := uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.Users().Create(ctx, dto.UserCreate{
			ID: userID, Name: "Alice", Email: "alice@example.com", Password: "hash",
		}); err != nil {
			return err
		}
		return uow.Wallets().Create(ctx, dto.WalletCreate{ID: uuid.New(), UserID: userID})
	})
	require.NoError(t, err)
	return svc, userID
}

func TestCreateCardFormat(t *testing.T) {
	svc, userID := newService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, userID)
	require.NoError(t, err)

	assert.Len(t, c.CardNumber, 16)
	for _, r := range c.CardNumber {
		assert.True(t, r >= '0' && r <= '9', "card number digit %q", r)
	}
	assert.Len(t, c.CVV, 3)

	expiry, err := time.Parse("01/06", c.ExpiryDate)
	require.NoError(t, err)
	assert.True(t, expiry.After(time.Now().AddDate(4, 0, 0)))
}

func TestCreateCardWithoutWallet(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestListCards(t *testing.T) {
	svc, userID := newService(t)
	ctx := context.Background()

	cards, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cards)

	first, err := svc.Create(ctx, userID)
	require.NoError(t, err)
	second, err := svc.Create(ctx, userID)
	require.NoError(t, err)
	assert.NotEqual(t, first.CardNumber, second.CardNumber)

	cards, err = svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, cards, 2)
}
