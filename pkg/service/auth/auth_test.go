package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infrarepository "github.com/finpocket/finpocket/infra/repository"
	"github.com/finpocket/finpocket/internal/testdb"
	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/pkg/domain"
	"github.com/finpocket/finpocket/pkg/repository"
	"github.com/finpocket/finpocket/pkg/service/auth"

	"github.com/golang-jwt/jwt/v5"
)

func newService(t *testing.T) (*auth.Service, repository.UnitOfWork) {
	t.Helper()
	uow := infrarepository.NewUoW(testdb.New(t))
	cfg := config.Jwt{Secret: "test-secret", Expiry: time.Hour}
	return auth.New(uow, cfg, slog.Default()), uow
}

func TestRegisterCreatesUserAndWallet(t *testing.T) {
	svc, uow := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "Alice@Example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)

	err = uow.Do(ctx, func(uow repository.UnitOfWork) error {
		wallet, err := uow.Wallets().GetByUser(ctx, user.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(0), wallet.FiatBalance)
		assert.Equal(t, int64(0), wallet.CryptoBalance)
		return nil
	})
	require.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Other Alice", "ALICE@example.com", "password456")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	user, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "ghost@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	signed, err := svc.GenerateToken(user)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	userID, err := svc.GetCurrentUserID(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestGetCurrentUserIDRejectsBadToken(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.GetCurrentUserID(nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.GetCurrentUserID(&jwt.Token{Claims: jwt.MapClaims{}})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
