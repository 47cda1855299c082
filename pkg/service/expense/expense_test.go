package expense_test

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
	"github.com/finpocket/finpocket/pkg/service/expense"
)

func newService(t *testing.T) (*expense.Service, repository.UnitOfWork) {
	t.Helper()
	uow := infrarepository.NewUoW(testdb.New(t))
	return expense.New(uow, slog.Default()), uow
}

func createUser(t *testing.T, uow repository.UnitOfWork) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	userID := uuid.New()
	err := uow.Do(ctx, func(uow repository.UnitOfWork) error {
		return uow.Users().Create(ctx, dto.UserCreate{
			ID: userID, Name: "Alice", Email: "alice@example.com", Password: "hash",
		})
	})
	require.NoError(t, err)
	return userID
}

func TestSeedCategoriesIsIdempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedCategories(ctx))
	require.NoError(t, svc.SeedCategories(ctx))

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(expense.DefaultCategories))

	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	assert.Contains(t, names, "Food")
	assert.Contains(t, names, "Other")
}

func TestAddExpense(t *testing.T) {
	svc, uow := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.SeedCategories(ctx))
	userID := createUser(t, uow)

	exp, err := svc.Add(ctx, userID, "Groceries", 42.50, "Food", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", exp.Description)
	assert.InDelta(t, 42.50, exp.AmountMain, 1e-9)
	assert.Equal(t, "Food", exp.Category.Name)
	assert.False(t, exp.Date.IsZero())
}

func TestAddExpenseUnknownCategory(t *testing.T) {
	svc, uow := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.SeedCategories(ctx))
	userID := createUser(t, uow)

	_, err := svc.Add(ctx, userID, "Mystery", 10, "Nonexistent", time.Time{})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestAddExpenseRejectsNonPositive(t *testing.T) {
	svc, uow := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.SeedCategories(ctx))
	userID := createUser(t, uow)

	_, err := svc.Add(ctx, userID, "Nothing", 0, "Food", time.Time{})
	assert.ErrorIs(t, err, domain.ErrAmountMustBePositive)
}

func TestListReturnsNewestFirst(t *testing.T) {
	svc, uow := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.SeedCategories(ctx))
	userID := createUser(t, uow)

	older := time.Now().Add(-48 * time.Hour)
	newer := time.Now()
	_, err := svc.Add(ctx, userID, "Old", 10, "Food", older)
	require.NoError(t, err)
	_, err = svc.Add(ctx, userID, "New", 20, "Transport", newer)
	require.NoError(t, err)

	expenses, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, "New", expenses[0].Description)
	assert.Equal(t, "Old", expenses[1].Description)
}
