// Package expense tracks categorized spending records for analytics. Expenses
// are bookkeeping entries only and never move wallet balances.
package expense

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finpocket/finpocket/pkg/currency"
	"github.com/finpocket/finpocket/pkg/domain"
	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/finpocket/finpocket/pkg/money"
	"github.com/finpocket/finpocket/pkg/repository"
)

// DefaultCategories is the catalog seeded at startup.
var DefaultCategories = []string{
	"Food",
	"Transport",
	"Shopping",
	"Entertainment",
	"Bills",
	"Healthcare",
	"Education",
	"Other",
}

// Service records and lists expenses against the shared category catalog.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new expense service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger.With("service", "expense")}
}

// SeedCategories inserts any default category missing from the catalog.
// Idempotent; runs at startup.
func (s *Service) SeedCategories(ctx context.Context) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		for _, name := range DefaultCategories {
			existing, err := uow.Categories().GetByName(ctx, name)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if existing != nil {
				continue
			}
			if err := uow.Categories().Create(ctx, uuid.New(), name); err != nil {
				return err
			}
			s.logger.Info("category seeded", "name", name)
		}
		return nil
	})
}

// Categories lists the category catalog ordered by name.
func (s *Service) Categories(ctx context.Context) ([]*dto.CategoryRead, error) {
	var cats []*dto.CategoryRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		cats, err = uow.Categories().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cats, nil
}

// Add records an expense for the user. The amount is fiat main units; the
// category must name an existing catalog entry. A zero date defaults to now.
func (s *Service) Add(
	ctx context.Context,
	userID uuid.UUID,
	description string,
	amount float64,
	categoryName string,
	date time.Time,
) (*dto.ExpenseRead, error) {
	m, err := money.New(amount, currency.USD)
	if err != nil {
		return nil, err
	}
	if !m.IsPositive() {
		return nil, domain.ErrAmountMustBePositive
	}
	if date.IsZero() {
		date = time.Now()
	}

	var expense *dto.ExpenseRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		cat, err := uow.Categories().GetByName(ctx, categoryName)
		if err != nil {
			return domain.ErrCategoryNotFound
		}

		id := uuid.New()
		if err := uow.Expenses().Create(ctx, dto.ExpenseCreate{
			ID:          id,
			UserID:      userID,
			CategoryID:  cat.ID,
			Description: description,
			Amount:      m.Amount(),
			Date:        date,
		}); err != nil {
			return err
		}
		expense, err = uow.Expenses().Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("expense recorded", "user_id", userID,
		"category", categoryName, "amount", m.String())
	return expense, nil
}

// List returns the user's expenses, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*dto.ExpenseRead, error) {
	var expenses []*dto.ExpenseRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		expenses, err = uow.Expenses().ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []*dto.ExpenseRead{}
	}
	return expenses, nil
}
