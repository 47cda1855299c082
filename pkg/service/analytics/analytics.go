// Package analytics serves read-only aggregates over the ledger and the
// expense tracker for the dashboard.
package analytics

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/finpocket/finpocket/pkg/repository"
)

const defaultMonths = 12

// Service answers dashboard aggregate queries.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new analytics service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger.With("service", "analytics")}
}

// Summary totals the user's fiat ledger: income, expense and net balance.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (*dto.Summary, error) {
	var summary *dto.Summary
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		summary, err = uow.Analytics().Summary(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Monthly returns net fiat movement per month for the trailing year, oldest
// first.
func (s *Service) Monthly(ctx context.Context, userID uuid.UUID) ([]*dto.MonthlyTotal, error) {
	var totals []*dto.MonthlyTotal
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		totals, err = uow.Analytics().MonthlyTotals(ctx, userID, defaultMonths)
		return err
	})
	if err != nil {
		return nil, err
	}
	if totals == nil {
		totals = []*dto.MonthlyTotal{}
	}
	return totals, nil
}

// ByCategory sums the user's tracked expenses per category, largest first.
func (s *Service) ByCategory(ctx context.Context, userID uuid.UUID) ([]*dto.CategoryTotal, error) {
	var totals []*dto.CategoryTotal
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		totals, err = uow.Analytics().ExpenseTotalsByCategory(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if totals == nil {
		totals = []*dto.CategoryTotal{}
	}
	return totals, nil
}
