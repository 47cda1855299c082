// Package user serves user lookups outside the auth flow.
package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/finpocket/finpocket/pkg/repository"
)

const searchLimit = 10

// Service answers user queries such as transfer recipient suggestions.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new user service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger.With("service", "user")}
}

// Search returns suggestion matches on name or email for the search box. The
// results are display hints only; a transfer still names its recipient by id
// or exact email.
func (s *Service) Search(ctx context.Context, q string, excludeID uuid.UUID) ([]*dto.UserRead, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []*dto.UserRead{}, nil
	}

	var users []*dto.UserRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		users, err = uow.Users().Search(ctx, q, excludeID, searchLimit)
		return err
	})
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*dto.UserRead{}
	}
	return users, nil
}

// Get returns the user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	var user *dto.UserRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		user, err = uow.Users().Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
