// Package auth handles registration, login and JWT issuance.
package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/finpocket/finpocket/pkg/config"
	"github.com/finpocket/finpocket/pkg/domain"
	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/finpocket/finpocket/pkg/repository"
	"github.com/finpocket/finpocket/pkg/utils"
)

// Service authenticates users against stored bcrypt hashes and issues HS256
// tokens carrying the user id.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.Jwt
	logger *slog.Logger
}

// New creates a new auth service.
func New(uow repository.UnitOfWork, cfg config.Jwt, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger.With("service", "auth")}
}

// Register creates the user and their empty wallet atomically. A duplicate
// email fails with ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, name, email, password string) (*dto.UserRead, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	userID := uuid.New()
	var user *dto.UserRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if existing, err := uow.Users().GetByEmail(ctx, email); err == nil && existing != nil {
			return domain.ErrAlreadyExists
		}
		if err := uow.Users().Create(ctx, dto.UserCreate{
			ID:       userID,
			Name:     name,
			Email:    email,
			Password: hash,
		}); err != nil {
			return err
		}
		if err := uow.Wallets().Create(ctx, dto.WalletCreate{
			ID:     uuid.New(),
			UserID: userID,
		}); err != nil {
			return err
		}
		var err error
		user, err = uow.Users().Get(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", userID)
	return user, nil
}

// dummyHash keeps login timing uniform when the email is unknown.
const dummyHash = "$2a$10$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

// Login verifies the email and password and returns the user. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*dto.UserRead, error) {
	var user *dto.UserRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		creds, err := uow.Users().GetCredentialsByEmail(ctx, email)
		if err != nil {
			_ = utils.CheckPasswordHash(password, dummyHash)
			return domain.ErrInvalidCredentials
		}
		if !utils.CheckPasswordHash(password, creds.Password) {
			return domain.ErrInvalidCredentials
		}
		user = &creds.UserRead
		return nil
	})
	if err != nil {
		s.logger.Warn("login failed", "email", email)
		return nil, err
	}
	s.logger.Info("login successful", "user_id", user.ID)
	return user, nil
}

// GetUser returns the user by id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
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

// GenerateToken issues a signed HS256 token for the user.
func (s *Service) GenerateToken(u *dto.UserRead) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = u.ID.String()
	claims["email"] = u.Email
	claims["name"] = u.Name
	claims["exp"] = time.Now().Add(s.cfg.Expiry).Unix()

	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		s.logger.Error("token signing failed", "user_id", u.ID, "error", err)
		return "", err
	}
	return signed, nil
}

// GetCurrentUserID extracts the authenticated user id from a verified token.
func (s *Service) GetCurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	if token == nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return userID, nil
}
