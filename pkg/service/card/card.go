// Package card issues cosmetic virtual cards tied to a wallet. Card numbers
// carry no settlement semantics; they are random digits for display.
package card

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/finpocket/finpocket/pkg/repository"
)

const cardValidityYears = 5

// Service creates and lists virtual cards.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new card service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger.With("service", "card")}
}

// Create issues a new card on the user's wallet: 16 random digits, a 3-digit
// CVV and an MM/YY expiry five years out.
func (s *Service) Create(ctx context.Context, userID uuid.UUID) (*dto.VirtualCardRead, error) {
	number, err := randomDigits(16)
	if err != nil {
		return nil, err
	}
	cvv, err := randomDigits(3)
	if err != nil {
		return nil, err
	}
	expiry := time.Now().AddDate(cardValidityYears, 0, 0).Format("01/06")

	var card *dto.VirtualCardRead
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		wallet, err := uow.Wallets().GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		create := dto.VirtualCardCreate{
			ID:         uuid.New(),
			WalletID:   wallet.ID,
			CardNumber: number,
			ExpiryDate: expiry,
			CVV:        cvv,
		}
		if err := uow.VirtualCards().Create(ctx, create); err != nil {
			return err
		}
		card = &dto.VirtualCardRead{
			ID:         create.ID,
			WalletID:   create.WalletID,
			CardNumber: create.CardNumber,
			ExpiryDate: create.ExpiryDate,
			CVV:        create.CVV,
			CreatedAt:  time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("virtual card created", "user_id", userID, "card_id", card.ID)
	return card, nil
}

// List returns the cards on the user's wallet.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*dto.VirtualCardRead, error) {
	var cards []*dto.VirtualCardRead
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		wallet, err := uow.Wallets().GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		cards, err = uow.VirtualCards().ListByWallet(ctx, wallet.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []*dto.VirtualCardRead{}
	}
	return cards, nil
}

func randomDigits(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate digit: %w", err)
		}
		digits[i] = byte('0' + d.Int64())
	}
	return string(digits), nil
}
