package repository

import (
	"context"
	"errors"

	"github.com/finpocket/finpocket/pkg/domain"
	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

func (r *walletRepository) Create(ctx context.Context, create dto.WalletCreate) error {
	w := Wallet{ID: create.ID, UserID: create.UserID}
	return r.db.WithContext(ctx).Create(&w).Error
}

func (r *walletRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*dto.WalletRead, error) {
	var w Wallet
	err := r.db.WithContext(ctx).First(&w, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return mapWalletToDTO(&w), nil
}

// GetByUserForUpdate acquires a row lock on the wallet so a concurrent debit
// cannot pass the balance guard against a stale read. Only meaningful inside
// a UoW transaction.
func (r *walletRepository) GetByUserForUpdate(ctx context.Context, userID uuid.UUID) (*dto.WalletRead, error) {
	q := r.db.WithContext(ctx)
	// sqlite has no row locks; the whole file locks on write instead.
	if r.db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var w Wallet
	err := q.First(&w, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return mapWalletToDTO(&w), nil
}

func (r *walletRepository) Update(ctx context.Context, id uuid.UUID, update dto.WalletUpdate) error {
	updates := make(map[string]any)
	if update.FiatBalance != nil {
		updates["fiat_balance"] = *update.FiatBalance
	}
	if update.CryptoBalance != nil {
		updates["crypto_balance"] = *update.CryptoBalance
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&Wallet{}).Where("id = ?", id).Updates(updates).Error
}

func mapWalletToDTO(w *Wallet) *dto.WalletRead {
	return &dto.WalletRead{
		ID:            w.ID,
		UserID:        w.UserID,
		FiatBalance:   w.FiatBalance,
		CryptoBalance: w.CryptoBalance,
		CreatedAt:     w.CreatedAt,
	}
}
