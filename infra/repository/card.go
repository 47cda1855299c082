package repository

import (
	"context"

	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type virtualCardRepository struct {
	db *gorm.DB
}

func (r *virtualCardRepository) Create(ctx context.Context, create dto.VirtualCardCreate) error {
	c := VirtualCard{
		ID:         create.ID,
		WalletID:   create.WalletID,
		CardNumber: create.CardNumber,
		ExpiryDate: create.ExpiryDate,
		CVV:        create.CVV,
	}
	return r.db.WithContext(ctx).Create(&c).Error
}

func (r *virtualCardRepository) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]*dto.VirtualCardRead, error) {
	var cards []VirtualCard
	err := r.db.WithContext(ctx).Where("wallet_id = ?", walletID).Find(&cards).Error
	if err != nil {
		return nil, err
	}
	result := make([]*dto.VirtualCardRead, 0, len(cards))
	for i := range cards {
		c := &cards[i]
		result = append(result, &dto.VirtualCardRead{
			ID:         c.ID,
			WalletID:   c.WalletID,
			CardNumber: c.CardNumber,
			ExpiryDate: c.ExpiryDate,
			CVV:        c.CVV,
			CreatedAt:  c.CreatedAt,
		})
	}
	return result, nil
}
