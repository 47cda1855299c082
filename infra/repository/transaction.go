package repository

import (
	"context"
	"math"

	"github.com/finpocket/finpocket/pkg/currency"
	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/finpocket/finpocket/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func (r *transactionRepository) Create(ctx context.Context, create dto.TransactionCreate) error {
	t := Transaction{
		ID:         create.ID,
		UserID:     create.UserID,
		WalletID:   create.WalletID,
		Amount:     create.Amount,
		Currency:   create.Currency,
		Type:       create.Type,
		Category:   create.Category,
		Status:     create.Status,
		SenderID:   create.SenderID,
		ReceiverID: create.ReceiverID,
		Note:       create.Note,
	}
	return r.db.WithContext(ctx).Create(&t).Error
}

func (r *transactionRepository) Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error {
	updates := make(map[string]any)
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&Transaction{}).Where("id = ?", id).Updates(updates).Error
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*dto.TransactionRead, error) {
	var t Transaction
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return mapTransactionToDTO(&t), nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter dto.TransactionFilter) ([]*dto.TransactionRead, error) {
	tx := r.applyFilter(ctx, userID, filter).Order("created_at DESC")
	if filter.Cursor != nil {
		var pivot Transaction
		if err := r.db.WithContext(ctx).First(&pivot, "id = ?", *filter.Cursor).Error; err != nil {
			return nil, mapNotFound(err)
		}
		tx = tx.Where("created_at < ?", pivot.CreatedAt)
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		tx = tx.Offset(filter.Offset)
	}
	var records []Transaction
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	result := make([]*dto.TransactionRead, 0, len(records))
	for i := range records {
		result = append(result, mapTransactionToDTO(&records[i]))
	}
	return result, nil
}

func (r *transactionRepository) CountByUser(ctx context.Context, userID uuid.UUID, filter dto.TransactionFilter) (int64, error) {
	var count int64
	err := r.applyFilter(ctx, userID, filter).Model(&Transaction{}).Count(&count).Error
	return count, err
}

func (r *transactionRepository) SumByWallet(ctx context.Context, walletID uuid.UUID, curr string) (int64, error) {
	var net *int64
	err := r.db.WithContext(ctx).Model(&Transaction{}).
		Select("SUM(CASE WHEN type = ? THEN amount ELSE -amount END)", dto.TransactionTypeIncome).
		Where("wallet_id = ? AND currency = ? AND status = ?",
			walletID, curr, dto.TransactionStatusCompleted).
		Scan(&net).Error
	if err != nil {
		return 0, err
	}
	if net == nil {
		return 0, nil
	}
	return *net, nil
}

func (r *transactionRepository) applyFilter(ctx context.Context, userID uuid.UUID, filter dto.TransactionFilter) *gorm.DB {
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Type != "" {
		tx = tx.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		tx = tx.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		tx = tx.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		tx = tx.Where("created_at <= ?", *filter.To)
	}
	return tx
}

func mapTransactionToDTO(t *Transaction) *dto.TransactionRead {
	code, err := currency.Parse(t.Currency)
	amountMain := float64(t.Amount)
	if err == nil {
		amountMain = money.NewFromSmallestUnit(t.Amount, code).AmountFloat()
	} else {
		amountMain = amountMain / math.Pow10(2)
	}
	return &dto.TransactionRead{
		ID:         t.ID,
		UserID:     t.UserID,
		WalletID:   t.WalletID,
		Amount:     t.Amount,
		AmountMain: amountMain,
		Currency:   t.Currency,
		Type:       t.Type,
		Category:   t.Category,
		Status:     t.Status,
		SenderID:   t.SenderID,
		ReceiverID: t.ReceiverID,
		Note:       t.Note,
		CreatedAt:  t.CreatedAt,
	}
}
