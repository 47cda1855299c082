package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finpocket/finpocket/pkg/currency"
	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/finpocket/finpocket/pkg/money"
	"github.com/finpocket/finpocket/pkg/repository"
)

type analyticsRepository struct {
	db *gorm.DB
}

func (r *analyticsRepository) Summary(ctx context.Context, userID uuid.UUID) (*dto.Summary, error) {
	var row struct {
		Income  int64
		Expense int64
	}
	err := r.db.WithContext(ctx).Model(&Transaction{}).
		Select(`COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS expense`,
			dto.TransactionTypeIncome, dto.TransactionTypeExpense).
		Where("user_id = ? AND currency = ? AND status = ?",
			userID, currency.USD, dto.TransactionStatusCompleted).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &dto.Summary{
		TotalIncome:  mainUnits(row.Income),
		TotalExpense: mainUnits(row.Expense),
		Balance:      mainUnits(row.Income - row.Expense),
	}, nil
}

func (r *analyticsRepository) MonthlyTotals(ctx context.Context, userID uuid.UUID, months int) ([]*dto.MonthlyTotal, error) {
	monthExpr := "to_char(created_at, 'YYYY-MM')"
	if r.db.Dialector.Name() == "sqlite" {
		monthExpr = "strftime('%Y-%m', created_at)"
	}

	var rows []struct {
		Month string
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&Transaction{}).
		Select(monthExpr+` AS month,
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0) AS total`,
			dto.TransactionTypeIncome).
		Where("user_id = ? AND currency = ? AND status = ?",
			userID, currency.USD, dto.TransactionStatusCompleted).
		Group("month").
		Order("month DESC").
		Limit(months).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// Query takes the most recent months; present them oldest first.
	totals := make([]*dto.MonthlyTotal, len(rows))
	for i, row := range rows {
		totals[len(rows)-1-i] = &dto.MonthlyTotal{
			Month: row.Month,
			Total: mainUnits(row.Total),
		}
	}
	return totals, nil
}

func (r *analyticsRepository) ExpenseTotalsByCategory(ctx context.Context, userID uuid.UUID) ([]*dto.CategoryTotal, error) {
	var rows []struct {
		Category string
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&Expense{}).
		Select("categories.name AS category, COALESCE(SUM(expenses.amount), 0) AS total").
		Joins("JOIN categories ON categories.id = expenses.category_id").
		Where("expenses.user_id = ?", userID).
		Group("categories.name").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make([]*dto.CategoryTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, &dto.CategoryTotal{
			Category: row.Category,
			Total:    mainUnits(row.Total),
		})
	}
	return totals, nil
}

func mainUnits(cents int64) float64 {
	return money.NewFromSmallestUnit(cents, currency.USD).AmountFloat()
}

var _ repository.AnalyticsRepository = (*analyticsRepository)(nil)
