package repository

import (
	"context"

	"github.com/finpocket/finpocket/pkg/currency"
	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/finpocket/finpocket/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

func (r *categoryRepository) Create(ctx context.Context, id uuid.UUID, name string) error {
	return r.db.WithContext(ctx).Create(&Category{ID: id, Name: name}).Error
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*dto.CategoryRead, error) {
	var c Category
	if err := r.db.WithContext(ctx).First(&c, "name = ?", name).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &dto.CategoryRead{ID: c.ID, Name: c.Name}, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*dto.CategoryRead, error) {
	var categories []Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	result := make([]*dto.CategoryRead, 0, len(categories))
	for i := range categories {
		result = append(result, &dto.CategoryRead{ID: categories[i].ID, Name: categories[i].Name})
	}
	return result, nil
}

type expenseRepository struct {
	db *gorm.DB
}

func (r *expenseRepository) Create(ctx context.Context, create dto.ExpenseCreate) error {
	e := Expense{
		ID:          create.ID,
		UserID:      create.UserID,
		CategoryID:  create.CategoryID,
		Description: create.Description,
		Amount:      create.Amount,
		Date:        create.Date,
	}
	return r.db.WithContext(ctx).Create(&e).Error
}

func (r *expenseRepository) Get(ctx context.Context, id uuid.UUID) (*dto.ExpenseRead, error) {
	var e Expense
	err := r.db.WithContext(ctx).Preload("Category").First(&e, "id = ?", id).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return mapExpenseToDTO(&e), nil
}

func (r *expenseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*dto.ExpenseRead, error) {
	var expenses []Expense
	err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	result := make([]*dto.ExpenseRead, 0, len(expenses))
	for i := range expenses {
		result = append(result, mapExpenseToDTO(&expenses[i]))
	}
	return result, nil
}

func mapExpenseToDTO(e *Expense) *dto.ExpenseRead {
	return &dto.ExpenseRead{
		ID:          e.ID,
		UserID:      e.UserID,
		Description: e.Description,
		Amount:      e.Amount,
		AmountMain:  money.NewFromSmallestUnit(e.Amount, currency.USD).AmountFloat(),
		Category:    dto.CategoryRead{ID: e.Category.ID, Name: e.Category.Name},
		Date:        e.Date,
	}
}
