package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/finpocket/finpocket/pkg/domain"
	"github.com/finpocket/finpocket/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, create dto.UserCreate) error {
	u := User{
		ID:       create.ID,
		Name:     create.Name,
		Email:    strings.ToLower(create.Email),
		Password: create.Password,
	}
	return r.db.WithContext(ctx).Create(&u).Error
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*dto.UserRead, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return mapUserToDTO(&u), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*dto.UserRead, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", strings.ToLower(email)).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return mapUserToDTO(&u), nil
}

func (r *userRepository) GetCredentialsByEmail(ctx context.Context, email string) (*dto.UserWithCredentials, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", strings.ToLower(email)).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &dto.UserWithCredentials{UserRead: *mapUserToDTO(&u), Password: u.Password}, nil
}

func (r *userRepository) Search(ctx context.Context, q string, excludeID uuid.UUID, limit int) ([]*dto.UserRead, error) {
	var users []User
	tx := r.db.WithContext(ctx).Where("id <> ?", excludeID)
	if q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("lower(name) LIKE ? OR lower(email) LIKE ?", pattern, pattern)
	}
	if err := tx.Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	result := make([]*dto.UserRead, 0, len(users))
	for i := range users {
		result = append(result, mapUserToDTO(&users[i]))
	}
	return result, nil
}

func mapUserToDTO(u *User) *dto.UserRead {
	return &dto.UserRead{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// mapNotFound translates gorm's record-not-found into the domain error.
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
