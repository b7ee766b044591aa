package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

func (r *CustomerGormRepository) FindByID(ctx context.Context, customerID int64) (model.Customer, error) {
	var c model.Customer

	err := r.db.WithContext(ctx).Where("id = ?", customerID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

// JWTのsub（外部ユーザーID）から顧客を引く
func (r *CustomerGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Customer, error) {
	var c model.Customer

	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}
