package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page       int
	Limit      int
	Status     string
	CustomerID *int64
	From       *time.Time
	To         *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	// payment_status だけ更新する。placed_at は触らない。
	UpdateStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error
	Delete(ctx context.Context, orderID int64) error

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
