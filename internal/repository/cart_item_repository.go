package repository

import (
	"context"

	"app/internal/domain/model"

	"github.com/google/uuid"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error)
	// 同一商品はプラス。マージ後の明細を返す。
	UpsertByCartAndProduct(ctx context.Context, cartID uuid.UUID, productID int64, addQty int64) (model.CartItem, error)
	// 数量の絶対値セット（加算しない）。明細が無ければ ErrNotFound。
	UpdateQuantity(ctx context.Context, cartID uuid.UUID, productID int64, qty int64) (model.CartItem, error)
	// 無くても成功（冪等）
	DeleteByCartAndProduct(ctx context.Context, cartID uuid.UUID, productID int64) error
	DeleteByCartID(ctx context.Context, cartID uuid.UUID) error
}
