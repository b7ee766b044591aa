package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// カタログ読み取り。このコアは商品を更新しない。
// 価格スナップショットもこの読み取りを通して取る。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)
}
