package usecase

import (
	"context"

	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// snapshotUnitPrice は変換時点のカタログ価格を読む。
// キャッシュせず毎回読み直す。注文明細に埋め込んだ後は不変になる。
func snapshotUnitPrice(ctx context.Context, products repo.ProductRepository, productID int64) (decimal.Decimal, error) {
	p, err := products.FindByID(ctx, productID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return p.UnitPrice, nil
}
