package event

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 注文確定イベント。コミット後にだけ発行する。
// 配信はベストエフォート（at-least-once）。受け手は冪等に処理すること。
type OrderCreated struct {
	OrderID    int64           `json:"order_id"`
	CustomerID int64           `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// 発行失敗で注文処理を失敗させてはいけない（呼び出し側でログだけ残す）
type Publisher interface {
	PublishOrderCreated(ctx context.Context, ev OrderCreated) error
}
