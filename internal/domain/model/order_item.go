package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。
// unit_price は変換時点のカタログ価格のスナップショットで、以後は不変。
// （カタログ価格が変わっても過去の注文は支払った価格を保持する）
// product_id は非所有参照。明細が参照している商品は削除できない。
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64           `gorm:"not null;index" json:"order_id"`
	ProductID int64           `gorm:"not null;index" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(16,2);not null" json:"unit_price"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
