package model

import (
	"time"

	"github.com/google/uuid"
)

// カートの明細
// (cart_id, product_id) はユニーク。同じ商品の追加は数量加算になる。
// 価格は持たない（カート表示は常にカタログの現在価格で計算する）
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_cart_product" json:"cart_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:uniq_cart_product;index" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
