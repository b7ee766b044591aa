package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品カタログ。このコアからは読み取り専用。
// 在庫（inventory）は注文確定では減算しない。
type Product struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string          `gorm:"type:varchar(255);not null" json:"title"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(16,2);not null" json:"unit_price"`
	Inventory int64           `gorm:"not null" json:"inventory"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
