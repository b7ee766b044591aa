package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusComplete PaymentStatus = "COMPLETE"
	PaymentStatusFailed   PaymentStatus = "FAILED"
)

// 有効なステータスかどうか
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusComplete, PaymentStatusFailed:
		return true
	}
	return false
}

// 注文。カート変換でのみ作られる。
// 作成後に変わるのは payment_status だけ。placed_at は不変。
type Order struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID    int64         `gorm:"not null;index" json:"customer_id"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;index" json:"payment_status"`
	PlacedAt      time.Time     `gorm:"not null" json:"placed_at"`
}
