package model

import (
	"time"

	"github.com/google/uuid"
)

// 匿名カート。注文に変換されるか明示的に削除されるまで残る。
// IDはUUIDv7（時系列ソート可能、連番ではないので推測不可）
type Cart struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
