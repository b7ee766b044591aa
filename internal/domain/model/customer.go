package model

import "time"

type Membership string

const (
	MembershipBronze Membership = "B"
	MembershipSilver Membership = "S"
	MembershipGold   Membership = "G"
)

// 顧客。user_id は外部の認証基盤のユーザーと1対1。
type Customer struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64      `gorm:"not null;uniqueIndex" json:"user_id"`
	Phone      string     `gorm:"type:varchar(255)" json:"phone"`
	BirthDate  *time.Time `json:"birth_date"`
	Membership Membership `gorm:"type:varchar(1);not null;default:'B'" json:"membership"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
