package model

import "time"

// 注文ステータス更新、注文削除など。
type AuditAction string

const (
	//支払いステータスを更新した操作。
	AuditActionUpdatePaymentStatus AuditAction = "UPDATE_PAYMENT_STATUS"
	//注文を削除した操作。
	AuditActionDeleteOrder AuditAction = "DELETE_ORDER"
)

// 何に対する操作か
type AuditResourceType string

const (
	//注文に対する操作。
	AuditResourceOrder AuditResourceType = "order"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザー（主に管理者）のID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	//Actionは操作の種類（UPDATE_PAYMENT_STATUS / DELETE_ORDER など）。
	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	//対象の種類（order）。
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	//対象のID。
	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`

	//JSON文字列で保存する。
	AfterJSON string `gorm:"type:text" json:"after_json"`

	//作成時刻
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
