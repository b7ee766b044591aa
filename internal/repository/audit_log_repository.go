package repository

import (
	"context"

	"app/internal/domain/model"
)

// 管理者操作の監査ログ。
// 書き込みはステータス更新・注文削除のトランザクション内から、
// 読み出しは対象リソース単位の履歴参照だけ。
type AuditLogRepository interface {
	//監査ログを1件保存
	Create(ctx context.Context, log model.AuditLog) error

	//対象リソースの履歴を新しい順に取得。limit<=0はデフォルト扱い。
	ListByResource(ctx context.Context, resourceType model.AuditResourceType, resourceID int64, limit int) ([]model.AuditLog, error)
}
