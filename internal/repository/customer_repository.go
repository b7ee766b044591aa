package repository

import (
	"context"

	"app/internal/domain/model"
)

// 顧客の取得だけを約束。作成・更新は認証基盤側の責務。
type CustomerRepository interface {
	FindByID(ctx context.Context, customerID int64) (model.Customer, error)
	// JWTのsub（外部ユーザーID）から顧客を引く
	FindByUserID(ctx context.Context, userID int64) (model.Customer, error)
}
