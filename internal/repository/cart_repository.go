package repository

import (
	"context"

	"app/internal/domain/model"

	"github.com/google/uuid"
)

type CartRepository interface {
	//空のカートを新規作成
	Create(ctx context.Context) (model.Cart, error)
	FindByID(ctx context.Context, cartID uuid.UUID) (model.Cart, error)
	// 行ロック付きで取得。注文変換のトランザクション内で使う。
	// 同じカートに対する2つ目の変換はここで直列化され、
	// コミット後に来た方はカートが消えているので ErrNotFound になる。
	FindByIDForUpdate(ctx context.Context, cartID uuid.UUID) (model.Cart, error)
	//カートと明細をまとめて削除
	Delete(ctx context.Context, cartID uuid.UUID) error
}
