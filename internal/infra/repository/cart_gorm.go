package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository と CartItemRepository を両方実装する
type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// 空のカートを作成。IDはUUIDv7。
func (r *CartGormRepository) Create(ctx context.Context) (model.Cart, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.Cart{}, err
	}

	cart := model.Cart{
		ID:        id,
		CreatedAt: time.Now(),
	}

	if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

func (r *CartGormRepository) FindByID(ctx context.Context, cartID uuid.UUID) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Where("id = ?", cartID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 行ロック付きで取得。注文変換のトランザクション内で使う。
func (r *CartGormRepository) FindByIDForUpdate(ctx context.Context, cartID uuid.UUID) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", cartID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// カートと明細をまとめて削除
func (r *CartGormRepository) Delete(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//cart_itemsを全削除
		if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", cartID).Delete(&model.Cart{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

// カート明細を一覧取得
func (r *CartGormRepository) ListByCartID(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

// 同一商品は数量加算。マージ後の明細を返す。
func (r *CartGormRepository) UpsertByCartAndProduct(ctx context.Context, cartID uuid.UUID, productID int64, addQty int64) (model.CartItem, error) {

	if addQty <= 0 {
		return model.CartItem{}, errors.New("invalid quantity")
	}

	var out model.CartItem

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartItem

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			First(&item).Error

		if err == nil {
			// 既存ありだったら数量を増やす
			newQty := item.Quantity + addQty

			res := tx.Model(&model.CartItem{}).
				Where("id = ?", item.ID).
				Update("quantity", newQty)

			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}

			item.Quantity = newQty
			out = item
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		//無い場合は新規作成
		now := time.Now()
		newItem := model.CartItem{
			CartID:    cartID,
			ProductID: productID,
			Quantity:  addQty,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := tx.Create(&newItem).Error; err != nil {
			return err
		}

		out = newItem
		return nil
	})

	if err != nil {
		return model.CartItem{}, err
	}
	return out, nil
}

// 明細の数量を絶対値でセット
func (r *CartGormRepository) UpdateQuantity(ctx context.Context, cartID uuid.UUID, productID int64, qty int64) (model.CartItem, error) {
	var out model.CartItem

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartItem

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			First(&item).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repo.ErrNotFound
		}
		if err != nil {
			return err
		}

		res := tx.Model(&model.CartItem{}).
			Where("id = ?", item.ID).
			Update("quantity", qty)

		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		item.Quantity = qty
		out = item
		return nil
	})

	if err != nil {
		return model.CartItem{}, err
	}
	return out, nil
}

// 明細を削除。無くても成功（冪等）。
func (r *CartGormRepository) DeleteByCartAndProduct(ctx context.Context, cartID uuid.UUID, productID int64) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartItem{}).Error
}

// 指定カートの明細を全削除
func (r *CartGormRepository) DeleteByCartID(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{}).Error
}
