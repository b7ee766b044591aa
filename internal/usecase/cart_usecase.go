package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartUsecase は /carts の業務ロジックです。
// カートは匿名なので認可チェックは無い。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// 明細のprice/total_priceは常にカタログの現在価格で計算する。
// （カートはまだ注文ではないのでスナップショットしない）
type CartItemResponse struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"product_id"`
	Title      string          `json:"title"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int64           `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type CartResponse struct {
	ID        uuid.UUID          `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Items     []CartItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total"`
}

type AddCartItemInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// 空のカートを新規作成。
func (u *CartUsecase) CreateCart(ctx context.Context) (CartResponse, error) {
	cart, err := u.cartRepo.Create(ctx)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CartResponse{
		ID:        cart.ID,
		CreatedAt: cart.CreatedAt,
		Items:     []CartItemResponse{},
		Total:     decimal.Zero,
	}, nil
}

// カート取得（明細＋現在価格での合計）。
func (u *CartUsecase) GetCart(ctx context.Context, cartID uuid.UUID) (CartResponse, error) {
	cart, err := u.cartRepo.FindByID(ctx, cartID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart)
}

// カートに追加（同一商品は数量加算）。マージ後の明細を返す。
func (u *CartUsecase) AddItem(ctx context.Context, cartID uuid.UUID, in AddCartItemInput) (CartItemResponse, error) {
	if in.Quantity < 1 {
		return CartItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	//カートチェック
	if _, err := u.cartRepo.FindByID(ctx, cartID); err != nil {
		if err == repo.ErrNotFound {
			return CartItemResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//商品チェック
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartItemResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//Upsert（同一商品は加算）
	item, err := u.cartItemRepo.UpsertByCartAndProduct(ctx, cartID, in.ProductID, in.Quantity)
	if err != nil {
		return CartItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toCartItemResponse(item, p), nil
}

// 数量変更（絶対値セット、加算しない）。
func (u *CartUsecase) UpdateItem(ctx context.Context, cartID uuid.UUID, productID int64, in UpdateCartItemInput) (CartItemResponse, error) {
	if in.Quantity < 1 {
		return CartItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	//商品が消えていたら数量を触る前に404にする
	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return CartItemResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	item, err := u.cartItemRepo.UpdateQuantity(ctx, cartID, productID, in.Quantity)
	if err == repo.ErrNotFound {
		return CartItemResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toCartItemResponse(item, p), nil
}

// 明細削除。無くても204相当で成功（冪等）。
func (u *CartUsecase) RemoveItem(ctx context.Context, cartID uuid.UUID, productID int64) error {
	if err := u.cartItemRepo.DeleteByCartAndProduct(ctx, cartID, productID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// カート削除（明細ごと）。
func (u *CartUsecase) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	err := u.cartRepo.Delete(ctx, cartID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 明細をまとめてCartResponseを作る。
// 消えた商品の明細は表示から外す。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cart model.Cart) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	total := decimal.Zero

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			continue
		}

		resp := toCartItemResponse(it, p)
		respItems = append(respItems, resp)
		total = total.Add(resp.TotalPrice)
	}

	return CartResponse{
		ID:        cart.ID,
		CreatedAt: cart.CreatedAt,
		Items:     respItems,
		Total:     total,
	}, nil
}

func toCartItemResponse(it model.CartItem, p model.Product) CartItemResponse {
	return CartItemResponse{
		ID:         it.ID,
		ProductID:  it.ProductID,
		Title:      p.Title,
		UnitPrice:  p.UnitPrice,
		Quantity:   it.Quantity,
		TotalPrice: p.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)),
	}
}
