package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	"app/internal/event"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OrderUsecase はカート→注文の変換と、注文の参照を持つ。
// 変換は「注文作成＋明細作成＋カート削除」を1トランザクションで行う。
type OrderUsecase struct {
	tx        repo.TransactionManager
	customers repo.CustomerRepository
	publisher event.Publisher
	log       zerolog.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	customers repo.CustomerRepository,
	publisher event.Publisher,
	log zerolog.Logger,
) *OrderUsecase {
	return &OrderUsecase{tx: tx, customers: customers, publisher: publisher, log: log}
}

type PlaceOrderInput struct {
	CartID uuid.UUID
}

type OrderItemOutput struct {
	ProductID  int64           `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	CustomerID    int64             `json:"customer_id"`
	PaymentStatus string            `json:"payment_status"`
	PlacedAt      time.Time         `json:"placed_at"`
	Items         []OrderItemOutput `json:"items"`
	Total         decimal.Decimal   `json:"total"`
}

// PlaceOrder はカートを注文に変換する。
// 全部成功するか、何も起きないか（途中失敗は全ロールバック）。
// 同じカートに対する同時実行は行ロックで直列化され、負けた方は404になる。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.CartID == uuid.Nil {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid cart_id")
	}

	//呼び出し元を顧客に解決
	customer, err := u.customers.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "customer not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var out OrderOutput

	//変換はトランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カートを行ロック付きで取得。
		//先にコミットした変換がカートを消しているので、2回目はここで404になる。
		if _, err := r.Carts().FindByIDForUpdate(ctx, in.CartID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カート明細取得
		cartItems, err := r.CartItems().ListByCartID(ctx, in.CartID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		//明細ごとに今この瞬間のカタログ価格をスナップショット
		//（カートは価格を持っていないので必ずここで読む）
		now := time.Now()
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		total := decimal.Zero

		for _, ci := range cartItems {
			price, err := snapshotUnitPrice(ctx, r.Products(), ci.ProductID)
			if err == repo.ErrNotFound {
				//カート投入後に商品が消えたケース
				return NewHTTPError(http.StatusBadRequest, "invalid product")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				UnitPrice: price,
				CreatedAt: now,
			})

			total = total.Add(price.Mul(decimal.NewFromInt(ci.Quantity)))
		}

		//注文作成
		orderID, err := r.Orders().Create(ctx, model.Order{
			CustomerID:    customer.ID,
			PaymentStatus: model.PaymentStatusPending,
			PlacedAt:      now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートを明細ごと削除（再変換防止）
		if err := r.Carts().Delete(ctx, in.CartID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created := model.Order{
			ID:            orderID,
			CustomerID:    customer.ID,
			PaymentStatus: model.PaymentStatusPending,
			PlacedAt:      now,
		}
		out = toOrderOutput(created, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	//イベントはコミット後にだけ発行。失敗しても注文は成立済みなのでログだけ。
	ev := event.OrderCreated{
		OrderID:    out.ID,
		CustomerID: out.CustomerID,
		Total:      out.Total,
		OccurredAt: out.PlacedAt,
	}
	if err := u.publisher.PublishOrderCreated(ctx, ev); err != nil {
		u.log.Warn().Err(err).Int64("order_id", out.ID).Msg("order created event publish failed")
	}

	return out, nil
}

// 自分の注文一覧（ページング付き）。
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	customer, err := u.customers.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return []OrderOutput{}, NewHTTPError(http.StatusNotFound, "customer not found")
	}
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var outs []OrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByCustomerID(ctx, customer.ID, page, limit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 自分の注文詳細。他人の注文は「存在しない扱い」にする。
func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	customer, err := u.customers.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "customer not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var out OrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.CustomerID != customer.ID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 合計は保存済みスナップショット価格から計算する（現在価格は使わない）
func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	total := decimal.Zero

	for _, it := range items {
		lineTotal := it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
		outItems = append(outItems, OrderItemOutput{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: lineTotal,
		})
		total = total.Add(lineTotal)
	}

	return OrderOutput{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		PaymentStatus: string(o.PaymentStatus),
		PlacedAt:      o.PlacedAt,
		Items:         outItems,
		Total:         total,
	}
}
