package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 管理者専用の注文操作。権限チェック自体はmiddleware側で済んでいる前提。
type AdminOrderUsecase struct {
	tx repo.TransactionManager
}

func NewAdminOrderUsecase(tx repo.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx}
}

type AdminUpdateOrderStatusInput struct {
	PaymentStatus string
}

// 注文一覧（全顧客・絞り込みあり）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListAdmin(ctx, f)
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

// 注文詳細（全顧客対象）。
func (u *AdminOrderUsecase) Get(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
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

// 支払いステータス更新。
// 遷移グラフは持たない。有効な値ならどの状態からどの状態へでも変えられる。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	if actorAdminUserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.PaymentStatus(strings.TrimSpace(in.PaymentStatus))
	if !newStatus.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		beforeStatus := o.PaymentStatus

		if beforeStatus != newStatus {
			if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
				if err == repo.ErrNotFound {
					return NewHTTPError(http.StatusNotFound, "not found")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//監査ログ（UPDATE_PAYMENT_STATUS）
			beforeJSON := `{"payment_status":"` + string(beforeStatus) + `"}`
			afterJSON := `{"payment_status":"` + string(newStatus) + `"}`
			if err := r.AuditLogs().Create(ctx, model.AuditLog{
				ActorUserID:  actorAdminUserID,
				Action:       model.AuditActionUpdatePaymentStatus,
				ResourceType: model.AuditResourceOrder,
				ResourceID:   orderID,
				BeforeJSON:   beforeJSON,
				AfterJSON:    afterJSON,
				CreatedAt:    time.Now(),
			}); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		o.PaymentStatus = newStatus

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

// 対象注文に対する管理者操作の履歴。新しい順。
func (u *AdminOrderUsecase) ListOrderAuditLogs(ctx context.Context, actorAdminUserID int64, orderID int64) ([]model.AuditLog, error) {
	if actorAdminUserID <= 0 {
		return []model.AuditLog{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var logs []model.AuditLog

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ls, err := r.AuditLogs().ListByResource(ctx, model.AuditResourceOrder, orderID, 100)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		logs = ls
		return nil
	})

	if err != nil {
		return []model.AuditLog{}, err
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}

// 注文削除（明細ごと）。
func (u *AdminOrderUsecase) Delete(ctx context.Context, actorAdminUserID int64, orderID int64) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().Delete(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//監査ログ（DELETE_ORDER）
		beforeJSON := `{"payment_status":"` + string(o.PaymentStatus) + `"}`
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionDeleteOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    `{}`,
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}
