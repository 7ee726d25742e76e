package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image,omitempty"`
	Weight    string `json:"weight,omitempty"`
	Purity    string `json:"purity,omitempty"`
	Quantity  int64  `json:"quantity"`
}

type StatusHistoryOutput struct {
	Status    string    `json:"status"`
	UpdatedBy string    `json:"updated_by"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type OrderOutput struct {
	ID              int64                 `json:"id"`
	UserID          int64                 `json:"user_id"`
	CustomerName    string                `json:"customer_name"`
	CustomerEmail   string                `json:"customer_email"`
	CustomerPhone   string                `json:"customer_phone"`
	BillingAddress  string                `json:"billing_address"`
	DeliveryAddress string                `json:"delivery_address"`
	Status          string                `json:"status"`
	PaymentMethod   string                `json:"payment_method"`
	TotalPrice      int64                 `json:"total_price"`
	TransactionID   string                `json:"transaction_id,omitempty"`
	MerchantOrderID string                `json:"merchant_order_id,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	Items           []OrderItemOutput     `json:"items"`
	History         []StatusHistoryOutput `json:"history,omitempty"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items, nil))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 注文詳細。履歴も一緒に返す。他人の注文は「存在しない扱い」。
func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
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
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		history, err := r.StatusHistories().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items, history)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem, history []model.StatusHistory) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Image:     it.Image,
			Weight:    it.Weight,
			Purity:    string(it.Purity),
			Quantity:  it.Quantity,
		})
	}

	var outHistory []StatusHistoryOutput
	for _, h := range history {
		outHistory = append(outHistory, StatusHistoryOutput{
			Status:    string(h.Status),
			UpdatedBy: string(h.UpdatedBy),
			Note:      h.Note,
			Timestamp: h.CreatedAt,
		})
	}

	return OrderOutput{
		ID:              o.ID,
		UserID:          o.UserID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		BillingAddress:  o.BillingAddress,
		DeliveryAddress: o.DeliveryAddress,
		Status:          string(o.Status),
		PaymentMethod:   string(o.PaymentMethod),
		TotalPrice:      o.TotalPrice,
		TransactionID:   o.TransactionID,
		MerchantOrderID: o.MerchantOrderID,
		CreatedAt:       o.CreatedAt,
		Items:           outItems,
		History:         outHistory,
	}
}

// statusと履歴を同一Txで一緒に進める。
// Order.statusは最新履歴のキャッシュなので、片方だけの更新は禁止。
func transitionStatusTx(ctx context.Context, r repo.TxRepos, orderID int64, to model.OrderStatus, actor model.StatusActor, actorUserID *int64, note string, metadataJSON string) error {
	if err := r.Orders().UpdateStatus(ctx, orderID, to); err != nil {
		return err
	}
	return r.StatusHistories().Append(ctx, model.StatusHistory{
		OrderID:         orderID,
		Status:          to,
		UpdatedBy:       actor,
		UpdatedByUserID: actorUserID,
		Note:            note,
		MetadataJSON:    metadataJSON,
		CreatedAt:       time.Now(),
	})
}
