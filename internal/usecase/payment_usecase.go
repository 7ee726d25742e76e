package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	"app/internal/gateway"
	"app/internal/messaging"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PaymentUsecase は決済ゲートウェイとの橋渡し。
// ゲートウェイ注文の作成と、決済ステータスの照会・反映を担当する。
type PaymentUsecase struct {
	tx        repo.TransactionManager
	gw        gateway.Gateway
	publisher messaging.Publisher
}

func NewPaymentUsecase(
	tx repo.TransactionManager,
	gw gateway.Gateway,
	publisher messaging.Publisher,
) *PaymentUsecase {
	return &PaymentUsecase{tx: tx, gw: gw, publisher: publisher}
}

type CreateGatewayOrderInput struct {
	Amount  int64  `json:"amount"`
	Receipt string `json:"receipt"`
}

type GatewayOrderOutput struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type PaymentStatusOutput struct {
	State         string `json:"state"`
	TransactionID string `json:"transaction_id,omitempty"`
	OrderStatus   string `json:"order_status,omitempty"`
}

// ゲートウェイ注文を作る。この時点ではドメインの注文は作らない。
func (u *PaymentUsecase) CreateGatewayOrder(ctx context.Context, userID int64, in CreateGatewayOrderInput) (GatewayOrderOutput, error) {
	if userID <= 0 {
		return GatewayOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Amount <= 0 {
		return GatewayOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid amount")
	}

	receipt := in.Receipt
	if receipt == "" {
		receipt = "rcpt_" + uuid.NewString()[:13]
	}

	gwOrder, err := u.gw.CreateOrder(ctx, in.Amount, receipt)
	if err != nil {
		logrus.WithError(err).Warn("gateway order create failed")
		return GatewayOrderOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway unavailable")
	}

	return GatewayOrderOutput{
		ID:       gwOrder.ID,
		Amount:   gwOrder.Amount,
		Currency: gwOrder.Currency,
	}, nil
}

// 決済ステータス照会。
// COMPLETEDでまだPendingならProcessingへ、FAILEDならpayment_failedへ、
// サーバー側で正式に遷移させる（クライアント表示は参考値でしかない）。
func (u *PaymentUsecase) CheckOrderStatus(ctx context.Context, userID int64, merchantOrderID string) (PaymentStatusOutput, error) {
	if userID <= 0 {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if merchantOrderID == "" {
		return PaymentStatusOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	res, err := u.gw.OrderStatus(ctx, merchantOrderID)
	if err != nil {
		logrus.WithError(err).WithField("merchant_order_id", merchantOrderID).Warn("gateway status check failed")
		return PaymentStatusOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway unavailable")
	}

	out := PaymentStatusOutput{State: string(res.State), TransactionID: res.TransactionID}

	var published *messaging.OrderStatusEvent

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, ferr := r.Orders().FindByMerchantOrderID(ctx, merchantOrderID)
		if ferr == repo.ErrNotFound {
			//検証前に照会された場合など。ゲートウェイの状態だけ返す。
			return nil
		}
		if ferr != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if order.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		out.OrderStatus = string(order.Status)

		switch {
		case res.State == gateway.StateCompleted && order.Status == model.OrderStatusPending:
			if err := transitionStatusTx(ctx, r, order.ID, model.OrderStatusProcessing,
				model.StatusActorSystem, nil, "payment completed", ""); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if res.TransactionID != "" {
				if err := r.Orders().UpdateTransactionID(ctx, order.ID, res.TransactionID); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
			out.OrderStatus = string(model.OrderStatusProcessing)
			published = &messaging.OrderStatusEvent{
				OrderID:    order.ID,
				Status:     string(model.OrderStatusProcessing),
				Actor:      string(model.StatusActorSystem),
				TotalPrice: order.TotalPrice,
			}

		case res.State == gateway.StateFailed && order.Status == model.OrderStatusPending:
			if err := transitionStatusTx(ctx, r, order.ID, model.OrderStatusPaymentFailed,
				model.StatusActorSystem, nil, "payment failed", ""); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out.OrderStatus = string(model.OrderStatusPaymentFailed)
			published = &messaging.OrderStatusEvent{
				OrderID:    order.ID,
				Status:     string(model.OrderStatusPaymentFailed),
				Actor:      string(model.StatusActorSystem),
				TotalPrice: order.TotalPrice,
			}
		}
		return nil
	})

	if err != nil {
		return PaymentStatusOutput{}, err
	}

	if published != nil {
		if perr := u.publisher.PublishOrderStatus(ctx, *published); perr != nil {
			logrus.WithError(perr).WithField("order_id", published.OrderID).Warn("order status event publish failed")
		}
	}

	return out, nil
}
