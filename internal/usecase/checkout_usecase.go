package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/gateway"
	"app/internal/messaging"
	"app/internal/notify"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CheckoutUsecase はカートを注文に変える。
// 代引き（COD）と、署名検証済みオンライン決済の2経路。
type CheckoutUsecase struct {
	tx        repo.TransactionManager
	gw        gateway.Gateway
	mailer    notify.Mailer
	publisher messaging.Publisher
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	gw gateway.Gateway,
	mailer notify.Mailer,
	publisher messaging.Publisher,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:        tx,
		gw:        gw,
		mailer:    mailer,
		publisher: publisher,
	}
}

type CustomerInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	BillingAddress  string `json:"billing_address"`
	DeliveryAddress string `json:"delivery_address"`
}

// 注文明細の入力。クライアントが送るスナップショット。
type CheckoutItemInput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image,omitempty"`
	Category  string `json:"category,omitempty"`
	Weight    string `json:"weight,omitempty"`
	Purity    string `json:"purity,omitempty"`
	Quantity  int64  `json:"quantity"`
}

type PlaceOrderInput struct {
	Customer       CustomerInput       `json:"customer"`
	Items          []CheckoutItemInput `json:"items"`
	Total          int64               `json:"total"`
	IdempotencyKey string              `json:"-"`
}

type VerifyPaymentInput struct {
	PaymentID string          `json:"payment_id"`
	OrderID   string          `json:"order_id"`
	Signature string          `json:"signature"`
	Order     PlaceOrderInput `json:"order"`
}

// 代引き注文。
func (u *CheckoutUsecase) PlaceCODOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validatePlaceOrderInput(in); err != nil {
		return OrderOutput{}, err
	}

	out, err := u.createOrder(ctx, userID, in, model.PaymentMethodCOD, "", "")
	if err != nil {
		return OrderOutput{}, err
	}

	u.afterOrderPlaced(ctx, out)
	return out, nil
}

// オンライン決済の確定。
// ゲートウェイ署名の検証に成功したときだけドメインの注文を作る。
// クライアントの成功コールバック単体では何も確定しない。
func (u *CheckoutUsecase) VerifyAndPlaceOrder(ctx context.Context, userID int64, in VerifyPaymentInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.PaymentID == "" || in.OrderID == "" || in.Signature == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment payload")
	}
	if err := validatePlaceOrderInput(in.Order); err != nil {
		return OrderOutput{}, err
	}

	if !u.gw.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "payment verification failed")
	}

	out, err := u.createOrder(ctx, userID, in.Order, model.PaymentMethodOnline, in.PaymentID, in.OrderID)
	if err != nil {
		return OrderOutput{}, err
	}

	u.afterOrderPlaced(ctx, out)
	return out, nil
}

// 両経路で共通の注文作成。
// 合計チェック→在庫減算→注文＋明細＋初期履歴→カートクリア を1Txで行う。
func (u *CheckoutUsecase) createOrder(ctx context.Context, userID int64, in PlaceOrderInput, method model.PaymentMethod, transactionID string, merchantOrderID string) (OrderOutput, error) {
	var out OrderOutput

	//キーはuniqueなので未指定時はこちらで採番する
	clientKey := in.IdempotencyKey != ""
	if !clientKey {
		in.IdempotencyKey = uuid.NewString()
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		if clientKey {
			existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, in.IdempotencyKey)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if found {
				items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
				if err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				out = toOrderOutput(existing, items, nil)
				return nil
			}
		}

		orderItems := make([]model.OrderItem, 0, len(in.Items))
		var total int64 = 0

		for _, it := range in.Items {
			//在庫減算（足りないなら false）
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "out of stock")
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID: it.ProductID,
				Name:      it.Name,
				Price:     it.Price,
				Image:     it.Image,
				Category:  it.Category,
				Weight:    it.Weight,
				Purity:    model.Purity(it.Purity),
				Quantity:  it.Quantity,
				CreatedAt: time.Now(),
			})

			total += it.Price * it.Quantity
		}

		//合計はサーバー側で再計算した値が正
		if total != in.Total {
			return NewHTTPError(http.StatusBadRequest, "total mismatch")
		}

		now := time.Now()
		order := model.Order{
			UserID:          userID,
			CustomerName:    in.Customer.Name,
			CustomerEmail:   in.Customer.Email,
			CustomerPhone:   in.Customer.Phone,
			BillingAddress:  in.Customer.BillingAddress,
			DeliveryAddress: in.Customer.DeliveryAddress,
			Status:          model.OrderStatusPending,
			PaymentMethod:   method,
			TotalPrice:      total,
			TransactionID:   transactionID,
			MerchantOrderID: merchantOrderID,
			IdempotencyKey:  in.IdempotencyKey,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//初期履歴。Order.status=Pendingと必ず揃える。
		if err := r.StatusHistories().Append(ctx, model.StatusHistory{
			OrderID:   orderID,
			Status:    model.OrderStatusPending,
			UpdatedBy: model.StatusActorSystem,
			Note:      "order placed",
			CreatedAt: now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//ACTIVEカートをCHECKED_OUTにして明細をクリア
		cart, err := r.Carts().FindActiveByUserID(ctx, userID)
		if err == nil {
			if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.Carts().Clear(ctx, cart.ID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		} else if err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		order.ID = orderID
		out = toOrderOutput(order, orderItems, []model.StatusHistory{{
			OrderID:   orderID,
			Status:    model.OrderStatusPending,
			UpdatedBy: model.StatusActorSystem,
			Note:      "order placed",
			CreatedAt: now,
		}})
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// コミット後の副作用。失敗しても注文は成立済みなのでログだけ残す。
func (u *CheckoutUsecase) afterOrderPlaced(ctx context.Context, out OrderOutput) {
	if err := u.mailer.SendOrderConfirmation(ctx, out.CustomerEmail, out.CustomerName, out.ID, out.TotalPrice); err != nil {
		logrus.WithError(err).WithField("order_id", out.ID).Warn("order confirmation mail failed")
	}

	if err := u.publisher.PublishOrderStatus(ctx, messaging.OrderStatusEvent{
		OrderID:    out.ID,
		Status:     out.Status,
		Actor:      string(model.StatusActorSystem),
		TotalPrice: out.TotalPrice,
	}); err != nil {
		logrus.WithError(err).WithField("order_id", out.ID).Warn("order status event publish failed")
	}
}

func validatePlaceOrderInput(in PlaceOrderInput) error {
	c := in.Customer
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Email) == "" || strings.TrimSpace(c.Phone) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid customer")
	}
	if strings.TrimSpace(c.BillingAddress) == "" || strings.TrimSpace(c.DeliveryAddress) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid address")
	}
	if len(in.Items) == 0 {
		return NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity < 1 || it.Price < 0 {
			return NewHTTPError(http.StatusBadRequest, "invalid item")
		}
	}
	if in.Total <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid total")
	}
	return nil
}
