package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	"app/internal/gateway"
	"app/internal/messaging"
	"app/internal/notify"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testGatewaySecret = "test-secret"

func newCheckoutUsecase(tx *fakeTxManager) *usecase.CheckoutUsecase {
	return usecase.NewCheckoutUsecase(
		tx,
		gateway.NewMockGateway(testGatewaySecret, gateway.StateCompleted),
		notify.NoopMailer{},
		messaging.NoopPublisher{},
	)
}

func validCustomer() usecase.CustomerInput {
	return usecase.CustomerInput{
		Name:            "Priya",
		Email:           "priya@example.com",
		Phone:           "+91-9000000000",
		BillingAddress:  "12 MG Road, Chennai",
		DeliveryAddress: "12 MG Road, Chennai",
	}
}

func ringItem(qty int64) usecase.CheckoutItemInput {
	return usecase.CheckoutItemInput{
		ProductID: 10,
		Name:      "Gold Ring",
		Price:     250000,
		Purity:    "22K",
		Quantity:  qty,
	}
}

func TestCheckoutUsecase_PlaceCODOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("注文・明細・初期履歴・カートクリアが1Txで行われる", func(t *testing.T) {
		tx := newFakeTxManager()
		uc := newCheckoutUsecase(tx)
		r := tx.repos

		r.inventory.On("DecreaseStockIfEnough", ctx, int64(10), int64(2)).Return(true, nil)
		r.orders.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
			return o.Status == model.OrderStatusPending &&
				o.PaymentMethod == model.PaymentMethodCOD &&
				o.TotalPrice == 500000
		})).Return(int64(42), nil)
		r.items.On("CreateBulk", ctx, int64(42), mock.Anything).Return(nil)
		r.histories.On("Append", ctx, mock.MatchedBy(func(h model.StatusHistory) bool {
			return h.OrderID == 42 &&
				h.Status == model.OrderStatusPending &&
				h.UpdatedBy == model.StatusActorSystem
		})).Return(nil)
		r.carts.On("FindActiveByUserID", ctx, int64(1)).Return(model.Cart{ID: 7}, nil)
		r.carts.On("UpdateStatus", ctx, int64(7), model.CartStatusCheckedOut).Return(nil)
		r.carts.On("Clear", ctx, int64(7)).Return(nil)

		out, err := uc.PlaceCODOrder(ctx, 1, usecase.PlaceOrderInput{
			Customer: validCustomer(),
			Items:    []usecase.CheckoutItemInput{ringItem(2)},
			Total:    500000,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(42), out.ID)
		assert.Equal(t, string(model.OrderStatusPending), out.Status)
		//statusと最新履歴が一致している
		assert.Len(t, out.History, 1)
		assert.Equal(t, out.Status, out.History[0].Status)
		assert.Equal(t, 1, tx.calls)
		r.orders.AssertExpectations(t)
		r.histories.AssertExpectations(t)
		r.carts.AssertExpectations(t)
	})

	t.Run("合計が明細と合わなければ400で注文は作られない", func(t *testing.T) {
		tx := newFakeTxManager()
		uc := newCheckoutUsecase(tx)
		r := tx.repos

		r.inventory.On("DecreaseStockIfEnough", ctx, int64(10), int64(2)).Return(true, nil)

		_, err := uc.PlaceCODOrder(ctx, 1, usecase.PlaceOrderInput{
			Customer: validCustomer(),
			Items:    []usecase.CheckoutItemInput{ringItem(2)},
			Total:    1, //500000が正
		})

		he, ok := usecase.AsHTTPError(err)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Status)
		r.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("在庫不足は400", func(t *testing.T) {
		tx := newFakeTxManager()
		uc := newCheckoutUsecase(tx)
		r := tx.repos

		r.inventory.On("DecreaseStockIfEnough", ctx, int64(10), int64(2)).Return(false, nil)

		_, err := uc.PlaceCODOrder(ctx, 1, usecase.PlaceOrderInput{
			Customer: validCustomer(),
			Items:    []usecase.CheckoutItemInput{ringItem(2)},
			Total:    500000,
		})

		he, ok := usecase.AsHTTPError(err)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Status)
		r.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("同じIdempotency-Keyは既存の注文を返す", func(t *testing.T) {
		tx := newFakeTxManager()
		uc := newCheckoutUsecase(tx)
		r := tx.repos

		existing := model.Order{ID: 42, UserID: 1, Status: model.OrderStatusPending, TotalPrice: 500000}
		r.orders.On("FindByIdempotencyKey", ctx, int64(1), "key-1").Return(existing, true, nil)
		r.items.On("ListByOrderID", ctx, int64(42)).Return([]model.OrderItem{}, nil)

		out, err := uc.PlaceCODOrder(ctx, 1, usecase.PlaceOrderInput{
			Customer:       validCustomer(),
			Items:          []usecase.CheckoutItemInput{ringItem(2)},
			Total:          500000,
			IdempotencyKey: "key-1",
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(42), out.ID)
		r.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		r.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCheckoutUsecase_VerifyAndPlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("署名不正なら注文は一切作られない", func(t *testing.T) {
		tx := newFakeTxManager()
		uc := newCheckoutUsecase(tx)

		_, err := uc.VerifyAndPlaceOrder(ctx, 1, usecase.VerifyPaymentInput{
			PaymentID: "pay_1",
			OrderID:   "mo_1",
			Signature: "forged",
			Order: usecase.PlaceOrderInput{
				Customer: validCustomer(),
				Items:    []usecase.CheckoutItemInput{ringItem(2)},
				Total:    500000,
			},
		})

		he, ok := usecase.AsHTTPError(err)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Status)
		//Txに入る前に弾かれている
		assert.Equal(t, 0, tx.calls)
	})

	t.Run("正しい署名ならONLINE注文が作られる", func(t *testing.T) {
		tx := newFakeTxManager()
		uc := newCheckoutUsecase(tx)
		r := tx.repos

		r.inventory.On("DecreaseStockIfEnough", ctx, int64(10), int64(2)).Return(true, nil)
		r.orders.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
			return o.PaymentMethod == model.PaymentMethodOnline &&
				o.TransactionID == "pay_1" &&
				o.MerchantOrderID == "mo_1"
		})).Return(int64(43), nil)
		r.items.On("CreateBulk", ctx, int64(43), mock.Anything).Return(nil)
		r.histories.On("Append", ctx, mock.Anything).Return(nil)
		r.carts.On("FindActiveByUserID", ctx, int64(1)).Return(model.Cart{ID: 7}, nil)
		r.carts.On("UpdateStatus", ctx, int64(7), model.CartStatusCheckedOut).Return(nil)
		r.carts.On("Clear", ctx, int64(7)).Return(nil)

		out, err := uc.VerifyAndPlaceOrder(ctx, 1, usecase.VerifyPaymentInput{
			PaymentID: "pay_1",
			OrderID:   "mo_1",
			Signature: gateway.Sign(testGatewaySecret, "mo_1", "pay_1"),
			Order: usecase.PlaceOrderInput{
				Customer: validCustomer(),
				Items:    []usecase.CheckoutItemInput{ringItem(2)},
				Total:    500000,
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(43), out.ID)
		assert.Equal(t, string(model.PaymentMethodOnline), out.PaymentMethod)
		r.orders.AssertExpectations(t)
	})
}
