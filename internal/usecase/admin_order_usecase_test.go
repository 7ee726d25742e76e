package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	"app/internal/messaging"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAdminOrderUsecase_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Processing→Shippedはstatusと履歴が同時に進む", func(t *testing.T) {
		tx := newFakeTxManager()
		uc := usecase.NewAdminOrderUsecase(tx, messaging.NoopPublisher{})
		r := tx.repos

		r.orders.On("FindByID", ctx, int64(42)).Return(model.Order{ID: 42, UserID: 1, Status: model.OrderStatusProcessing, TotalPrice: 500000}, nil)
		r.orders.On("UpdateStatus", ctx, int64(42), model.OrderStatusShipped).Return(nil)
		r.histories.On("Append", ctx, mock.MatchedBy(func(h model.StatusHistory) bool {
			return h.OrderID == 42 &&
				h.Status == model.OrderStatusShipped &&
				h.UpdatedBy == model.StatusActorAdmin &&
				h.UpdatedByUserID != nil && *h.UpdatedByUserID == 9
		})).Return(nil)
		r.auditLogs.On("Create", ctx, mock.MatchedBy(func(l model.AuditLog) bool {
			return l.Action == model.AuditActionUpdateOrderStatus && l.ResourceID == 42 && l.ActorUserID == 9
		})).Return(nil)
		r.items.On("ListByOrderID", ctx, int64(42)).Return([]model.OrderItem{}, nil)
		r.histories.On("ListByOrderID", ctx, int64(42)).Return([]model.StatusHistory{
			{OrderID: 42, Status: model.OrderStatusProcessing},
			{OrderID: 42, Status: model.OrderStatusShipped},
		}, nil)

		out, err := uc.UpdateStatus(ctx, 9, 42, usecase.UpdateOrderStatusInput{Status: "Shipped", Note: "dispatched"})

		assert.NoError(t, err)
		assert.Equal(t, "Shipped", out.Status)
		//最新履歴とstatusが一致
		assert.Equal(t, out.Status, out.History[len(out.History)-1].Status)
		r.orders.AssertExpectations(t)
		r.histories.AssertExpectations(t)
		r.auditLogs.AssertExpectations(t)
	})

	t.Run("Pending→Shippedは許可されない", func(t *testing.T) {
		tx := newFakeTxManager()
		uc := usecase.NewAdminOrderUsecase(tx, messaging.NoopPublisher{})
		r := tx.repos

		r.orders.On("FindByID", ctx, int64(42)).Return(model.Order{ID: 42, Status: model.OrderStatusPending}, nil)

		_, err := uc.UpdateStatus(ctx, 9, 42, usecase.UpdateOrderStatusInput{Status: "Shipped"})

		he, ok := usecase.AsHTTPError(err)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Status)
		r.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		r.histories.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("不明なステータスは400", func(t *testing.T) {
		tx := newFakeTxManager()
		uc := usecase.NewAdminOrderUsecase(tx, messaging.NoopPublisher{})

		_, err := uc.UpdateStatus(ctx, 9, 42, usecase.UpdateOrderStatusInput{Status: "SHIPPED"})

		he, ok := usecase.AsHTTPError(err)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Status)
		assert.Equal(t, 0, tx.calls)
	})

	t.Run("キャンセルで在庫が戻る", func(t *testing.T) {
		tx := newFakeTxManager()
		uc := usecase.NewAdminOrderUsecase(tx, messaging.NoopPublisher{})
		r := tx.repos

		r.orders.On("FindByID", ctx, int64(42)).Return(model.Order{ID: 42, Status: model.OrderStatusProcessing}, nil)
		r.orders.On("UpdateStatus", ctx, int64(42), model.OrderStatusCancelled).Return(nil)
		r.histories.On("Append", ctx, mock.Anything).Return(nil)
		r.items.On("ListByOrderID", ctx, int64(42)).Return([]model.OrderItem{
			{OrderID: 42, ProductID: 10, Quantity: 2},
			{OrderID: 42, ProductID: 11, Quantity: 1},
		}, nil)
		r.inventory.On("IncreaseStock", ctx, int64(10), int64(2)).Return(nil)
		r.inventory.On("IncreaseStock", ctx, int64(11), int64(1)).Return(nil)
		r.auditLogs.On("Create", ctx, mock.Anything).Return(nil)
		r.histories.On("ListByOrderID", ctx, int64(42)).Return([]model.StatusHistory{}, nil)

		_, err := uc.UpdateStatus(ctx, 9, 42, usecase.UpdateOrderStatusInput{Status: "Cancelled"})

		assert.NoError(t, err)
		r.inventory.AssertExpectations(t)
	})
}
