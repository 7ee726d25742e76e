package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func activeRing() model.Product {
	return model.Product{
		ID:       10,
		Name:     "Gold Ring",
		Price:    250000,
		Category: "rings",
		Weight:   "4.2g",
		Purity:   model.Purity22K,
		Stock:    5,
		IsActive: true,
	}
}

func TestCartUsecase_AddToCart(t *testing.T) {
	ctx := context.Background()

	t.Run("新規追加でカート全量が返る", func(t *testing.T) {
		cartRepo := new(MockCartRepo)
		itemRepo := new(MockCartItemRepo)
		productRepo := new(MockProductRepo)
		uc := usecase.NewCartUsecase(cartRepo, itemRepo, productRepo)

		cartRepo.On("GetOrCreateActiveByUserID", ctx, int64(1)).Return(model.Cart{ID: 7, UserID: 1, Status: model.CartStatusActive}, nil)
		productRepo.On("FindByID", ctx, int64(10)).Return(activeRing(), nil)
		itemRepo.On("Insert", ctx, mock.MatchedBy(func(it model.CartItem) bool {
			return it.CartID == 7 && it.ProductID == 10 && it.Quantity == 2 && it.Price == 250000
		})).Return(nil)
		itemRepo.On("ListByCartID", ctx, int64(7)).Return([]model.CartItem{
			{ID: 1, CartID: 7, ProductID: 10, Name: "Gold Ring", Price: 250000, Quantity: 2},
		}, nil)

		out, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ProductID: 10, Quantity: 2})

		assert.NoError(t, err)
		assert.Len(t, out.Items, 1)
		assert.Equal(t, int64(500000), out.Total)
		itemRepo.AssertExpectations(t)
	})

	t.Run("数量省略は1として扱う", func(t *testing.T) {
		cartRepo := new(MockCartRepo)
		itemRepo := new(MockCartItemRepo)
		productRepo := new(MockProductRepo)
		uc := usecase.NewCartUsecase(cartRepo, itemRepo, productRepo)

		cartRepo.On("GetOrCreateActiveByUserID", ctx, int64(1)).Return(model.Cart{ID: 7}, nil)
		productRepo.On("FindByID", ctx, int64(10)).Return(activeRing(), nil)
		itemRepo.On("Insert", ctx, mock.MatchedBy(func(it model.CartItem) bool {
			return it.Quantity == 1
		})).Return(nil)
		itemRepo.On("ListByCartID", ctx, int64(7)).Return([]model.CartItem{
			{ID: 1, ProductID: 10, Price: 250000, Quantity: 1},
		}, nil)

		out, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ProductID: 10})

		assert.NoError(t, err)
		assert.Equal(t, int64(250000), out.Total)
	})

	t.Run("二重追加は409でカート同梱、数量は変わらない", func(t *testing.T) {
		cartRepo := new(MockCartRepo)
		itemRepo := new(MockCartItemRepo)
		productRepo := new(MockProductRepo)
		uc := usecase.NewCartUsecase(cartRepo, itemRepo, productRepo)

		cartRepo.On("GetOrCreateActiveByUserID", ctx, int64(1)).Return(model.Cart{ID: 7}, nil)
		productRepo.On("FindByID", ctx, int64(10)).Return(activeRing(), nil)
		itemRepo.On("Insert", ctx, mock.Anything).Return(repo.ErrDuplicate)
		itemRepo.On("ListByCartID", ctx, int64(7)).Return([]model.CartItem{
			{ID: 1, ProductID: 10, Price: 250000, Quantity: 3},
		}, nil)

		_, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ProductID: 10, Quantity: 5})

		conflict, ok := usecase.AsCartConflict(err)
		assert.True(t, ok)
		assert.Equal(t, "already in cart", conflict.Message)
		//サーバー側の数量3がそのまま（5にはならない）
		assert.Len(t, conflict.Cart.Items, 1)
		assert.Equal(t, int64(3), conflict.Cart.Items[0].Quantity)
		itemRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("未ログインは401", func(t *testing.T) {
		uc := usecase.NewCartUsecase(new(MockCartRepo), new(MockCartItemRepo), new(MockProductRepo))

		_, err := uc.AddToCart(ctx, 0, usecase.AddCartInput{ProductID: 10, Quantity: 1})

		he, ok := usecase.AsHTTPError(err)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Status)
	})

	t.Run("在庫超過は400", func(t *testing.T) {
		cartRepo := new(MockCartRepo)
		itemRepo := new(MockCartItemRepo)
		productRepo := new(MockProductRepo)
		uc := usecase.NewCartUsecase(cartRepo, itemRepo, productRepo)

		cartRepo.On("GetOrCreateActiveByUserID", ctx, int64(1)).Return(model.Cart{ID: 7}, nil)
		productRepo.On("FindByID", ctx, int64(10)).Return(activeRing(), nil)

		_, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ProductID: 10, Quantity: 99})

		he, ok := usecase.AsHTTPError(err)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Status)
		itemRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})
}

func TestCartUsecase_UpdateCartItem(t *testing.T) {
	ctx := context.Background()

	t.Run("数量は絶対値で更新する", func(t *testing.T) {
		cartRepo := new(MockCartRepo)
		itemRepo := new(MockCartItemRepo)
		productRepo := new(MockProductRepo)
		uc := usecase.NewCartUsecase(cartRepo, itemRepo, productRepo)

		itemRepo.On("IsOwnedByUser", ctx, int64(1), int64(1)).Return(true, nil)
		itemRepo.On("FindByID", ctx, int64(1)).Return(model.CartItem{ID: 1, CartID: 7, ProductID: 10, Price: 250000, Quantity: 2}, nil)
		productRepo.On("FindByID", ctx, int64(10)).Return(activeRing(), nil)
		itemRepo.On("UpdateQuantity", ctx, int64(1), int64(4)).Return(nil)
		cartRepo.On("FindActiveByUserID", ctx, int64(1)).Return(model.Cart{ID: 7}, nil)
		itemRepo.On("ListByCartID", ctx, int64(7)).Return([]model.CartItem{
			{ID: 1, ProductID: 10, Price: 250000, Quantity: 4},
		}, nil)

		out, err := uc.UpdateCartItem(ctx, 1, 1, usecase.UpdateCartItemInput{Quantity: 4})

		assert.NoError(t, err)
		assert.Equal(t, int64(1000000), out.Total)
	})

	t.Run("他人の明細は404", func(t *testing.T) {
		cartRepo := new(MockCartRepo)
		itemRepo := new(MockCartItemRepo)
		uc := usecase.NewCartUsecase(cartRepo, itemRepo, new(MockProductRepo))

		itemRepo.On("IsOwnedByUser", ctx, int64(1), int64(2)).Return(false, nil)

		_, err := uc.UpdateCartItem(ctx, 2, 1, usecase.UpdateCartItemInput{Quantity: 4})

		he, ok := usecase.AsHTTPError(err)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Status)
	})
}
