package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDeriveRate(t *testing.T) {
	//22K = 24K × 22/24
	assert.Equal(t, int64(660000), model.DeriveRate(720000, model.Purity22K))
	//18K = 24K × 18/24
	assert.Equal(t, int64(540000), model.DeriveRate(720000, model.Purity18K))
	assert.Equal(t, int64(720000), model.DeriveRate(720000, model.Purity24K))
}

func TestGoldRateUsecase_AdminUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("レート追記と純度ごとの一括再計算が同時に行われる", func(t *testing.T) {
		tx := newFakeTxManager()
		uc := usecase.NewGoldRateUsecase(tx, tx.repos.goldRates)
		r := tx.repos

		prev := model.GoldRate{ID: 1, Rate24K: 600000, Rate22K: 550000, Rate18K: 450000}
		r.goldRates.On("Latest", ctx).Return(prev, nil)

		created := model.GoldRate{ID: 2, Rate24K: 720000, Rate22K: 660000, Rate18K: 540000, UpdatedBy: 9}
		r.goldRates.On("Create", ctx, mock.MatchedBy(func(g model.GoldRate) bool {
			return g.Rate24K == 720000 && g.Rate22K == 660000 && g.Rate18K == 540000
		})).Return(created, nil)

		//係数は新/旧（純度別）
		r.products.On("RepriceByPurity", ctx, model.Purity24K, int64(720000), int64(600000)).Return(int64(3), nil)
		r.products.On("RepriceByPurity", ctx, model.Purity22K, int64(660000), int64(550000)).Return(int64(5), nil)
		r.products.On("RepriceByPurity", ctx, model.Purity18K, int64(540000), int64(450000)).Return(int64(2), nil)

		r.auditLogs.On("Create", ctx, mock.MatchedBy(func(l model.AuditLog) bool {
			return l.Action == model.AuditActionUpdateGoldRate && l.ActorUserID == 9
		})).Return(nil)

		out, err := uc.AdminUpdate(ctx, 9, usecase.UpdateGoldRateInput{Rate24K: 720000})

		assert.NoError(t, err)
		assert.Equal(t, int64(720000), out.Rate.Rate24K)
		assert.Equal(t, int64(660000), out.Rate.Rate22K)
		assert.Equal(t, int64(10), out.Repriced)
		r.products.AssertExpectations(t)
		r.auditLogs.AssertExpectations(t)
	})

	t.Run("初回は再計算しない", func(t *testing.T) {
		tx := newFakeTxManager()
		uc := usecase.NewGoldRateUsecase(tx, tx.repos.goldRates)
		r := tx.repos

		r.goldRates.On("Latest", ctx).Return(model.GoldRate{}, repo.ErrNotFound)
		r.goldRates.On("Create", ctx, mock.Anything).Return(model.GoldRate{ID: 1, Rate24K: 720000, Rate22K: 660000, Rate18K: 540000}, nil)
		r.auditLogs.On("Create", ctx, mock.Anything).Return(nil)

		out, err := uc.AdminUpdate(ctx, 9, usecase.UpdateGoldRateInput{Rate24K: 720000})

		assert.NoError(t, err)
		assert.Equal(t, int64(0), out.Repriced)
		r.products.AssertNotCalled(t, "RepriceByPurity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
