package repository

import (
	"context"

	"app/internal/domain/model"
)

type GoldRateRepository interface {
	//最新レート。未登録ならErrNotFound。
	Latest(ctx context.Context) (model.GoldRate, error)
	Create(ctx context.Context, rate model.GoldRate) (model.GoldRate, error)
}
