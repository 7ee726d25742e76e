package repository

import (
	"context"

	"app/internal/domain/model"
)

// 履歴は追記のみ。更新・削除のメソッドは用意しない。
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry model.StatusHistory) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.StatusHistory, error)
	//最新エントリ（Order.statusと一致しているはずのもの）
	Latest(ctx context.Context, orderID int64) (model.StatusHistory, error)
}
