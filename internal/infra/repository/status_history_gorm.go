package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

// 履歴は追記のみ。UPDATE/DELETEは実装しない。
type StatusHistoryGormRepository struct {
	db *gorm.DB
}

func NewStatusHistoryGormRepository(db *gorm.DB) *StatusHistoryGormRepository {
	return &StatusHistoryGormRepository{db: db}
}

func (r *StatusHistoryGormRepository) Append(ctx context.Context, entry model.StatusHistory) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *StatusHistoryGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.StatusHistory, error) {
	var entries []model.StatusHistory

	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc, id asc").
		Find(&entries).Error; err != nil {
		return []model.StatusHistory{}, err
	}
	return entries, nil
}

func (r *StatusHistoryGormRepository) Latest(ctx context.Context, orderID int64) (model.StatusHistory, error) {
	var entry model.StatusHistory

	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at desc, id desc").
		First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.StatusHistory{}, repo.ErrNotFound
	}
	if err != nil {
		return model.StatusHistory{}, err
	}
	return entry, nil
}
