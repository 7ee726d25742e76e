package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type GoldRateGormRepository struct {
	db *gorm.DB
}

// DI
func NewGoldRateGormRepository(db *gorm.DB) *GoldRateGormRepository {
	return &GoldRateGormRepository{db: db}
}

// 最新レート（＝現在レート）
func (r *GoldRateGormRepository) Latest(ctx context.Context) (model.GoldRate, error) {
	var rate model.GoldRate

	err := r.db.WithContext(ctx).
		Order("id desc").
		First(&rate).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.GoldRate{}, repo.ErrNotFound
	}
	if err != nil {
		return model.GoldRate{}, err
	}
	return rate, nil
}

// レートは更新せず追記する（履歴を残す）
func (r *GoldRateGormRepository) Create(ctx context.Context, rate model.GoldRate) (model.GoldRate, error) {
	if err := r.db.WithContext(ctx).Create(&rate).Error; err != nil {
		return model.GoldRate{}, err
	}
	return rate, nil
}
