package repository

import (
	"context"

	"app/internal/domain/model"
)

type WishlistRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error)
	//同一商品が既にあればErrDuplicate
	Insert(ctx context.Context, item model.WishlistItem) error
	DeleteByID(ctx context.Context, itemID int64) error
	FindByID(ctx context.Context, itemID int64) (model.WishlistItem, error)
	IsOwnedByUser(ctx context.Context, itemID int64, userID int64) (bool, error)
}
