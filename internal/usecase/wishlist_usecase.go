package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// WishlistUsecase は /wishlist（あとで買う）の業務ロジックです。
// 追加・削除のたびにサーバー側の正となる一覧を返す。
type WishlistUsecase struct {
	wishlistRepo repo.WishlistRepository
	productRepo  repo.ProductRepository
}

func NewWishlistUsecase(
	wishlistRepo repo.WishlistRepository,
	productRepo repo.ProductRepository,
) *WishlistUsecase {
	return &WishlistUsecase{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

type WishlistItemResponse struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Weight      string `json:"weight,omitempty"`
	Purity      string `json:"purity,omitempty"`
}

type SaveWishlistInput struct {
	ProductID int64
}

func (u *WishlistUsecase) GetWishlist(ctx context.Context, userID int64) ([]WishlistItemResponse, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return u.buildListResponse(ctx, userID)
}

// 追加。同一商品が既にあれば409（already saved）。
func (u *WishlistUsecase) Save(ctx context.Context, userID int64, in SaveWishlistInput) ([]WishlistItemResponse, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid product")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid product")
	}

	item := model.WishlistItem{
		UserID:      userID,
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Description: p.Description,
		Weight:      p.Weight,
		Purity:      p.Purity,
	}

	if err := u.wishlistRepo.Insert(ctx, item); err != nil {
		if err == repo.ErrDuplicate {
			items, berr := u.buildListResponse(ctx, userID)
			if berr != nil {
				return nil, berr
			}
			return nil, &WishlistConflictError{Message: "already saved", Items: items}
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildListResponse(ctx, userID)
}

// 削除（wishlist_item_idで削除）
func (u *WishlistUsecase) Remove(ctx context.Context, userID int64, itemID int64) ([]WishlistItemResponse, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.wishlistRepo.IsOwnedByUser(ctx, itemID, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.wishlistRepo.DeleteByID(ctx, itemID); err != nil {
		if err == repo.ErrNotFound {
			return nil, NewHTTPError(http.StatusNotFound, "not found")
		}
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildListResponse(ctx, userID)
}

func (u *WishlistUsecase) buildListResponse(ctx context.Context, userID int64) ([]WishlistItemResponse, error) {
	items, err := u.wishlistRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]WishlistItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, WishlistItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Name:        it.Name,
			Price:       it.Price,
			Image:       it.Image,
			Category:    it.Category,
			Description: it.Description,
			Weight:      it.Weight,
			Purity:      string(it.Purity),
		})
	}
	return out, nil
}
