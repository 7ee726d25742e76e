package handler

import (
	"net/http"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// 二重追加（409）。現在のカート全量を同梱して返す。
type cartConflictResponse struct {
	Success bool                 `json:"success"`
	Error   string               `json:"error"`
	Cart    usecase.CartResponse `json:"cart"`
}

type wishlistConflictResponse struct {
	Success bool                           `json:"success"`
	Error   string                         `json:"error"`
	Items   []usecase.WishlistItemResponse `json:"items"`
}

// usecaseのエラーをHTTPレスポンスへ。
func writeError(c echo.Context, err error) error {
	if conflict, ok := usecase.AsCartConflict(err); ok {
		return c.JSON(http.StatusConflict, cartConflictResponse{
			Success: false,
			Error:   conflict.Message,
			Cart:    conflict.Cart,
		})
	}
	if conflict, ok := usecase.AsWishlistConflict(err); ok {
		return c.JSON(http.StatusConflict, wishlistConflictResponse{
			Success: false,
			Error:   conflict.Message,
			Items:   conflict.Items,
		})
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Success: false, Error: he.Message})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: "internal error"})
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	userID, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}
