package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/gold-rateのHTTP。ADMINのみ。
// 更新は対象純度の商品価格の一括再計算を伴う。
type AdminGoldRateHandler struct {
	uc *usecase.GoldRateUsecase
}

func NewAdminGoldRateHandler(uc *usecase.GoldRateUsecase) *AdminGoldRateHandler {
	return &AdminGoldRateHandler{uc: uc}
}

func (h *AdminGoldRateHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repo.UserRepository) {
	g := e.Group("/admin/gold-rate")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))
	g.Use(middleware.AdminRoleGuard())

	g.PUT("", h.update)
}

func (h *AdminGoldRateHandler) update(c echo.Context) error {
	adminUserID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.UpdateGoldRateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AdminUpdate(c.Request().Context(), adminUserID, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
