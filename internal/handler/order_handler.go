package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /ordersのHTTP。一覧・詳細と代引き注文。
type OrderHandler struct {
	orderUC    *usecase.OrderUsecase
	checkoutUC *usecase.CheckoutUsecase
}

func NewOrderHandler(orderUC *usecase.OrderUsecase, checkoutUC *usecase.CheckoutUsecase) *OrderHandler {
	return &OrderHandler{orderUC: orderUC, checkoutUC: checkoutUC}
}

type orderEnvelope struct {
	Success bool                `json:"success"`
	Order   usecase.OrderOutput `json:"order"`
}

type orderListEnvelope struct {
	Success bool                  `json:"success"`
	Orders  []usecase.OrderOutput `json:"orders"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repo.UserRepository) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.GET("", h.listOrders)
	g.GET("/:id", h.getOrder)
	g.POST("/cod", h.placeCOD)
}

func (h *OrderHandler) listOrders(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	outs, err := h.orderUC.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, orderListEnvelope{Success: true, Orders: outs})
}

func (h *OrderHandler) getOrder(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.orderUC.GetMyOrderDetail(c.Request().Context(), userID, orderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, orderEnvelope{Success: true, Order: out})
}

// 代引き注文。二重送信対策にX-Idempotency-Keyを受ける。
func (h *OrderHandler) placeCOD(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.PlaceOrderInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	req.IdempotencyKey = c.Request().Header.Get("X-Idempotency-Key")

	out, err := h.checkoutUC.PlaceCODOrder(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, orderEnvelope{Success: true, Order: out})
}
