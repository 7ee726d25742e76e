package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /paymentのHTTP。ゲートウェイ注文作成・検証・ステータス照会。
type PaymentHandler struct {
	paymentUC  *usecase.PaymentUsecase
	checkoutUC *usecase.CheckoutUsecase
}

func NewPaymentHandler(paymentUC *usecase.PaymentUsecase, checkoutUC *usecase.CheckoutUsecase) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC, checkoutUC: checkoutUC}
}

type verifyResponse struct {
	Msg   string              `json:"msg"`
	Order usecase.OrderOutput `json:"order"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repo.UserRepository) {
	g := e.Group("/payment")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.POST("/create-order", h.createOrder)
	g.POST("/verify", h.verify)
	g.GET("/order-status/:merchantOrderID", h.orderStatus)
}

func (h *PaymentHandler) createOrder(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.CreateGatewayOrderInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.paymentUC.CreateGatewayOrder(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}

	//フロントのSDKにそのまま渡せるよう素のまま返す
	return c.JSON(http.StatusOK, out)
}

// 署名検証。成功したときだけドメインの注文が作られる。
func (h *PaymentHandler) verify(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.VerifyPaymentInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	req.Order.IdempotencyKey = c.Request().Header.Get("X-Idempotency-Key")

	out, err := h.checkoutUC.VerifyAndPlaceOrder(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, verifyResponse{Msg: "payment verified", Order: out})
}

func (h *PaymentHandler) orderStatus(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.paymentUC.CheckOrderStatus(c.Request().Context(), userID, c.Param("merchantOrderID"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
