package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 公開カタログのHTTP。認証不要。
type ProductHandler struct {
	productUC  *usecase.ProductUsecase
	goldRateUC *usecase.GoldRateUsecase
}

func NewProductHandler(productUC *usecase.ProductUsecase, goldRateUC *usecase.GoldRateUsecase) *ProductHandler {
	return &ProductHandler{productUC: productUC, goldRateUC: goldRateUC}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)
	e.GET("/gold-rate", h.goldRate)
}

func (h *ProductHandler) list(c echo.Context) error {
	in := usecase.ProductListInput{
		Q:        c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Purity:   c.QueryParam("purity"),
		Sort:     c.QueryParam("sort"),
	}
	in.Page, _ = strconv.Atoi(c.QueryParam("page"))
	in.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	if v := c.QueryParam("min_price"); v != "" {
		if p, err := strconv.ParseInt(v, 10, 64); err == nil {
			in.MinPrice = &p
		}
	}
	if v := c.QueryParam("max_price"); v != "" {
		if p, err := strconv.ParseInt(v, 10, 64); err == nil {
			in.MaxPrice = &p
		}
	}

	out, err := h.productUC.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.productUC.GetDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) goldRate(c echo.Context) error {
	out, err := h.goldRateUC.Current(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
