package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 失敗時は {message} と4xx/5xx
type ErrorResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Message: he.Message})
	}

	//500（内部詳細は返さない）
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Server error"})
}

// /products の公開API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/categories", h.categories)
	e.GET("/products/slug/:slug", h.bySlug)
	e.GET("/products/:id", h.detail)
}

// クエリからListProductsInputを組み立てる（公開/管理者で共用）
func parseListProductsInput(c echo.Context, defaultLimit int) (usecase.ListProductsInput, error) {
	in := usecase.ListProductsInput{Page: 1, Limit: defaultLimit}

	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return in, echo.NewHTTPError(http.StatusBadRequest, "invalid page")
		}
		in.Page = p
	}

	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return in, echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		in.Limit = l
	}

	// "All"は未指定扱い
	if v := c.QueryParam("category"); v != "" && v != "All" {
		in.Category = v
	}

	in.Search = c.QueryParam("search")
	in.Sort = c.QueryParam("sort")

	if v := c.QueryParam("minPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return in, echo.NewHTTPError(http.StatusBadRequest, "invalid minPrice")
		}
		in.MinPrice = &f
	}

	if v := c.QueryParam("maxPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return in, echo.NewHTTPError(http.StatusBadRequest, "invalid maxPrice")
		}
		in.MaxPrice = &f
	}

	return in, nil
}

func (h *ProductHandler) list(c echo.Context) error {
	in, err := parseListProductsInput(c, 12)
	if err != nil {
		he := err.(*echo.HTTPError)
		return c.JSON(he.Code, ErrorResponse{Message: he.Message.(string)})
	}

	out, err := h.uc.ListPublicProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"products": out.Products,
		"total":    out.Total,
		"page":     out.Page,
		"pages":    out.Pages,
	})
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid id"})
	}

	p, err := h.uc.GetProductDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "product": p})
}

func (h *ProductHandler) bySlug(c echo.Context) error {
	p, err := h.uc.GetProductBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "product": p})
}

func (h *ProductHandler) categories(c echo.Context) error {
	categories, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "categories": categories})
}
