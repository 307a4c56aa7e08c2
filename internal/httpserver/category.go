package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mberezin/shop_backend/internal/models"
	"github.com/mberezin/shop_backend/internal/service"
	"github.com/mberezin/shop_backend/internal/transport"
)

type CategoryHTTP struct {
	Svc *service.CategoryService
}

func (h *CategoryHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return respondError(c, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	category, err := h.Svc.GetCategory(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	var req service.CategoryInput
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	category, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req service.CategoryInput
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	category, err := h.Svc.UpdateCategory(ctx, id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "category deleted"})
}

func (h *CategoryHTTP) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req transport.LinkProductRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	category, err := h.Svc.AddProductToCategory(ctx, id, req.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHTTP) CategoryProducts(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	products, err := h.Svc.ProductsByCategory(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(http.StatusOK, products)
}
