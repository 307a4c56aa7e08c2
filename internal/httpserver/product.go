package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mberezin/shop_backend/internal/models"
	"github.com/mberezin/shop_backend/internal/mykafka"
	"github.com/mberezin/shop_backend/internal/service"
	"github.com/mberezin/shop_backend/internal/transport"
	"github.com/mberezin/shop_backend/internal/util"
)

type ProductHTTP struct {
	Svc      *service.CatalogService
	Producer *mykafka.Producer
}

func (h *ProductHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	pageNum, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("size"))

	query := service.ProductQuery{
		Page: util.NewPage(pageNum, pageSize),
		Sort: c.QueryParam("sort"),
	}

	var err error
	if query.PriceGTE, err = floatParam(c, "price[gte]"); err != nil {
		return respondError(c, err)
	}
	if query.PriceGT, err = floatParam(c, "price[gt]"); err != nil {
		return respondError(c, err)
	}
	if query.PriceLTE, err = floatParam(c, "price[lte]"); err != nil {
		return respondError(c, err)
	}
	if query.PriceLT, err = floatParam(c, "price[lt]"); err != nil {
		return respondError(c, err)
	}
	if query.CategoryID, err = uintParam(c, "category_id"); err != nil {
		return respondError(c, err)
	}

	products, meta, err := h.Svc.ListProducts(ctx, query)
	if err != nil {
		return respondError(c, err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(http.StatusOK, transport.ListResponse[models.Product]{Data: products, Meta: *meta})
}

func floatParam(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number: %w", name, service.ErrValidation)
	}
	return &v, nil
}

func uintParam(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a positive integer: %w", name, service.ErrValidation)
	}
	u := uint(v)
	return &u, nil
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return respondError(c, err)
	}

	h.Producer.Publish(ctx, "product_events", strconv.FormatUint(uint64(product.ID), 10), map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"name":       product.Name,
	})
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req service.ProductUpdate
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	product, err := h.Svc.UpdateProduct(ctx, id, req)
	if err != nil {
		return respondError(c, err)
	}

	h.Producer.Publish(ctx, "product_events", strconv.FormatUint(uint64(product.ID), 10), map[string]any{
		"type":       "product_updated",
		"product_id": product.ID,
	})
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return respondError(c, err)
	}

	h.Producer.Publish(ctx, "product_events", strconv.FormatUint(uint64(id), 10), map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "product deleted"})
}
