package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	authmw "github.com/mberezin/shop_backend/internal/middleware/auth"
	"github.com/mberezin/shop_backend/internal/mykafka"
	"github.com/mberezin/shop_backend/internal/service"
	"github.com/mberezin/shop_backend/internal/transport"
)

type CartHTTP struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	userID := authmw.UserIDFromEcho(c)

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	userID := authmw.UserIDFromEcho(c)

	var req transport.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	cart, err := h.Svc.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}

	h.Producer.Publish(ctx, "cart_events", strconv.FormatUint(uint64(userID), 10), map[string]any{
		"type":       "item_added",
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})
	return c.JSON(http.StatusCreated, cart)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	userID := authmw.UserIDFromEcho(c)

	productID, err := pathID(c, "productId")
	if err != nil {
		return respondError(c, err)
	}

	cart, err := h.Svc.RemoveItem(ctx, userID, productID)
	if err != nil {
		return respondError(c, err)
	}

	h.Producer.Publish(ctx, "cart_events", strconv.FormatUint(uint64(userID), 10), map[string]any{
		"type":       "item_removed",
		"user_id":    userID,
		"product_id": productID,
	})
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	userID := authmw.UserIDFromEcho(c)

	cart, err := h.Svc.ClearCart(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	h.Producer.Publish(ctx, "cart_events", strconv.FormatUint(uint64(userID), 10), map[string]any{
		"type":    "cart_cleared",
		"user_id": userID,
	})
	return c.JSON(http.StatusOK, cart)
}
