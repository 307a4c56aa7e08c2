package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	authmw "github.com/mberezin/shop_backend/internal/middleware/auth"
	"github.com/mberezin/shop_backend/internal/models"
	"github.com/mberezin/shop_backend/internal/mykafka"
	"github.com/mberezin/shop_backend/internal/service"
	"github.com/mberezin/shop_backend/internal/transport"
)

type ReviewHTTP struct {
	Svc      *service.ReviewService
	Producer *mykafka.Producer
}

func (h *ReviewHTTP) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	reviews, err := h.Svc.GetReviews(ctx, productID)
	if err != nil {
		return respondError(c, err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHTTP) AddReview(c echo.Context) error {
	ctx := c.Request().Context()
	userID := authmw.UserIDFromEcho(c)

	productID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req transport.AddReviewRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	review, err := h.Svc.AddReview(ctx, userID, productID, req.Rating, req.Comment)
	if err != nil {
		return respondError(c, err)
	}

	h.Producer.Publish(ctx, "review_events", strconv.FormatUint(uint64(productID), 10), map[string]any{
		"type":       "review_added",
		"review_id":  review.ID,
		"product_id": productID,
		"rating":     review.Rating,
	})
	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHTTP) UpdateReview(c echo.Context) error {
	ctx := c.Request().Context()
	userID := authmw.UserIDFromEcho(c)

	reviewID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req transport.UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	review, err := h.Svc.UpdateReview(ctx, userID, reviewID, req.Comment)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHTTP) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	userID := authmw.UserIDFromEcho(c)

	reviewID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.Svc.DeleteReview(ctx, userID, reviewID); err != nil {
		return respondError(c, err)
	}

	h.Producer.Publish(ctx, "review_events", strconv.FormatUint(uint64(reviewID), 10), map[string]any{
		"type":      "review_deleted",
		"review_id": reviewID,
	})
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "review deleted"})
}
