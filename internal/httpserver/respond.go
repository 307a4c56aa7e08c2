package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mberezin/shop_backend/internal/logging"
	"github.com/mberezin/shop_backend/internal/service"
)

// httpStatus maps service sentinels to status codes: broken domain
// rules are the client's fault (400), missing entities 404, authz 403,
// anything unrecognized 500.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnverified),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrSamePassword),
		errors.Is(err, service.ErrDuplicateReview),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c echo.Context, err error) error {
	status := httpStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("internal_error", "error", err)
		msg = "internal server error"
	}
	return c.JSON(status, map[string]string{"error": msg})
}

func bindError(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s: %w", name, service.ErrValidation)
	}
	return uint(id), nil
}
