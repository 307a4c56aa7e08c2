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

type AuthHTTP struct {
	Svc      *service.AuthService
	Producer *mykafka.Producer
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	h.Producer.Publish(ctx, "user_events", strconv.FormatUint(uint64(user.ID), 10), map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) VerifyEmail(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.VerifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	if err := h.Svc.VerifyEmail(ctx, req.Code); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "email verified"})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	result, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	h.Producer.Publish(ctx, "user_events", strconv.FormatUint(uint64(result.UserID), 10), map[string]any{
		"type":    "user_logged_in",
		"user_id": result.UserID,
	})
	return c.JSON(http.StatusOK, result)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	result, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	if err := h.Svc.LogOut(ctx, req.RefreshToken); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "logged out"})
}

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	if err := h.Svc.ForgotPassword(ctx, req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "reset mail sent"})
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	if err := h.Svc.ResetPassword(ctx, c.Param("token"), req.Email, req.Password); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "password reset"})
}

func (h *AuthHTTP) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if id != authmw.UserIDFromEcho(c) {
		return echo.NewHTTPError(http.StatusForbidden, "own profile only")
	}

	user, err := h.Svc.GetProfile(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if id != authmw.UserIDFromEcho(c) {
		return echo.NewHTTPError(http.StatusForbidden, "own profile only")
	}

	var req transport.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	user, err := h.Svc.UpdateProfile(ctx, id, service.ProfileUpdate{
		Username: req.Username,
		Address:  req.Address,
		Mobile:   req.Mobile,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
