package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mberezin/shop_backend/internal/models"
	"github.com/mberezin/shop_backend/internal/tokens"
)

const claimsKey = "auth_claims"

type Middleware struct {
	JWTSecret []byte
}

// RequireAuth expects an Authorization: Bearer header. A missing header
// is 401; a present but invalid or expired token is 403.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "authorization required")
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "bearer token required")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
		}

		c.Set(claimsKey, claims)
		return next(c)
	}
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireAuth(func(c echo.Context) error {
		claims := ClaimsFromEcho(c)
		if claims == nil || claims.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin only")
		}
		return next(c)
	})
}

func ClaimsFromEcho(c echo.Context) *tokens.AccessClaims {
	if v, ok := c.Get(claimsKey).(*tokens.AccessClaims); ok {
		return v
	}
	return nil
}

// UserIDFromEcho returns the authenticated user's id, or 0 when the
// request carries no valid claims.
func UserIDFromEcho(c echo.Context) uint {
	claims := ClaimsFromEcho(c)
	if claims == nil {
		return 0
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
