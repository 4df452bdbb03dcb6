package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/firas-saidi/user-auth-api/internal/api/metrics"
	"github.com/firas-saidi/user-auth-api/internal/core/token"
)

// Context keys set by Auth.
const (
	ClaimsKey = "claims"
	RoleKey   = "role"
	UserIDKey = "user_id"
)

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

// Auth validates the token carried verbatim in the Authorization header (no
// scheme prefix) and injects its claims into the context. A missing header is
// rejected with 403, an invalid or expired token with 401.
func Auth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(echo.HeaderAuthorization)
			if raw == "" {
				metrics.TokenChecksTotal.WithLabelValues("missing").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Access denied"})
			}

			claims, err := v.Verify(raw)
			if err != nil {
				metrics.TokenChecksTotal.WithLabelValues("invalid").Inc()
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
			}

			metrics.TokenChecksTotal.WithLabelValues("valid").Inc()
			c.Set(ClaimsKey, claims)
			c.Set(RoleKey, claims.Role)
			c.Set(UserIDKey, claims.UserID)

			return next(c)
		}
	}
}
