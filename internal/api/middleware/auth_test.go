package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/firas-saidi/user-auth-api/internal/core/token"
)

func signed(t *testing.T, secret, role string, ttl time.Duration) string {
	t.Helper()
	raw, err := token.NewIssuer(secret).Issue(token.Claims{UserID: "u1", UserName: "alice", Email: "a@x.com", Role: role}, ttl)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(token.NewIssuer("secret"))(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", signed(t, "secret", "admin", time.Hour))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(token.NewIssuer("secret"))(func(c echo.Context) error {
		called = true
		if c.Get(RoleKey) != "admin" {
			t.Fatalf("role not set")
		}
		if c.Get(UserIDKey) != "u1" {
			t.Fatalf("user id not set")
		}
		claims, ok := c.Get(ClaimsKey).(*token.Claims)
		if !ok || claims.UserName != "alice" || claims.Email != "a@x.com" {
			t.Fatalf("claims not set: %+v", c.Get(ClaimsKey))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec, called := runAuth(t, "")
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAuthMiddleware_BearerPrefixRejected(t *testing.T) {
	rec, called := runAuth(t, "Bearer "+signed(t, "secret", "admin", time.Hour))
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rec, called := runAuth(t, "not-a-token")
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	rec, called := runAuth(t, signed(t, "other", "admin", time.Hour))
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without calling next, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	rec, called := runAuth(t, signed(t, "secret", "admin", -time.Minute))
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without calling next, got %d (called=%v)", rec.Code, called)
	}
}
