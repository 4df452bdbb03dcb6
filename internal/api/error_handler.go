package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/firas-saidi/user-auth-api/internal/api/handler"
	"github.com/firas-saidi/user-auth-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders handler-built error envelopes unchanged.
//   - Maps stray domain errors to their HTTP status codes.
//   - Logs every server-side failure with its underlying cause.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err)
		if code >= http.StatusInternalServerError {
			cause := err
			var he *echo.HTTPError
			if errors.As(err, &he) && he.Internal != nil {
				cause = he.Internal
			}
			log.Error().
				Err(cause).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error) (int, handler.ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch msg := he.Message.(type) {
		case handler.ErrorResponse:
			return he.Code, msg
		case string:
			return he.Code, handler.ErrorResponse{Error: msg}
		default:
			return he.Code, handler.ErrorResponse{Error: fmt.Sprintf("%v", msg)}
		}
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, handler.ErrorResponse{Error: "User not found"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, handler.ErrorResponse{Error: "Invalid credentials!"}
	case errors.Is(err, domain.ErrMissingToken):
		return http.StatusForbidden, handler.ErrorResponse{Error: "Access denied"}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, handler.ErrorResponse{Error: "Invalid token"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, handler.ErrorResponse{Error: "Access denied. Admins only."}
	}

	return http.StatusInternalServerError, handler.ErrorResponse{
		Error:   "internal server error",
		Details: err.Error(),
	}
}
