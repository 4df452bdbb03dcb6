package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// internalError wraps an unexpected failure for the central error handler,
// which logs cause and renders msg with the cause as details.
func internalError(msg string, cause error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{
		Error:   msg,
		Details: cause.Error(),
	}).SetInternal(cause)
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrorResponse{Error: msg})
}
