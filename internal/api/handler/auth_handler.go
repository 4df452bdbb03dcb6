package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/firas-saidi/user-auth-api/internal/api/metrics"
	"github.com/firas-saidi/user-auth-api/internal/core/domain"
	"github.com/firas-saidi/user-auth-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// A taken email or userName is reported with status 200 and an error body,
// not with a 4xx status; existing clients rely on this.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Success      200   {object}  ErrorResponse  "email or userName already exists"
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return internalError("Error registering user", err)
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return errorJSON(c, http.StatusOK, "Email or userName already exists")
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return internalError("Error registering user", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		UserName: user.UserName,
		Email:    user.Email,
		Role:     user.Role,
	})
}

// Login authenticates a user and returns a signed token valid for one hour.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}

	signed, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
			return errorJSON(c, http.StatusNotFound, "User not found!")
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return errorJSON(c, http.StatusUnauthorized, "Invalid credentials!")
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return internalError("Error logging in", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Token:    signed,
		UserName: user.UserName,
		Email:    user.Email,
		Role:     user.Role,
	})
}
