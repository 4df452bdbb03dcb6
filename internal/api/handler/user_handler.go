package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/firas-saidi/user-auth-api/internal/api/metrics"
	"github.com/firas-saidi/user-auth-api/internal/api/middleware"
	"github.com/firas-saidi/user-auth-api/internal/core/domain"
	"github.com/firas-saidi/user-auth-api/internal/core/ports"
)

// UserHandler serves the user management endpoints. The authorization gate
// (token, and admin role where required) is applied by the router.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users.
//
// @Summary      List every user with decrypted passwords (admin only)
// @Tags         users
// @Produce      json
// @Security     TokenAuth
// @Success      200  {array}   listedUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		metrics.UserOperationsTotal.WithLabelValues("list", "error").Inc()
		return internalError("Error fetching users", err)
	}

	out := make([]listedUserResponse, len(users))
	for i, u := range users {
		out[i] = listedUserResponse{
			ID:       u.ID,
			UserName: u.UserName,
			Email:    u.Email,
			Role:     u.Role,
			Password: u.Password,
		}
	}

	metrics.UserOperationsTotal.WithLabelValues("list", "ok").Inc()
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /users/:id.
//
// @Summary      Get a user by id (admin only)
// @Tags         users
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.UserOperationsTotal.WithLabelValues("get", "not_found").Inc()
			return errorJSON(c, http.StatusNotFound, "User not found")
		}
		metrics.UserOperationsTotal.WithLabelValues("get", "error").Inc()
		return internalError("Error fetching user details", err)
	}

	metrics.UserOperationsTotal.WithLabelValues("get", "ok").Inc()
	return c.JSON(http.StatusOK, userResponse{
		UserName: user.UserName,
		Email:    user.Email,
		Role:     user.Role,
	})
}

// Update handles PUT /users/:id.
//
// Any authenticated caller may update email, userName or password of any
// record; changing the role requires an admin token.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  updatedUserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid payload")
	}
	callerRole, _ := c.Get(middleware.RoleKey).(string)

	user, err := h.service.Update(c.Request().Context(), ports.UpdateUserInput{
		ID:         c.Param("id"),
		Email:      req.Email,
		UserName:   req.UserName,
		Password:   req.Password,
		Role:       req.Role,
		CallerRole: callerRole,
	})
	if err != nil {
		status, msg, result := updateFailure(err)
		metrics.UserOperationsTotal.WithLabelValues("update", result).Inc()
		if status == http.StatusInternalServerError {
			return internalError("Error updating user", err)
		}
		return errorJSON(c, status, msg)
	}

	metrics.UserOperationsTotal.WithLabelValues("update", "ok").Inc()
	return c.JSON(http.StatusOK, updatedUserResponse{
		Message: "User updated successfully",
		User: updatedUserSnapshot{
			Email:    user.Email,
			UserName: user.UserName,
			Role:     user.Role,
		},
	})
}

func updateFailure(err error) (status int, msg, result string) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found", "not_found"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, "Email already exists", "conflict"
	case errors.Is(err, domain.ErrUserNameTaken):
		return http.StatusBadRequest, "Username already exists", "conflict"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest, "Email or userName already exists", "conflict"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Only admins can update roles", "forbidden"
	}
	return http.StatusInternalServerError, "", "error"
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete a user (admin only)
// @Tags         users
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.UserOperationsTotal.WithLabelValues("delete", "not_found").Inc()
			return errorJSON(c, http.StatusNotFound, "User not found")
		}
		metrics.UserOperationsTotal.WithLabelValues("delete", "error").Inc()
		return internalError("Error deleting user", err)
	}

	metrics.UserOperationsTotal.WithLabelValues("delete", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
