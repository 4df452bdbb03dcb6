package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/firas-saidi/user-auth-api/internal/api/middleware"
	"github.com/firas-saidi/user-auth-api/internal/core/domain"
	"github.com/firas-saidi/user-auth-api/internal/core/ports"
)

type stubUserService struct {
	listFn   func(ctx context.Context) ([]ports.UserWithPassword, error)
	getFn    func(ctx context.Context, id string) (*domain.User, error)
	updateFn func(ctx context.Context, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubUserService) List(ctx context.Context) ([]ports.UserWithPassword, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) Update(ctx context.Context, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, in)
}

func (s *stubUserService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestUserHandler_List(t *testing.T) {
	stub := &stubUserService{
		listFn: func(ctx context.Context) ([]ports.UserWithPassword, error) {
			return []ports.UserWithPassword{
				{ID: "id1", UserName: "alice", Email: "a@x.com", Role: "user", Password: "pw1"},
				{ID: "id2", UserName: "root", Email: "r@x.com", Role: "admin", Password: "toor"},
			}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/users", "")

	if err := NewUserHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp))
	}
	if resp[0]["_id"] != "id1" || resp[0]["password"] != "pw1" || resp[1]["role"] != "admin" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_List_Empty(t *testing.T) {
	stub := &stubUserService{
		listFn: func(ctx context.Context) ([]ports.UserWithPassword, error) { return nil, nil },
	}
	c, rec := newContext(http.MethodGet, "/users", "")

	if err := NewUserHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestUserHandler_List_Failure(t *testing.T) {
	stub := &stubUserService{
		listFn: func(ctx context.Context) ([]ports.UserWithPassword, error) {
			return nil, errors.New("decode password of id1: malformed")
		},
	}
	c, _ := newContext(http.MethodGet, "/users", "")

	err := NewUserHandler(stub).List(c)
	requireHTTPError(t, err, http.StatusInternalServerError, "Error fetching users")
}

func TestUserHandler_Get(t *testing.T) {
	stub := &stubUserService{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			if id != "id1" {
				return nil, domain.ErrUserNotFound
			}
			return &domain.User{ID: id, UserName: "alice", Email: "a@x.com", Password: "U2FsdGVkX1...", Role: "user"}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodGet, "/users/id1", "")
	c.SetParamNames("id")
	c.SetParamValues("id1")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	if resp["userName"] != "alice" || resp["email"] != "a@x.com" || resp["role"] != "user" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["password"]; ok {
		t.Fatalf("password must not be returned")
	}

	c, rec = newContext(http.MethodGet, "/users/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["error"] != "User not found" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Update_Success(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, in ports.UpdateUserInput) (*domain.User, error) {
			if in.ID != "id1" || in.Email != "new@x.com" || in.CallerRole != "user" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: in.ID, UserName: "alice", Email: in.Email, Role: "user"}, nil
		},
	}
	c, rec := newContext(http.MethodPut, "/users/id1", `{"email":"new@x.com"}`)
	c.SetParamNames("id")
	c.SetParamValues("id1")
	c.Set(middleware.RoleKey, "user")

	if err := NewUserHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp updatedUserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "User updated successfully" || resp.User.Email != "new@x.com" || resp.User.UserName != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Update_Failures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"unknown id", domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"email taken", domain.ErrEmailTaken, http.StatusBadRequest, "Email already exists"},
		{"userName taken", domain.ErrUserNameTaken, http.StatusBadRequest, "Username already exists"},
		{"role change by non-admin", domain.ErrForbidden, http.StatusForbidden, "Only admins can update roles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubUserService{
				updateFn: func(ctx context.Context, in ports.UpdateUserInput) (*domain.User, error) {
					return nil, fmt.Errorf("update: %w", tt.err)
				},
			}
			c, rec := newContext(http.MethodPut, "/users/id1", `{"role":"admin"}`)
			c.SetParamNames("id")
			c.SetParamValues("id1")

			if err := NewUserHandler(stub).Update(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if resp := decodeBody(t, rec); resp["error"] != tt.msg {
				t.Fatalf("unexpected payload: %+v", resp)
			}
		})
	}
}

func TestUserHandler_Update_Internal(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(ctx context.Context, in ports.UpdateUserInput) (*domain.User, error) {
			return nil, domain.ErrInvalidRole
		},
	}
	c, _ := newContext(http.MethodPut, "/users/id1", `{"role":"root"}`)
	c.SetParamNames("id")
	c.SetParamValues("id1")
	c.Set(middleware.RoleKey, "admin")

	err := NewUserHandler(stub).Update(c)
	requireHTTPError(t, err, http.StatusInternalServerError, "Error updating user")
}

func TestUserHandler_Delete(t *testing.T) {
	deleted := map[string]bool{}
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id string) error {
			if id != "id1" || deleted[id] {
				return domain.ErrUserNotFound
			}
			deleted[id] = true
			return nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newContext(http.MethodDelete, "/users/id1", "")
	c.SetParamNames("id")
	c.SetParamValues("id1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decodeBody(t, rec); rec.Code != http.StatusOK || resp["message"] != "User deleted successfully" {
		t.Fatalf("unexpected response %d: %+v", rec.Code, resp)
	}

	c, rec = newContext(http.MethodDelete, "/users/id1", "")
	c.SetParamNames("id")
	c.SetParamValues("id1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestUserHandler_Delete_Internal(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id string) error { return errors.New("server selection timeout") },
	}
	c, _ := newContext(http.MethodDelete, "/users/id1", "")
	c.SetParamNames("id")
	c.SetParamValues("id1")

	body := requireHTTPError(t, NewUserHandler(stub).Delete(c), http.StatusInternalServerError, "Error deleting user")
	if body.Details != "server selection timeout" {
		t.Fatalf("unexpected details: %q", body.Details)
	}
}
