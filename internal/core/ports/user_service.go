package ports

import (
	"context"

	"github.com/firas-saidi/user-auth-api/internal/core/domain"
)

// UserWithPassword is a directory record with its password decoded.
type UserWithPassword struct {
	ID       string
	UserName string
	Email    string
	Role     string
	Password string
}

// UpdateUserInput carries a partial update. Empty fields are left unchanged.
type UpdateUserInput struct {
	ID       string
	Email    string
	UserName string
	Password string
	Role     string
	// CallerRole is the role asserted by the caller's token.
	CallerRole string
}

// UserService defines the user management operations. Admin-only checks for
// List, Get and Delete happen at the transport gate.
type UserService interface {
	List(ctx context.Context) ([]UserWithPassword, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
