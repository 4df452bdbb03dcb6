package ports

import (
	"context"

	"github.com/firas-saidi/user-auth-api/internal/core/domain"
)

// UserRepository defines persistence operations for the user directory.
// Implementations must enforce userName and email uniqueness at the storage
// layer and report violations as domain.ErrDuplicate (Create) or
// domain.ErrConflict (Update).
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUserName(ctx context.Context, userName string) (*domain.User, error)
	// FindByEmailOrUserName returns the first record matching either field.
	FindByEmailOrUserName(ctx context.Context, email, userName string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
