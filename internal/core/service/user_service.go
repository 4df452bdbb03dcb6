package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/firas-saidi/user-auth-api/internal/core/domain"
	"github.com/firas-saidi/user-auth-api/internal/core/ports"
)

// UserService implements the administrative and self-service operations on
// directory records.
type UserService struct {
	repo  ports.UserRepository
	codec PasswordCodec
	log   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, codec PasswordCodec, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, codec: codec, log: log}
}

// List returns every record with its password decoded.
func (s *UserService) List(ctx context.Context) ([]ports.UserWithPassword, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]ports.UserWithPassword, 0, len(users))
	for _, u := range users {
		plain, err := s.codec.Decode(u.Password)
		if err != nil {
			return nil, fmt.Errorf("list users: decode password of %s: %w", u.ID, err)
		}
		out = append(out, ports.UserWithPassword{
			ID:       u.ID,
			UserName: u.UserName,
			Email:    u.Email,
			Role:     u.Role,
			Password: plain,
		})
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies the non-empty fields of in. Fields are checked in the order
// email, userName, password, role and nothing is persisted if any check fails.
// Any authenticated caller may edit any record; only admins may change roles.
func (s *UserService) Update(ctx context.Context, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Email != "" && in.Email != user.Email {
		if err := s.ensureFree(s.repo.FindByEmail(ctx, in.Email)); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, domain.ErrEmailTaken
			}
			return nil, fmt.Errorf("update user: %w", err)
		}
		user.Email = in.Email
	}

	if in.UserName != "" && in.UserName != user.UserName {
		if err := s.ensureFree(s.repo.FindByUserName(ctx, in.UserName)); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, domain.ErrUserNameTaken
			}
			return nil, fmt.Errorf("update user: %w", err)
		}
		user.UserName = in.UserName
	}

	if in.Password != "" {
		stored, err := s.codec.Encode(in.Password)
		if err != nil {
			return nil, fmt.Errorf("update user: encode password: %w", err)
		}
		user.Password = stored
	}

	if in.Role != "" {
		if in.CallerRole != domain.RoleAdmin {
			return nil, domain.ErrForbidden
		}
		if !domain.ValidRole(in.Role) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, in.Role)
		}
		user.Role = in.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user updated")
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// ensureFree turns a lookup result into ErrConflict when a record was found.
func (s *UserService) ensureFree(u *domain.User, err error) error {
	if err == nil && u != nil {
		return domain.ErrConflict
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	return err
}
