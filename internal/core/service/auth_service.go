package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/firas-saidi/user-auth-api/internal/core/domain"
	"github.com/firas-saidi/user-auth-api/internal/core/ports"
	"github.com/firas-saidi/user-auth-api/internal/core/token"
)

// PasswordCodec abstracts reversible password storage.
type PasswordCodec interface {
	Encode(plaintext string) (string, error)
	Decode(stored string) (string, error)
	Matches(stored, candidate string) (bool, error)
}

// TokenIssuer abstracts token issuance for a directory user.
type TokenIssuer interface {
	IssueFor(u *domain.User, ttl time.Duration) (string, error)
}

// AuthService implements registration and login.
type AuthService struct {
	repo     ports.UserRepository
	codec    PasswordCodec
	issuer   TokenIssuer
	guard    ports.RegistrationGuard
	tokenTTL time.Duration
	log      zerolog.Logger
}

// NewAuthService wires the service. guard may be nil.
func NewAuthService(
	repo ports.UserRepository,
	codec PasswordCodec,
	issuer TokenIssuer,
	guard ports.RegistrationGuard,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = token.DefaultTTL
	}
	return &AuthService{
		repo:     repo,
		codec:    codec,
		issuer:   issuer,
		guard:    guard,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// Register creates a user unless the email or userName is already taken, in
// which case domain.ErrDuplicate is returned.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}

	if s.guard != nil {
		claim, claimed, err := s.guard.Claim(ctx, in.Email, in.UserName)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("email", in.Email).Msg("registration claim failed, continuing")
		case !claimed:
			return nil, domain.ErrDuplicate
		default:
			defer s.release(ctx, in.Email, in.UserName, claim)
		}
	}

	existing, err := s.repo.FindByEmailOrUserName(ctx, in.Email, in.UserName)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	stored, err := s.codec.Encode(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: encode password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		UserName: in.UserName,
		Email:    in.Email,
		Password: stored,
		Role:     role,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, nil
}

// Login verifies the password for email and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	ok, err := s.codec.Matches(user.Password, password)
	if err != nil {
		return "", nil, fmt.Errorf("login: decode password: %w", err)
	}
	if !ok {
		return "", nil, domain.ErrInvalidCredentials
	}

	signed, err := s.issuer.IssueFor(user, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	return signed, user, nil
}

func (s *AuthService) release(ctx context.Context, email, userName, claim string) {
	if err := s.guard.Release(context.WithoutCancel(ctx), email, userName, claim); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to release registration claim")
	}
}
