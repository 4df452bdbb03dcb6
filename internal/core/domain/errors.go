package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicate          = errors.New("email or userName already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrConflict           = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidRole        = errors.New("invalid role")
)

// Update collisions wrap ErrConflict so callers can match either.
var (
	ErrEmailTaken    = fmt.Errorf("%w: email already exists", ErrConflict)
	ErrUserNameTaken = fmt.Errorf("%w: username already exists", ErrConflict)
)
