package ports

import "context"

// RegistrationGuard serialises in-flight registrations for the same email or
// userName. It narrows the check-then-insert window; the directory's unique
// indexes remain the source of truth.
type RegistrationGuard interface {
	// Claim reports false when another registration holds either key. The
	// returned token identifies the claim and must be passed to Release.
	Claim(ctx context.Context, email, userName string) (token string, ok bool, err error)
	// Release drops the keys still held under token.
	Release(ctx context.Context, email, userName, token string) error
}
