package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const claimTTL = 30 * time.Second

// releaseScript deletes each key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
local n = 0
for _, k in ipairs(KEYS) do
	if redis.call("GET", k) == ARGV[1] then
		n = n + redis.call("DEL", k)
	end
end
return n
`)

// RegistrationGuard holds short-lived claims on the email and userName of an
// in-flight registration.
// Key format: register:email:<email> and register:username:<userName>
type RegistrationGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRegistrationGuard creates a RegistrationGuard wrapping the given client.
func NewRegistrationGuard(client *redis.Client) *RegistrationGuard {
	return &RegistrationGuard{client: client, ttl: claimTTL}
}

// Claim sets both keys to a fresh token if neither is held. A partial claim
// is rolled back.
func (g *RegistrationGuard) Claim(ctx context.Context, email, userName string) (string, bool, error) {
	emailKey, userKey := g.keys(email, userName)
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, emailKey, token, g.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("claim email: %w", err)
	}
	if !ok {
		return "", false, nil
	}

	ok, err = g.client.SetNX(ctx, userKey, token, g.ttl).Result()
	if err != nil || !ok {
		_ = g.release(ctx, token, emailKey)
		if err != nil {
			return "", false, fmt.Errorf("claim username: %w", err)
		}
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the claims still owned by token. Keys that expired and were
// claimed again by another registration are left alone.
func (g *RegistrationGuard) Release(ctx context.Context, email, userName, token string) error {
	emailKey, userKey := g.keys(email, userName)
	return g.release(ctx, token, emailKey, userKey)
}

func (g *RegistrationGuard) release(ctx context.Context, token string, keys ...string) error {
	if err := releaseScript.Run(ctx, g.client, keys, token).Err(); err != nil {
		return fmt.Errorf("release claim: %w", err)
	}
	return nil
}

func (g *RegistrationGuard) keys(email, userName string) (string, string) {
	return "register:email:" + email, "register:username:" + userName
}
