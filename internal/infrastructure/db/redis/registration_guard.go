package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/user-admin/internal/core/ports"
)

const defaultGuardTTL = time.Minute

// RegistrationGuard remembers recent registrations so that a repeated submit
// of the same username is rejected until the TTL lapses.
// Key format: register:<lowercased username>
type RegistrationGuard struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.RegistrationGuard = (*RegistrationGuard)(nil)

// NewRegistrationGuard wraps client. A non-positive ttl falls back to one minute.
func NewRegistrationGuard(client *redis.Client, ttl time.Duration) *RegistrationGuard {
	if ttl <= 0 {
		ttl = defaultGuardTTL
	}
	return &RegistrationGuard{client: client, ttl: ttl}
}

// IsDuplicate reports whether username was registered within the TTL.
func (g *RegistrationGuard) IsDuplicate(ctx context.Context, username string) (bool, error) {
	n, err := g.client.Exists(ctx, guardKey(username)).Result()
	if err != nil {
		return false, fmt.Errorf("registration guard check: %w", err)
	}
	return n > 0, nil
}

// Mark records a successful registration of username.
func (g *RegistrationGuard) Mark(ctx context.Context, username string) error {
	if err := g.client.Set(ctx, guardKey(username), "1", g.ttl).Err(); err != nil {
		return fmt.Errorf("registration guard mark: %w", err)
	}
	return nil
}

func guardKey(username string) string {
	return "register:" + strings.ToLower(strings.TrimSpace(username))
}
