package redis

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

var errDialRefused = errors.New("dial refused")

// unreachableClient never gets a connection, so every command fails fast.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:       "guard.invalid:6379",
		MaxRetries: -1,
		Dialer: func(context.Context, string, string) (net.Conn, error) {
			return nil, errDialRefused
		},
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestGuardKey_Normalizes(t *testing.T) {
	cases := map[string]string{
		"ana":    "register:ana",
		" Ana ":  "register:ana",
		"ANA.GZ": "register:ana.gz",
		"":       "register:",
	}
	for in, want := range cases {
		if got := guardKey(in); got != want {
			t.Errorf("guardKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewRegistrationGuard_DefaultTTL(t *testing.T) {
	if g := NewRegistrationGuard(nil, 0); g.ttl != defaultGuardTTL {
		t.Errorf("expected default ttl, got %v", g.ttl)
	}
	if g := NewRegistrationGuard(nil, 5*time.Second); g.ttl != 5*time.Second {
		t.Errorf("expected configured ttl, got %v", g.ttl)
	}
}

func TestRegistrationGuard_UnreachableWrapsErrors(t *testing.T) {
	g := NewRegistrationGuard(unreachableClient(t), time.Minute)
	ctx := context.Background()

	dup, err := g.IsDuplicate(ctx, "Ana")
	if err == nil {
		t.Fatal("expected error from IsDuplicate")
	}
	if dup {
		t.Error("an unreachable guard must not report a duplicate")
	}
	if !strings.HasPrefix(err.Error(), "registration guard check: ") || !strings.Contains(err.Error(), errDialRefused.Error()) {
		t.Errorf("unexpected check error: %v", err)
	}

	err = g.Mark(ctx, "Ana")
	if err == nil {
		t.Fatal("expected error from Mark")
	}
	if !strings.HasPrefix(err.Error(), "registration guard mark: ") || !strings.Contains(err.Error(), errDialRefused.Error()) {
		t.Errorf("unexpected mark error: %v", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err == nil || !strings.HasPrefix(err.Error(), "redis ping 127.0.0.1:1: ") {
		t.Fatalf("expected wrapped ping error, got %v", err)
	}
}
