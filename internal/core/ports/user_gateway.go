package ports

import (
	"context"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// UserLoader fetches the full record list from the remote registry.
type UserLoader interface {
	FindAll(ctx context.Context) ([]domain.Record, error)
}

// MutationGateway performs remote mutations. Failures are returned as
// *domain.RemoteError. Implementations never retry.
type MutationGateway interface {
	// Create registers a new user and returns the stored record. The record
	// has a zero UserID when the remote reply did not include one.
	Create(ctx context.Context, user domain.NewUser) (*domain.Record, error)
	// Update applies patch to record id and returns the authoritative record,
	// or nil when the remote reply carries none.
	Update(ctx context.Context, id int64, patch domain.Patch) (*domain.Record, error)
	Delete(ctx context.Context, id int64) error
}

// UserGateway is the full remote user API.
type UserGateway interface {
	UserLoader
	MutationGateway
}
