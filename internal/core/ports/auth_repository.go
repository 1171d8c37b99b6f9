package ports

import (
	"context"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// AuthRepository defines persistence for console operator accounts.
type AuthRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Operator, error)
	Create(ctx context.Context, op *domain.Operator) (*domain.Operator, error)
}
