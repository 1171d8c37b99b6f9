package ports

import (
	"context"

	"github.com/99minutos/user-admin/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.Operator, error)
	// EnsureOperator creates the operator when it does not exist yet.
	EnsureOperator(ctx context.Context, username, password, role string) (*domain.Operator, error)
}
