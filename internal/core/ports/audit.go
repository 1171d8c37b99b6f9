package ports

import (
	"context"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// AuditRepository persists mutation audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}

// AuditRecorder accepts audit entries without blocking the caller.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}

// RegistrationGuard rejects repeated registration submissions.
type RegistrationGuard interface {
	IsDuplicate(ctx context.Context, username string) (bool, error)
	Mark(ctx context.Context, username string) error
}

type operatorKey struct{}

// WithOperator stores the acting operator's username in ctx.
func WithOperator(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, operatorKey{}, username)
}

// OperatorFrom returns the acting operator's username, or "".
func OperatorFrom(ctx context.Context) string {
	name, _ := ctx.Value(operatorKey{}).(string)
	return name
}
