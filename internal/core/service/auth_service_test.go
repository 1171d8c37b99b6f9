package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/user-admin/internal/core/domain"
)

type stubAuthRepo struct {
	operators map[string]*domain.Operator
	creates   int
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{operators: make(map[string]*domain.Operator)}
}

func cloneOperator(op *domain.Operator) *domain.Operator {
	if op == nil {
		return nil
	}
	clone := *op
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, op *domain.Operator) (*domain.Operator, error) {
	if _, exists := r.operators[op.Username]; exists {
		return nil, domain.ErrOperatorExists
	}
	r.creates++
	stored := cloneOperator(op)
	if stored.ID == "" {
		stored.ID = op.Username
	}
	r.operators[stored.Username] = cloneOperator(stored)
	return cloneOperator(stored), nil
}

func (r *stubAuthRepo) FindByUsername(_ context.Context, username string) (*domain.Operator, error) {
	op, ok := r.operators[username]
	if !ok {
		return nil, domain.ErrOperatorNotFound
	}
	return cloneOperator(op), nil
}

func TestAuthService_EnsureOperator_Creates(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	op, err := svc.EnsureOperator(context.Background(), "alice", "pass123", domain.OperatorRoleAdmin)
	if err != nil {
		t.Fatalf("EnsureOperator returned error: %v", err)
	}
	if op.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if op.Role != domain.OperatorRoleAdmin {
		t.Fatalf("unexpected role: %s", op.Role)
	}
}

func TestAuthService_EnsureOperator_KeepsExisting(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	first, _ := svc.EnsureOperator(context.Background(), "bob", "pass", domain.OperatorRoleAdmin)
	second, err := svc.EnsureOperator(context.Background(), "bob", "other", domain.OperatorRoleAdmin)
	if err != nil {
		t.Fatalf("EnsureOperator returned error: %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected 1 create, got %d", repo.creates)
	}
	if second.PasswordHash != first.PasswordHash {
		t.Fatalf("existing operator must not be rehashed")
	}
}

func TestAuthService_EnsureOperator_Validation(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.EnsureOperator(context.Background(), "", "pass", domain.OperatorRoleAdmin); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.EnsureOperator(context.Background(), "bob", "pass", "root"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for bad role, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, err := svc.EnsureOperator(context.Background(), "carol", "s3cret", domain.OperatorRoleViewer); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	token, op, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if op == nil || op.Username != "carol" {
		t.Fatalf("unexpected operator: %+v", op)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.OperatorRoleViewer {
		t.Fatalf("expected role %s, got %v", domain.OperatorRoleViewer, claims["role"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	_, _ = svc.EnsureOperator(context.Background(), "dave", "goodpass", domain.OperatorRoleAdmin)
	if _, _, err := svc.Login(context.Background(), "dave", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_OperatorNotFound(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrOperatorNotFound) {
		t.Fatalf("expected ErrOperatorNotFound, got %v", err)
	}
}
