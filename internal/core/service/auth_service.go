package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

// AuthService implements operator login and seeding.
type AuthService struct {
	repo      ports.AuthRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.AuthRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) EnsureOperator(ctx context.Context, username, password, role string) (*domain.Operator, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role != domain.OperatorRoleAdmin && role != domain.OperatorRoleViewer {
		return nil, domain.ErrInvalidCredentials
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrOperatorNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	op := &domain.Operator{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, op)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Operator, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	op, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(op)
	if err != nil {
		return "", nil, err
	}

	return token, op, nil
}

func (s *AuthService) generateToken(op *domain.Operator) (string, error) {
	claims := jwt.MapClaims{
		"username": op.Username,
		"role":     op.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
