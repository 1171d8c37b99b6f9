package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims, key any) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, header string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth("secret")(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	signed := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"role":     "admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}, []byte("secret"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret")(func(c echo.Context) error {
		called = true
		if c.Get("username") != "alice" {
			t.Fatalf("username not set")
		}
		if c.Get("role") != "admin" {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	if rec := runAuth(t, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	if rec := runAuth(t, "Token abc"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	if rec := runAuth(t, "Bearer not-a-token"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	signed := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"role":     "admin",
		"exp":      time.Now().Add(-time.Minute).Unix(),
	}, []byte("secret"))

	if rec := runAuth(t, "Bearer "+signed); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingExpiry(t *testing.T) {
	signed := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"role":     "admin",
	}, []byte("secret"))

	if rec := runAuth(t, "Bearer "+signed); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_WrongAlgorithm(t *testing.T) {
	signed := signToken(t, jwt.SigningMethodHS512, jwt.MapClaims{
		"username": "alice",
		"role":     "admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}, []byte("secret"))

	if rec := runAuth(t, "Bearer "+signed); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingRole(t *testing.T) {
	signed := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}, []byte("secret"))

	if rec := runAuth(t, "Bearer "+signed); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
