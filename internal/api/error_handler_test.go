package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"invalid state", fmt.Errorf("begin edit: %w", domain.ErrInvalidState), http.StatusConflict, ""},
		{"stale target", domain.ErrStaleTarget, http.StatusConflict, ""},
		{"duplicate", domain.ErrDuplicateSubmission, http.StatusConflict, ""},
		{"not found", domain.ErrRecordNotFound, http.StatusNotFound, ""},
		{"invalid value", fmt.Errorf("%w: gender", domain.ErrInvalidValue), http.StatusUnprocessableEntity, ""},
		{"remote", &domain.RemoteError{Op: "delete", StatusCode: 500, Err: errors.New("boom")}, http.StatusBadGateway, ""},
		{"load", &domain.LoadError{Err: errors.New("timeout")}, http.StatusBadGateway, ""},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"unknown operator", domain.ErrOperatorNotFound, http.StatusUnauthorized, "invalid credentials"},
		{"echo", echo.NewHTTPError(http.StatusForbidden, "forbidden"), http.StatusForbidden, "forbidden"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			rec := httptest.NewRecorder()
			h(tc.err, e.NewContext(req, rec))

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			want := tc.msg
			if want == "" {
				want = tc.err.Error()
			}
			if body.Error != want {
				t.Errorf("expected message %q, got %q", want, body.Error)
			}
		})
	}
}
