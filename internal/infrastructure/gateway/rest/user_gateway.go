// Package rest implements the user gateway against the registry's REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
	"github.com/99minutos/user-admin/internal/pkg/metrics"
)

const (
	opFindAll = "find_all"
	opCreate  = "create"
	opUpdate  = "update"
	opDelete  = "delete"

	maxErrorBody = 4 << 10
)

// Config captures the settings for reaching the remote user API.
type Config struct {
	BaseURL string
	Token   string
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
}

// UserGateway implements ports.UserGateway over HTTP.
type UserGateway struct {
	base   *url.URL
	token  string
	client *http.Client
	log    zerolog.Logger
}

var _ ports.UserGateway = (*UserGateway)(nil)

// NewUserGateway validates the base URL and builds the client.
func NewUserGateway(cfg Config, log zerolog.Logger) (*UserGateway, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("remote api url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("remote api url: unsupported scheme %q", base.Scheme)
	}
	return &UserGateway{
		base:   base,
		token:  cfg.Token,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}, nil
}

// FindAll calls GET /user/find/all.
func (g *UserGateway) FindAll(ctx context.Context) ([]domain.Record, error) {
	_, body, err := g.do(ctx, opFindAll, http.MethodGet, nil, isSuccess, "user", "find", "all")
	if err != nil {
		return nil, err
	}
	var records []domain.Record
	if len(bytes.TrimSpace(body)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &domain.RemoteError{Op: opFindAll, Err: fmt.Errorf("decode records: %w", err)}
	}
	return records, nil
}

// Create calls POST /auth/register. Only 201 Created counts as success.
func (g *UserGateway) Create(ctx context.Context, user domain.NewUser) (*domain.Record, error) {
	_, body, err := g.do(ctx, opCreate, http.MethodPost, user, isCreated, "auth", "register")
	if err != nil {
		return nil, err
	}
	if rec, ok := decodeRecord(body); ok {
		return rec, nil
	}
	return &domain.Record{
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Username:    user.Username,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Gender:      user.Gender,
		Type:        user.Type,
	}, nil
}

// Update calls PUT /user/update/{id}.
func (g *UserGateway) Update(ctx context.Context, id int64, patch domain.Patch) (*domain.Record, error) {
	_, body, err := g.do(ctx, opUpdate, http.MethodPut, patch, isSuccess, "user", "update", strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	rec, ok := decodeRecord(body)
	if !ok {
		return nil, nil
	}
	if rec.UserID != id {
		g.log.Warn().Int64("user_id", id).Int64("returned_id", rec.UserID).Msg("update reply names another record, ignoring it")
		return nil, nil
	}
	return rec, nil
}

// Delete calls DELETE /user/delete/{id}.
func (g *UserGateway) Delete(ctx context.Context, id int64) error {
	_, _, err := g.do(ctx, opDelete, http.MethodDelete, nil, isSuccess, "user", "delete", strconv.FormatInt(id, 10))
	return err
}

func (g *UserGateway) do(ctx context.Context, op, method string, payload any, ok func(int) bool, path ...string) (int, []byte, error) {
	start := time.Now()
	status, body, err := g.roundTrip(ctx, op, method, payload, ok, path...)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.GatewayRequestDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
	g.log.Debug().
		Str("operation", op).
		Str("method", method).
		Int("status", status).
		Dur("elapsed", time.Since(start)).
		Err(err).
		Msg("remote user api call")
	return status, body, err
}

func (g *UserGateway) roundTrip(ctx context.Context, op, method string, payload any, ok func(int) bool, path ...string) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, &domain.RemoteError{Op: op, Err: fmt.Errorf("encode body: %w", err)}
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.base.JoinPath(path...).String(), reqBody)
	if err != nil {
		return 0, nil, &domain.RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, nil, &domain.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, nil, &domain.RemoteError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(errorMessage(resp.StatusCode, msg))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &domain.RemoteError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	return resp.StatusCode, body, nil
}

func isSuccess(code int) bool { return code >= 200 && code < 300 }

func isCreated(code int) bool { return code == http.StatusCreated }

// decodeRecord accepts a bare record body. Anything else, such as a plain
// confirmation message, yields false.
func decodeRecord(body []byte) (*domain.Record, bool) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, false
	}
	var rec domain.Record
	if err := json.Unmarshal(body, &rec); err != nil || rec.UserID == 0 {
		return nil, false
	}
	return &rec, true
}

// errorMessage extracts a readable cause from an error reply.
func errorMessage(code int, body []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	// A bare JSON string is a common reply shape for this API.
	var s string
	if json.Unmarshal(body, &s) == nil && s != "" {
		return s
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(code)
}
