package handler

import (
	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type setFieldRequest struct {
	Field string `json:"field" validate:"required,oneof=first_name last_name username email phone_number gender type"`
	Value string `json:"value"`
}

// confirmRequest carries the operator's answer to the confirmation prompt.
// A missing body counts as declined.
type confirmRequest struct {
	Confirm bool `json:"confirm"`
}

type registerUserRequest struct {
	FirstName       string `json:"first_name"       validate:"required"`
	LastName        string `json:"last_name"`
	Username        string `json:"username"         validate:"required"`
	Email           string `json:"email"            validate:"required,email"`
	PhoneNumber     string `json:"phone_number"     validate:"required"`
	Password        string `json:"password"         validate:"required"`
	Gender          string `json:"gender"           validate:"required"`
	Type            string `json:"type"             validate:"required"`
	MarketingAccept bool   `json:"marketing_accept"`
}

func (r registerUserRequest) toNewUser() domain.NewUser {
	return domain.NewUser{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Username:        r.Username,
		Email:           r.Email,
		PhoneNumber:     domain.PhoneNumber(r.PhoneNumber),
		Password:        r.Password,
		Gender:          domain.Gender(r.Gender),
		Type:            domain.Role(r.Type),
		MarketingAccept: r.MarketingAccept,
	}
}

// outcomeResponse reports a confirmation-gated action. When applied is false
// the prompt should be shown and the request repeated with confirm=true.
type outcomeResponse struct {
	Applied bool            `json:"applied"`
	Prompt  string          `json:"prompt"`
	Table   ports.TableView `json:"table"`
}

type rowStateResponse struct {
	UserID int64           `json:"user_id"`
	State  domain.RowState `json:"state"`
}
