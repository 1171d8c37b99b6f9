package domain

import "time"

const (
	OperatorRoleAdmin  = "admin"
	OperatorRoleViewer = "viewer"
)

// Operator is an account allowed to use the admin console. It is unrelated
// to the registry records the console manages.
type Operator struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
