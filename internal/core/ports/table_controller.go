package ports

import (
	"context"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// NoticeKind classifies a surfaced failure.
type NoticeKind string

const (
	NoticeLoadError    NoticeKind = "load_error"
	NoticeRemoteError  NoticeKind = "remote_error"
	NoticeStaleTarget  NoticeKind = "stale_target"
	NoticeInvalidState NoticeKind = "invalid_state"
)

// Notice is the last failure shown to the user.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// RowView is one table row with its lifecycle state.
type RowView struct {
	Record domain.Record   `json:"record"`
	State  domain.RowState `json:"state"`
}

// EditingView describes the open edit session. Resolved is absent when the
// target has vanished.
type EditingView struct {
	TargetID int64          `json:"target_id"`
	Draft    domain.Draft   `json:"draft"`
	Resolved *domain.Record `json:"resolved,omitempty"`
}

// TableView is the snapshot the presentation layer renders.
type TableView struct {
	Rows     []RowView    `json:"rows"`
	Editing  *EditingView `json:"editing"`
	Loading  bool         `json:"loading"`
	Saving   bool         `json:"saving"`
	Deleting bool         `json:"deleting"`
	Creating bool         `json:"creating"`
	Notice   *Notice      `json:"notice"`
}

// Outcome reports what a confirmation-gated action did.
type Outcome struct {
	Applied bool   `json:"applied"`
	Prompt  string `json:"prompt"`
}

// TableController is the action surface of the editable user table.
type TableController interface {
	Load(ctx context.Context) error
	BeginEdit(id int64) error
	SetField(field domain.Field, value string) error
	Cancel() error
	Save(ctx context.Context, confirm Confirmer) (Outcome, error)
	Delete(ctx context.Context, id int64, confirm Confirmer) (Outcome, error)
	Register(ctx context.Context, user domain.NewUser) (*domain.Record, error)
	DismissNotice()
	RowState(id int64) domain.RowState
	View(query string) TableView
}
