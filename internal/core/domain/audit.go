package domain

import "time"

// MutationOp names a remote mutation.
type MutationOp string

const (
	OpCreate MutationOp = "create"
	OpUpdate MutationOp = "update"
	OpDelete MutationOp = "delete"
)

// MutationResult is the outcome of a mutation attempt.
type MutationResult string

const (
	ResultApplied  MutationResult = "applied"
	ResultFailed   MutationResult = "failed"
	ResultDeclined MutationResult = "declined"
)

// AuditEntry records one mutation attempt against the registry.
type AuditEntry struct {
	ID       string
	Op       MutationOp
	Result   MutationResult
	RecordID int64
	Operator string
	Changes  Draft  // update only
	Error    string // failed only
	At       time.Time
}
