package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState reports an action attempted in a state that does not allow it.
	ErrInvalidState = errors.New("invalid state")
	// ErrStaleTarget reports an edit session whose baseline record is gone.
	ErrStaleTarget  = errors.New("edit target no longer exists")

	ErrRecordNotFound      = errors.New("record not found")
	ErrInvalidValue        = errors.New("invalid value")
	ErrDuplicateSubmission = errors.New("registration already submitted")

	ErrLoad   = errors.New("load failed")
	ErrRemote = errors.New("remote call failed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOperatorNotFound   = errors.New("operator not found")
	ErrOperatorExists     = errors.New("operator already exists")
)

// LoadError is returned when the initial fetch of records fails.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load records: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// RemoteError is returned by the gateway when a call fails in transport or
// with a non-success status. StatusCode is 0 for transport failures.
type RemoteError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }
