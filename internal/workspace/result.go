package workspace

import "errors"

// ErrorKind classifies why a mutation did not apply.
type ErrorKind string

const (
	AlreadyPending   ErrorKind = "already_pending"
	NotFound         ErrorKind = "not_found"
	Conflict         ErrorKind = "conflict"
	Unauthorized     ErrorKind = "unauthorized"
	Unknown          ErrorKind = "unknown"
	IdentityMismatch ErrorKind = "identity_mismatch"
)

var (
	// ErrAlreadyPending is returned synchronously when the same orchestrator already has a
	// mutation in flight for the entity. Surfaces ignore it.
	ErrAlreadyPending = errors.New("mutation already pending")

	ErrNoSelection       = errors.New("nothing selected")
	ErrSelectionChanged  = errors.New("selection changed before confirmation")
	ErrConfirmNotPending = errors.New("no delete awaiting confirmation")
)

// Result is the normalized outcome of one record-store call.
type Result[T any] struct {
	OK     bool
	Value  T
	Reason ErrorKind
	Err    error
}
