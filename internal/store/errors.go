package store

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

type ConflictError struct {
	Kind   string
	Detail string
}

func (e ConflictError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s conflicts with existing data", e.Kind)
	}
	return fmt.Sprintf("%s conflicts with existing data: %s", e.Kind, e.Detail)
}

func (e ConflictError) Is(target error) bool { return target == ErrConflict }

type UnauthorizedError struct {
	ActorID string
	Action  string
}

func (e UnauthorizedError) Error() string {
	if e.ActorID == "" {
		return fmt.Sprintf("permission denied: no current user (%s)", e.Action)
	}
	return fmt.Sprintf("permission denied: user %s cannot %s", e.ActorID, e.Action)
}

func (e UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// classifyWriteErr maps SQLite constraint violations (unique, foreign key, check) to
// ConflictError and returns anything else unchanged.
func classifyWriteErr(kind string, err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return ConflictError{Kind: kind, Detail: se.Error()}
	}
	return err
}
