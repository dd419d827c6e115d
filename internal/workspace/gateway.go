package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"planboard/internal/identity"
	"planboard/internal/store"
)

// Gateway runs record-store mutations. It performs no validation and no retries.
type Gateway struct {
	// Timeout bounds a single call; zero means no limit beyond the caller's context.
	Timeout time.Duration
}

// Execute runs op and normalizes its outcome. It never panics: a panicking op is reported
// as Unknown.
func Execute[T any](ctx context.Context, g Gateway, op func(context.Context) (T, error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[T]{Reason: Unknown, Err: fmt.Errorf("mutation panicked: %v", r)}
		}
	}()
	if ctx == nil {
		ctx = context.Background()
	}
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	v, err := op(ctx)
	if err != nil {
		return Result[T]{Reason: Classify(err), Err: err}
	}
	return Result[T]{OK: true, Value: v}
}

// Classify maps a record-store error onto the transport taxonomy.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, store.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return NotFound
	case errors.Is(err, store.ErrConflict):
		return Conflict
	case errors.Is(err, store.ErrUnauthorized), errors.Is(err, identity.ErrUnauthenticated):
		return Unauthorized
	default:
		return Unknown
	}
}
