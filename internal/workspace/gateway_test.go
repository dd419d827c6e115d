package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"planboard/internal/identity"
	"planboard/internal/store"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{nil, ""},
		{store.NotFoundError{Kind: "task", ID: "x"}, NotFound},
		{fmt.Errorf("wrapped: %w", store.NotFoundError{Kind: "task", ID: "x"}), NotFound},
		{sql.ErrNoRows, NotFound},
		{store.ConflictError{Kind: "project"}, Conflict},
		{store.UnauthorizedError{Action: "delete task"}, Unauthorized},
		{identity.ErrUnauthenticated, Unauthorized},
		{context.DeadlineExceeded, Unknown},
		{errors.New("boom"), Unknown},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Fatalf("Classify(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestExecute_RecoversPanic(t *testing.T) {
	t.Parallel()
	res := Execute(context.Background(), Gateway{}, func(context.Context) (int, error) {
		panic("nil map")
	})
	if res.OK || res.Reason != Unknown || res.Err == nil {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestExecute_AppliesTimeout(t *testing.T) {
	t.Parallel()
	res := Execute(context.Background(), Gateway{Timeout: 10 * time.Millisecond}, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	if res.OK || res.Reason != Unknown || !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestExecute_Success(t *testing.T) {
	t.Parallel()
	res := Execute(context.Background(), Gateway{}, func(context.Context) (string, error) { return "ok", nil })
	if !res.OK || res.Value != "ok" || res.Reason != "" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
