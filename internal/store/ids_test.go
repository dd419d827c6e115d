package store

import (
	"strings"
	"testing"
)

func TestNewRandomID_TaskIDsAreShort(t *testing.T) {
	id, err := newRandomID("task")
	if err != nil {
		t.Fatalf("newRandomID: %v", err)
	}
	if !strings.HasPrefix(id, "task-") {
		t.Fatalf("expected task prefix, got %q", id)
	}
	suffix := strings.TrimPrefix(id, "task-")
	if got, want := len(suffix), 6; got != want {
		t.Fatalf("expected task id suffix len %d, got %d (%q)", want, got, suffix)
	}
}

func TestNewRandomID_OtherIDsStayStableLength(t *testing.T) {
	id, err := newRandomID("proj")
	if err != nil {
		t.Fatalf("newRandomID: %v", err)
	}
	if !strings.HasPrefix(id, "proj-") {
		t.Fatalf("expected proj prefix, got %q", id)
	}
	suffix := strings.TrimPrefix(id, "proj-")
	if got, want := len(suffix), 8; got != want {
		t.Fatalf("expected proj id suffix len %d, got %d (%q)", want, got, suffix)
	}
}

func TestLooksLikeTaskID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"task-abc123", true},
		{" task-abc123 ", true},
		{"task-", false},
		{"proj-abcdefgh", false},
		{"items", false},
	}
	for _, tt := range tests {
		if got := LooksLikeTaskID(tt.in); got != tt.want {
			t.Fatalf("LooksLikeTaskID(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}
