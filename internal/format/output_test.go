package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID       string  `json:"id"`
	TaskID   *string `json:"taskId,omitempty"`
	Archived bool    `json:"archived"`
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := Write(&buf, sample{ID: "proj-1"}, "", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != "{\"id\":\"proj-1\",\"archived\":false}\n" {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestWrite_YAMLUsesJSONFieldNames(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := Write(&buf, []sample{{ID: "proj-1", Archived: true}}, "yaml", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "- archived: true") || !strings.Contains(got, "id: proj-1") || strings.Contains(got, "taskId") {
		t.Fatalf("unexpected yaml:\n%s", got)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()
	if err := Write(&bytes.Buffer{}, sample{}, "edn", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
