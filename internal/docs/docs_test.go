package docs

import (
	"strings"
	"testing"
)

func TestTopicsHaveTitles(t *testing.T) {
	t.Parallel()

	topics := Topics()
	if len(topics) == 0 {
		t.Fatalf("expected embedded topics")
	}
	for i, tp := range topics {
		if tp.Title == "" {
			t.Fatalf("topic %q has no heading", tp.Name)
		}
		if i > 0 && topics[i-1].Name >= tp.Name {
			t.Fatalf("topics not sorted: %q before %q", topics[i-1].Name, tp.Name)
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		topic string
		ok    bool
	}{
		{topic: "statuses", ok: true},
		{topic: "  Workspace ", ok: true},
		{topic: "missing"},
		{topic: ""},
		{topic: "../docs"},
	}
	for _, tc := range tcs {
		t.Run(tc.topic, func(t *testing.T) {
			t.Parallel()
			body, ok := Get(tc.topic)
			if ok != tc.ok {
				t.Fatalf("Get(%q) ok=%v want %v", tc.topic, ok, tc.ok)
			}
			if ok && !strings.HasPrefix(body, "# ") {
				t.Fatalf("expected markdown heading, got %q", body)
			}
		})
	}
}
