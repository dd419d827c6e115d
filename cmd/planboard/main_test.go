package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectTaskLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"planboard"},
			want: []string{"planboard"},
		},
		{
			name: "direct task id first token",
			in:   []string{"planboard", "task-abc123"},
			want: []string{"planboard", "tasks", "show", "task-abc123"},
		},
		{
			name: "direct task id after value flag",
			in:   []string{"planboard", "--db", "./tmp.sqlite", "task-abc123"},
			want: []string{"planboard", "--db", "./tmp.sqlite", "tasks", "show", "task-abc123"},
		},
		{
			name: "direct task id after equals flag",
			in:   []string{"planboard", "--db=./tmp.sqlite", "task-abc123"},
			want: []string{"planboard", "--db=./tmp.sqlite", "tasks", "show", "task-abc123"},
		},
		{
			name: "direct task id after bool flag",
			in:   []string{"planboard", "--pretty", "task-abc123"},
			want: []string{"planboard", "--pretty", "tasks", "show", "task-abc123"},
		},
		{
			name: "direct task id after double dash",
			in:   []string{"planboard", "--db", "./tmp.sqlite", "--", "task-abc123"},
			want: []string{"planboard", "--db", "./tmp.sqlite", "--", "tasks", "show", "task-abc123"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"planboard", "tasks", "show", "task-abc123"},
			want: []string{"planboard", "tasks", "show", "task-abc123"},
		},
		{
			name: "comment id not rewritten",
			in:   []string{"planboard", "cmt-abcdefgh"},
			want: []string{"planboard", "cmt-abcdefgh"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"planboard", "wat"},
			want: []string{"planboard", "wat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectTaskLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewrite(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
