package workspace

import (
	"testing"

	"planboard/internal/model"
)

func TestSelection_SelectReplaces(t *testing.T) {
	t.Parallel()
	s := NewSelection(nil)
	items := []SelectedItem{
		TaskDetail{ID: "task-1", ProjectID: "proj-1"},
		CommentDetail{ID: "cmt-1", ProjectID: "proj-1"},
		TaskDetail{ID: "task-2", ProjectID: "proj-1"},
	}
	for _, it := range items {
		s.Select(it)
		cur, ok := s.Current()
		if !ok || cur != it {
			t.Fatalf("expected %v selected, got %v", it, cur)
		}
	}
	if s.Generation() != uint64(len(items)) {
		t.Fatalf("expected generation %d, got %d", len(items), s.Generation())
	}
}

func TestSelection_ClearIsIdempotent(t *testing.T) {
	t.Parallel()
	s := NewSelection(nil)
	s.Select(TaskDetail{ID: "task-1", ProjectID: "proj-1"})
	if !s.Clear() {
		t.Fatalf("first clear should change state")
	}
	gen := s.Generation()
	if s.Clear() {
		t.Fatalf("second clear should be a no-op")
	}
	if !s.Empty() || s.Generation() != gen {
		t.Fatalf("second clear changed state")
	}
}

func TestSelection_PatchRequiresKindAndID(t *testing.T) {
	t.Parallel()
	title := "New title"
	content := "New body"
	cases := []struct {
		name     string
		selected SelectedItem
		patch    Patch
		want     bool
	}{
		{"empty", nil, TaskPatch{ID: "task-1", Title: &title}, false},
		{"matching task", TaskDetail{ID: "task-1"}, TaskPatch{ID: "task-1", Title: &title}, true},
		{"other task", TaskDetail{ID: "task-2"}, TaskPatch{ID: "task-1", Title: &title}, false},
		{"comment with task id", CommentDetail{ID: "task-1"}, TaskPatch{ID: "task-1", Title: &title}, false},
		{"matching comment", CommentDetail{ID: "cmt-1"}, CommentPatch{ID: "cmt-1", Content: &content}, true},
		{"task with comment id", TaskDetail{ID: "cmt-1"}, CommentPatch{ID: "cmt-1", Content: &content}, false},
		{"task patch by pointer", TaskDetail{ID: "task-1"}, &TaskPatch{ID: "task-1", Title: &title}, true},
		{"comment patch by pointer", CommentDetail{ID: "cmt-1"}, &CommentPatch{ID: "cmt-1", Content: &content}, true},
		{"pointer task patch on comment", CommentDetail{ID: "task-1"}, &TaskPatch{ID: "task-1", Title: &title}, false},
		{"nil task pointer", TaskDetail{ID: "task-1"}, (*TaskPatch)(nil), false},
		{"nil comment pointer", CommentDetail{ID: "cmt-1"}, (*CommentPatch)(nil), false},
		{"nil patch", TaskDetail{ID: "task-1"}, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := NewSelection(nil)
			s.Select(tc.selected)
			before, _ := s.Current()
			if got := s.Patch(tc.patch); got != tc.want {
				t.Fatalf("patch applied=%v, want %v", got, tc.want)
			}
			after, _ := s.Current()
			if !tc.want && after != before {
				t.Fatalf("rejected patch changed selection: %v -> %v", before, after)
			}
		})
	}
}

func TestSelection_PatchMergesShallowly(t *testing.T) {
	t.Parallel()
	desc := "keep me"
	s := NewSelection(nil)
	s.Select(TaskDetail{ID: "task-1", ProjectID: "proj-1", Title: "Old", Status: model.TaskPending, Description: &desc})
	gen := s.Generation()

	st := model.TaskCompleted
	if !s.Patch(TaskPatch{ID: "task-1", Status: &st}) {
		t.Fatalf("expected patch to apply")
	}
	cur, _ := s.Current()
	got := cur.(TaskDetail)
	if got.Title != "Old" || got.Status != model.TaskCompleted || got.Description == nil || *got.Description != desc {
		t.Fatalf("unexpected merge result: %+v", got)
	}
	if s.Generation() != gen {
		t.Fatalf("patch must not bump generation")
	}

	if !s.Patch(TaskPatch{ID: "task-1", ClearDescription: true}) {
		t.Fatalf("expected patch to apply")
	}
	cur, _ = s.Current()
	if cur.(TaskDetail).Description != nil {
		t.Fatalf("expected description cleared")
	}
}

func TestSelection_ReconcileAgainstOtherKeyIsNoop(t *testing.T) {
	t.Parallel()
	s := NewSelection(nil)
	s.Select(TaskDetail{ID: "task-1", ProjectID: "proj-1"})
	if s.Reconcile(TaskKey("proj-2"), TaskList{}) {
		t.Fatalf("other project's fetch must not clear")
	}
	if s.Reconcile(CommentKey("proj-1"), CommentList{}) {
		t.Fatalf("comment fetch must not clear a task selection")
	}
	if !s.Reconcile(TaskKey("proj-1"), TaskList{}) || !s.Empty() {
		t.Fatalf("expected selection cleared by its own key")
	}
}

func TestSelection_PointerPatchMerges(t *testing.T) {
	t.Parallel()
	s := NewSelection(nil)
	s.Select(TaskDetail{ID: "task-1", ProjectID: "proj-1", Title: "Old", Status: model.TaskPending})

	title := "New"
	if !s.Patch(&TaskPatch{ID: "task-1", Title: &title}) {
		t.Fatalf("expected pointer patch to apply")
	}
	cur, _ := s.Current()
	if got := cur.(TaskDetail); got.Title != "New" || got.Status != model.TaskPending {
		t.Fatalf("unexpected merge result: %+v", got)
	}
}
