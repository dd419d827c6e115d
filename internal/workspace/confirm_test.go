package workspace

import (
	"context"
	"errors"
	"testing"

	"planboard/internal/model"
)

func TestConfirmFlow_CancelHasNoSideEffects(t *testing.T) {
	t.Parallel()
	ws, recs, rec := newTestWorkspace(t)
	t1 := taskFixture("task-1", "proj-1", model.TaskPending)
	ws.Selection.Select(TaskDetailFrom(t1))
	f := ws.NewConfirmFlow()

	if err := f.Request(); err != nil {
		t.Fatalf("request: %v", err)
	}
	if f.State() != ConfirmAsking || f.Target().EntityID() != "task-1" {
		t.Fatalf("unexpected flow: %v %v", f.State(), f.Target())
	}
	f.Cancel()
	if f.State() != ConfirmIdle || f.Target() != nil {
		t.Fatalf("expected idle after cancel")
	}
	if recs.count("DeleteTask") != 0 || len(rec.notes) != 0 || ws.Selection.Empty() {
		t.Fatalf("cancel must not touch anything")
	}
}

func TestConfirmFlow_ConfirmDeletesAndSettles(t *testing.T) {
	t.Parallel()
	ws, recs, _ := newTestWorkspace(t)
	c1 := commentFixture("cmt-1", "proj-1")
	recs.addComment(c1)
	ws.Selection.Select(CommentDetailFrom(c1))
	f := ws.NewConfirmFlow()

	if err := f.Request(); err != nil {
		t.Fatalf("request: %v", err)
	}
	cmd, err := f.Confirm(context.Background())
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if f.State() != ConfirmExecuting {
		t.Fatalf("expected executing, got %v", f.State())
	}
	out := run(t, ws, cmd)
	if !f.Settle(out) || f.State() != ConfirmIdle {
		t.Fatalf("expected flow to settle on its own outcome")
	}
	if !ws.Selection.Empty() || recs.count("DeleteComment") != 1 {
		t.Fatalf("expected comment deleted and selection cleared")
	}
}

func TestConfirmFlow_AlreadyPendingReturnsToIdle(t *testing.T) {
	t.Parallel()
	ws, recs, _ := newTestWorkspace(t)
	t1 := taskFixture("task-1", "proj-1", model.TaskPending)
	recs.addTask(t1)
	ws.Selection.Select(TaskDetailFrom(t1))
	if _, err := ws.Tasks.Delete(context.Background(), TaskDetailFrom(t1)); err != nil {
		t.Fatalf("delete: %v", err)
	}

	f := ws.NewConfirmFlow()
	if err := f.Request(); err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := f.Confirm(context.Background()); !errors.Is(err, ErrAlreadyPending) {
		t.Fatalf("expected ErrAlreadyPending, got %v", err)
	}
	if f.State() != ConfirmIdle {
		t.Fatalf("expected idle, got %v", f.State())
	}
}

func TestConfirmFlow_SelectionChangeDiscardsPrompt(t *testing.T) {
	t.Parallel()
	ws, recs, _ := newTestWorkspace(t)
	t1 := taskFixture("task-1", "proj-1", model.TaskPending)
	t2 := taskFixture("task-2", "proj-1", model.TaskPending)
	recs.addTask(t1)
	recs.addTask(t2)
	ws.Selection.Select(TaskDetailFrom(t1))
	f := ws.NewConfirmFlow()
	if err := f.Request(); err != nil {
		t.Fatalf("request: %v", err)
	}

	ws.Selection.Select(TaskDetailFrom(t2))
	if _, err := f.Confirm(context.Background()); !errors.Is(err, ErrSelectionChanged) {
		t.Fatalf("expected ErrSelectionChanged, got %v", err)
	}
	if recs.count("DeleteTask") != 0 {
		t.Fatalf("must not delete after the selection moved")
	}

	if err := f.Request(); err != nil {
		t.Fatalf("request: %v", err)
	}
	ws.Selection.Clear()
	if !f.Sync() || f.State() != ConfirmIdle {
		t.Fatalf("expected Sync to drop the prompt")
	}
}

func TestConfirmFlow_RequestNeedsSelection(t *testing.T) {
	t.Parallel()
	ws, _, _ := newTestWorkspace(t)
	f := ws.NewConfirmFlow()
	if err := f.Request(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if _, err := f.Confirm(context.Background()); !errors.Is(err, ErrConfirmNotPending) {
		t.Fatalf("expected ErrConfirmNotPending, got %v", err)
	}
}

func TestConfirmFlow_IgnoresOtherOutcomes(t *testing.T) {
	t.Parallel()
	ws, recs, _ := newTestWorkspace(t)
	t1 := taskFixture("task-1", "proj-1", model.TaskPending)
	recs.addTask(t1)
	ws.Selection.Select(TaskDetailFrom(t1))
	f := ws.NewConfirmFlow()
	_ = f.Request()
	if _, err := f.Confirm(context.Background()); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if f.Settle(Outcome{Op: OpDelete, Resource: ResourceComments, EntityID: "task-1"}) {
		t.Fatalf("comment outcome must not settle a task flow")
	}
	if f.Settle(Outcome{Op: OpEdit, Resource: ResourceTasks, EntityID: "task-1"}) {
		t.Fatalf("edit outcome must not settle a delete flow")
	}
	if f.State() != ConfirmExecuting {
		t.Fatalf("expected still executing")
	}
}
