package workspace

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"planboard/internal/identity"
	"planboard/internal/model"
	"planboard/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeRecords struct {
	mu       sync.Mutex
	tasks    map[string]model.Task
	comments map[string]model.Comment
	calls    map[string]int
	fail     map[string]error
	seq      int
	actors   []string
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{
		tasks:    map[string]model.Task{},
		comments: map[string]model.Comment{},
		calls:    map[string]int{},
		fail:     map[string]error{},
	}
}

func (f *fakeRecords) record(op, actorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if actorID != "" {
		f.actors = append(f.actors, actorID)
	}
	return f.fail[op]
}

func (f *fakeRecords) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeRecords) addTask(t model.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[t.ID] = t
}

func (f *fakeRecords) addComment(c model.Comment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments[c.ID] = c
}

func (f *fakeRecords) ListTasks(_ context.Context, projectID string) ([]model.Task, error) {
	if err := f.record("ListTasks", ""); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Task
	for _, t := range f.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRecords) CreateTask(_ context.Context, actorID string, in model.NewTask) (model.Task, error) {
	if err := f.record("CreateTask", actorID); err != nil {
		return model.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	st := in.Status
	if st == "" {
		st = model.TaskPending
	}
	t := model.Task{
		ID:          fmt.Sprintf("task-new%d", f.seq),
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      st,
		CreatedBy:   actorID,
	}
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeRecords) UpdateTask(_ context.Context, actorID, id string, ch model.TaskChanges) (model.Task, error) {
	if err := f.record("UpdateTask", actorID); err != nil {
		return model.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return model.Task{}, store.NotFoundError{Kind: "task", ID: id}
	}
	if ch.Title != nil {
		t.Title = *ch.Title
	}
	if ch.ClearDescription {
		t.Description = nil
	} else if ch.Description != nil {
		d := *ch.Description
		t.Description = &d
	}
	if ch.Status != nil {
		t.Status = *ch.Status
	}
	t.UpdatedBy = actorID
	f.tasks[id] = t
	return t, nil
}

func (f *fakeRecords) DeleteTask(_ context.Context, actorID, id string) (string, error) {
	if err := f.record("DeleteTask", actorID); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return "", store.NotFoundError{Kind: "task", ID: id}
	}
	delete(f.tasks, id)
	return t.ProjectID, nil
}

func (f *fakeRecords) ListComments(_ context.Context, projectID string) ([]model.Comment, error) {
	if err := f.record("ListComments", ""); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Comment
	for _, c := range f.comments {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRecords) CreateComment(_ context.Context, actorID string, in model.NewComment) (model.Comment, error) {
	if err := f.record("CreateComment", actorID); err != nil {
		return model.Comment{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c := model.Comment{
		ID:        fmt.Sprintf("cmt-new%d", f.seq),
		ProjectID: in.ProjectID,
		TaskID:    in.TaskID,
		AuthorID:  actorID,
		Content:   in.Content,
	}
	f.comments[c.ID] = c
	return c, nil
}

func (f *fakeRecords) UpdateComment(_ context.Context, actorID, id string, ch model.CommentChanges) (model.Comment, error) {
	if err := f.record("UpdateComment", actorID); err != nil {
		return model.Comment{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return model.Comment{}, store.NotFoundError{Kind: "comment", ID: id}
	}
	if ch.Content != nil {
		c.Content = *ch.Content
	}
	c.UpdatedAt = c.UpdatedAt.Add(time.Minute)
	f.comments[id] = c
	return c, nil
}

func (f *fakeRecords) DeleteComment(_ context.Context, actorID, id string) (string, error) {
	if err := f.record("DeleteComment", actorID); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return "", store.NotFoundError{Kind: "comment", ID: id}
	}
	delete(f.comments, id)
	return c.ProjectID, nil
}

type note struct {
	msg   string
	level Level
}

type recorder struct {
	notes []note
}

func (r *recorder) Notify(message string, level Level) {
	r.notes = append(r.notes, note{msg: message, level: level})
}

func (r *recorder) last(t *testing.T) note {
	t.Helper()
	if len(r.notes) == 0 {
		t.Fatalf("expected a notification")
	}
	return r.notes[len(r.notes)-1]
}

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestWorkspace(t *testing.T) (*Workspace, *fakeRecords, *recorder) {
	t.Helper()
	recs := newFakeRecords()
	rec := &recorder{}
	ws := New(Options{
		Tasks:    recs,
		Comments: recs,
		Identity: identity.Static("usr-ada"),
		Notifier: rec,
		Now:      func() time.Time { return fixedNow },
	})
	return ws, recs, rec
}

func strPtr(s string) *string { return &s }

func taskFixture(id, projectID string, status model.TaskStatus) model.Task {
	return model.Task{ID: id, ProjectID: projectID, Title: "Title " + id, Status: status, CreatedBy: "usr-ada"}
}

func commentFixture(id, projectID string) model.Comment {
	return model.Comment{ID: id, ProjectID: projectID, AuthorID: "usr-ada", Content: "Body " + id, CreatedAt: fixedNow, UpdatedAt: fixedNow}
}

// run executes cmd inline and applies its message, the way the runtime would.
func run(t *testing.T, ws *Workspace, cmd tea.Cmd) Outcome {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	out, ok := ws.Update(cmd())
	if !ok {
		t.Fatalf("workspace did not handle the command's message")
	}
	return out
}
