package workspace

import (
	"context"
	"errors"

	"planboard/internal/model"
	"planboard/internal/validate"

	tea "github.com/charmbracelet/bubbletea"
)

// TaskActions are the task orchestrators. Each call runs on the loop, returns
// ErrAlreadyPending (or a validation error) synchronously, and otherwise returns the
// command to hand to the runtime.
type TaskActions struct {
	ws     *Workspace
	create *orchestrator
	edit   *orchestrator
	toggle *orchestrator
	delete *orchestrator
}

func newTaskActions(ws *Workspace) *TaskActions {
	return &TaskActions{
		ws:     ws,
		create: newOrchestrator(ws, ResourceTasks, OpCreate),
		edit:   newOrchestrator(ws, ResourceTasks, OpEdit),
		toggle: newOrchestrator(ws, ResourceTasks, OpStatusToggle),
		delete: newOrchestrator(ws, ResourceTasks, OpDelete),
	}
}

var errNoTaskRecords = errors.New("workspace: no task records configured")

func (a *TaskActions) Create(ctx context.Context, in model.NewTask) (tea.Cmd, error) {
	if err := validate.NewTask(in).Err(); err != nil {
		return nil, err
	}
	if a.ws.tasks == nil {
		return nil, errNoTaskRecords
	}
	return a.create.start(ctx, newEntityKey(in.ProjectID), in.ProjectID, func(ctx context.Context, actorID string) (applied, error) {
		t, err := a.ws.tasks.CreateTask(ctx, actorID, in)
		if err != nil {
			return applied{}, err
		}
		return applied{entityID: t.ID, message: "Task created"}, nil
	})
}

func (a *TaskActions) Edit(ctx context.Context, task TaskDetail, ch model.TaskChanges) (tea.Cmd, error) {
	if err := validate.TaskChanges(ch).Err(); err != nil {
		return nil, err
	}
	if a.ws.tasks == nil {
		return nil, errNoTaskRecords
	}
	return a.edit.start(ctx, task.ID, task.ProjectID, func(ctx context.Context, actorID string) (applied, error) {
		t, err := a.ws.tasks.UpdateTask(ctx, actorID, task.ID, ch)
		if err != nil {
			return applied{}, err
		}
		return applied{entityID: t.ID, patch: TaskPatchFrom(t), message: "Task updated"}, nil
	})
}

// ToggleStatus advances the status the caller saw when the toggle began:
// pending, in progress, completed, then pending again.
func (a *TaskActions) ToggleStatus(ctx context.Context, task TaskDetail) (tea.Cmd, error) {
	if a.ws.tasks == nil {
		return nil, errNoTaskRecords
	}
	next := task.Status.Next()
	return a.toggle.start(ctx, task.ID, task.ProjectID, func(ctx context.Context, actorID string) (applied, error) {
		t, err := a.ws.tasks.UpdateTask(ctx, actorID, task.ID, model.TaskChanges{Status: &next})
		if err != nil {
			return applied{}, err
		}
		return applied{entityID: t.ID, patch: TaskPatchFrom(t), message: "Task marked " + t.Status.Label()}, nil
	})
}

func (a *TaskActions) Delete(ctx context.Context, task TaskDetail) (tea.Cmd, error) {
	if a.ws.tasks == nil {
		return nil, errNoTaskRecords
	}
	return a.delete.start(ctx, task.ID, task.ProjectID, func(ctx context.Context, actorID string) (applied, error) {
		if _, err := a.ws.tasks.DeleteTask(ctx, actorID, task.ID); err != nil {
			return applied{}, err
		}
		return applied{entityID: task.ID, message: "Task deleted"}, nil
	})
}

// Pending reports whether any task mutation is in flight for id.
func (a *TaskActions) Pending(id string) bool {
	return a.edit.busy(id) || a.toggle.busy(id) || a.delete.busy(id)
}

// Creating reports whether a task create is in flight for the project.
func (a *TaskActions) Creating(projectID string) bool {
	return a.create.busy(newEntityKey(projectID))
}
