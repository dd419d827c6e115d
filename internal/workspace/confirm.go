package workspace

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

type ConfirmState int

const (
	ConfirmIdle ConfirmState = iota
	ConfirmAsking
	ConfirmExecuting
)

func (s ConfirmState) String() string {
	switch s {
	case ConfirmIdle:
		return "idle"
	case ConfirmAsking:
		return "confirming"
	case ConfirmExecuting:
		return "executing"
	default:
		return "unknown"
	}
}

// ConfirmFlow guards a destructive delete behind an explicit confirmation. Each detail
// panel owns one; it is never persisted.
type ConfirmFlow struct {
	ws     *Workspace
	state  ConfirmState
	target SelectedItem
	gen    uint64
}

func (w *Workspace) NewConfirmFlow() *ConfirmFlow {
	return &ConfirmFlow{ws: w}
}

func (f *ConfirmFlow) State() ConfirmState { return f.state }

// Target is the entity the flow asks about (or is deleting), nil when idle.
func (f *ConfirmFlow) Target() SelectedItem { return f.target }

// Request opens the confirmation for the current selection.
func (f *ConfirmFlow) Request() error {
	if f.state != ConfirmIdle {
		return nil
	}
	item, ok := f.ws.Selection.Current()
	if !ok {
		return ErrNoSelection
	}
	f.state = ConfirmAsking
	f.target = item
	f.gen = f.ws.Selection.Generation()
	return nil
}

// Cancel closes the confirmation without side effects.
func (f *ConfirmFlow) Cancel() {
	if f.state != ConfirmAsking {
		return
	}
	f.reset()
}

// Confirm starts the delete for the target. When the delete orchestrator rejects the
// request (for example with ErrAlreadyPending) the flow returns to idle and the error is
// passed through.
func (f *ConfirmFlow) Confirm(ctx context.Context) (tea.Cmd, error) {
	if f.state != ConfirmAsking {
		return nil, ErrConfirmNotPending
	}
	if f.gen != f.ws.Selection.Generation() {
		f.reset()
		return nil, ErrSelectionChanged
	}
	cmd, err := f.ws.DeleteItem(ctx, f.target)
	if err != nil {
		f.reset()
		return nil, err
	}
	f.state = ConfirmExecuting
	return cmd, nil
}

// Settle closes an executing flow when out is the delete of its target, whatever the
// result. It reports whether the flow consumed the outcome.
func (f *ConfirmFlow) Settle(out Outcome) bool {
	if f.state != ConfirmExecuting || f.target == nil {
		return false
	}
	if out.Op != OpDelete || out.Resource != resourceOf(f.target) || out.EntityID != f.target.EntityID() {
		return false
	}
	f.reset()
	return true
}

// Sync drops a pending confirmation whose selection has changed since Request.
func (f *ConfirmFlow) Sync() bool {
	if f.state == ConfirmAsking && f.gen != f.ws.Selection.Generation() {
		f.reset()
		return true
	}
	return false
}

func (f *ConfirmFlow) reset() {
	f.state = ConfirmIdle
	f.target = nil
	f.gen = 0
}
