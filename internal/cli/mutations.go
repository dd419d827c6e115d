package cli

import (
	"context"

	"planboard/internal/workspace"

	tea "github.com/charmbracelet/bubbletea"
)

// settle runs an orchestrator command to completion on the calling goroutine and turns a
// failed outcome into its error.
func settle(ws *workspace.Workspace, cmd tea.Cmd, err error) (workspace.Outcome, error) {
	if err != nil {
		return workspace.Outcome{}, err
	}
	out, _ := ws.Run(cmd)
	if !out.OK {
		return out, out.Err
	}
	return out, nil
}

// confirmDelete is the CLI rendition of the confirmation dialog: --yes is the confirm
// keypress, and the flow runs Request, Confirm and Settle around the delete.
func confirmDelete(ctx context.Context, ws *workspace.Workspace, item workspace.SelectedItem) (workspace.Outcome, error) {
	ws.Selection.Select(item)
	flow := ws.NewConfirmFlow()
	if err := flow.Request(); err != nil {
		return workspace.Outcome{}, err
	}
	cmd, err := flow.Confirm(ctx)
	out, err := settle(ws, cmd, err)
	flow.Settle(out)
	return out, err
}

func outcomeMeta(out workspace.Outcome, ws *workspace.Workspace) map[string]any {
	meta := map[string]any{
		"message": out.Message,
		"patched": out.Patched,
		"cleared": out.Cleared,
	}
	if cur, ok := ws.Selection.Current(); ok {
		meta["selection"] = cur
	} else {
		meta["selection"] = nil
	}
	return meta
}
