package tui

import (
	"context"
	"log/slog"

	"planboard/internal/identity"
	"planboard/internal/model"
	"planboard/internal/workspace"

	tea "github.com/charmbracelet/bubbletea"
)

// Records is what the TUI reads and mutates through the workspace.
type Records interface {
	workspace.TaskRecords
	workspace.CommentRecords
	ListProjects(ctx context.Context, includeArchived bool) ([]model.Project, error)
}

type Options struct {
	Store    Records
	Identity identity.Provider
	Logger   *slog.Logger
	// ProjectID, when set, is opened once the project list has loaded.
	ProjectID string
	// Theme is "light", "dark" or "auto"/empty.
	Theme string
}

func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)
	applyGlyphPreference()

	final, err := tea.NewProgram(newAppModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if fm, ok := final.(appModel); ok {
		fm.unmount()
	}
	return err
}
