package cli

import (
	"errors"
	"fmt"
	"strings"

	"planboard/internal/model"
	"planboard/internal/store"
	"planboard/internal/workspace"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands",
	}
	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksToggleCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	return cmd
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var projectID string
	var title string
	var description string
	var status string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := projectOrDefault(app, projectID)
			if err != nil {
				return writeErr(cmd, err)
			}
			in := model.NewTask{ProjectID: pid, Title: strings.TrimSpace(title)}
			if cmd.Flags().Changed("description") {
				d := strings.TrimSpace(description)
				in.Description = &d
			}
			if status != "" {
				s, err := model.ParseTaskStatus(status)
				if err != nil {
					return writeErr(cmd, err)
				}
				in.Status = s
			}

			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			ws := newWorkspace(cmd, app, st)
			c, err := ws.Tasks.Create(cmd.Context(), in)
			out, err := settle(ws, c, err)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := st.GetTask(cmd.Context(), out.EntityID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: defaultProjectId)")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description (markdown)")
	cmd.Flags().StringVar(&status, "status", "", "Initial status (pending|in_progress|completed)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var projectID string
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := projectOrDefault(app, projectID)
			if err != nil {
				return writeErr(cmd, err)
			}
			var want model.TaskStatus
			if status != "" {
				if want, err = model.ParseTaskStatus(status); err != nil {
					return writeErr(cmd, err)
				}
			}

			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			ws := newWorkspace(cmd, app, st)
			key := workspace.TaskKey(pid)
			if out, _ := ws.Run(ws.Fetch(cmd.Context(), key)); !out.OK {
				return writeErr(cmd, out.Err)
			}
			entry, _ := ws.Cache.Read(key)

			tasks := make([]model.Task, 0, len(entry.Tasks()))
			for _, t := range entry.Tasks() {
				if want == "" || t.Status == want {
					tasks = append(tasks, t)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": tasks,
				"meta": map[string]any{
					"projectId": pid,
					"total":     len(entry.Tasks()),
					"returned":  len(tasks),
				},
			})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: defaultProjectId)")
	cmd.Flags().StringVar(&status, "status", "", "Only tasks with this status")
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			t, err := st.GetTask(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			comments, err := st.ListComments(cmd.Context(), t.ProjectID)
			if err != nil {
				return writeErr(cmd, err)
			}
			onTask := make([]model.Comment, 0)
			for _, c := range comments {
				if c.TaskID != nil && *c.TaskID == t.ID {
					onTask = append(onTask, c)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": t,
				"meta": map[string]any{"comments": onTask},
			})
		},
	}
	return cmd
}

func newTasksEditCmd(app *App) *cobra.Command {
	var title string
	var description string
	var clearDescription bool
	var status string

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task's title, description or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ch model.TaskChanges
			if cmd.Flags().Changed("title") {
				v := strings.TrimSpace(title)
				ch.Title = &v
			}
			if cmd.Flags().Changed("description") {
				v := strings.TrimSpace(description)
				ch.Description = &v
			}
			ch.ClearDescription = clearDescription
			if status != "" {
				s, err := model.ParseTaskStatus(status)
				if err != nil {
					return writeErr(cmd, err)
				}
				ch.Status = &s
			}

			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			t, err := st.GetTask(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := newWorkspace(cmd, app, st)
			ws.Selection.Select(workspace.TaskDetailFrom(t))

			c, err := ws.Tasks.Edit(cmd.Context(), workspace.TaskDetailFrom(t), ch)
			out, err := settle(ws, c, err)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeTaskResult(cmd, app, st, ws, out)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description (markdown)")
	cmd.Flags().BoolVar(&clearDescription, "clear-description", false, "Remove the description")
	cmd.Flags().StringVar(&status, "status", "", "New status (pending|in_progress|completed)")
	return cmd
}

func newTasksToggleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Advance a task: pending -> in progress -> completed -> pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			t, err := st.GetTask(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := newWorkspace(cmd, app, st)
			ws.Selection.Select(workspace.TaskDetailFrom(t))

			c, err := ws.Tasks.ToggleStatus(cmd.Context(), workspace.TaskDetailFrom(t))
			out, err := settle(ws, c, err)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeTaskResult(cmd, app, st, ws, out)
		},
	}
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task (requires --yes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if !yes {
				return writeErr(cmd, errConfirmRequired("task", id))
			}
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			// A task that is already gone still goes through the delete so the outcome is
			// reported as "already removed" rather than an error.
			detail := workspace.TaskDetail{ID: id}
			if t, err := st.GetTask(cmd.Context(), id); err == nil {
				detail = workspace.TaskDetailFrom(t)
			} else if !errors.Is(err, store.ErrNotFound) {
				return writeErr(cmd, err)
			}

			ws := newWorkspace(cmd, app, st)
			out, err := confirmDelete(cmd.Context(), ws, detail)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"id":             id,
					"deleted":        !out.AlreadyRemoved,
					"alreadyRemoved": out.AlreadyRemoved,
				},
				"meta": outcomeMeta(out, ws),
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the delete")
	return cmd
}

func writeTaskResult(cmd *cobra.Command, app *App, st *store.Store, ws *workspace.Workspace, out workspace.Outcome) error {
	t, err := st.GetTask(cmd.Context(), out.EntityID)
	if err != nil {
		return writeErr(cmd, fmt.Errorf("reload task: %w", err))
	}
	return writeOut(cmd, app, map[string]any{
		"data": t,
		"meta": outcomeMeta(out, ws),
	})
}
