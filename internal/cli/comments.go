package cli

import (
	"errors"
	"strings"

	"planboard/internal/model"
	"planboard/internal/store"
	"planboard/internal/workspace"

	"github.com/spf13/cobra"
)

func newCommentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Comment commands",
	}
	cmd.AddCommand(newCommentsAddCmd(app))
	cmd.AddCommand(newCommentsListCmd(app))
	cmd.AddCommand(newCommentsEditCmd(app))
	cmd.AddCommand(newCommentsDeleteCmd(app))
	return cmd
}

func newCommentsAddCmd(app *App) *cobra.Command {
	var projectID string
	var taskID string
	var body string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a comment to a project (optionally about one task)",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			in := model.NewComment{Content: strings.TrimSpace(body)}
			if tid := strings.TrimSpace(taskID); tid != "" {
				in.TaskID = &tid
				// --task alone is enough; the comment lands in the task's project.
				if strings.TrimSpace(projectID) == "" {
					t, err := st.GetTask(cmd.Context(), tid)
					if err != nil {
						return writeErr(cmd, err)
					}
					projectID = t.ProjectID
				}
			}
			pid, err := projectOrDefault(app, projectID)
			if err != nil {
				return writeErr(cmd, err)
			}
			in.ProjectID = pid

			ws := newWorkspace(cmd, app, st)
			c, err := ws.Comments.Create(cmd.Context(), in)
			out, err := settle(ws, c, err)
			if err != nil {
				return writeErr(cmd, err)
			}
			created, err := st.GetComment(cmd.Context(), out.EntityID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": created})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: the task's project, then defaultProjectId)")
	cmd.Flags().StringVar(&taskID, "task", "", "Task the comment is about")
	cmd.Flags().StringVar(&body, "body", "", "Comment body (markdown)")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func newCommentsListCmd(app *App) *cobra.Command {
	var projectID string
	var taskID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List comments in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := projectOrDefault(app, projectID)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			ws := newWorkspace(cmd, app, st)
			key := workspace.CommentKey(pid)
			if out, _ := ws.Run(ws.Fetch(cmd.Context(), key)); !out.OK {
				return writeErr(cmd, out.Err)
			}
			entry, _ := ws.Cache.Read(key)

			tid := strings.TrimSpace(taskID)
			comments := make([]model.Comment, 0, len(entry.Comments()))
			for _, c := range entry.Comments() {
				if tid == "" || (c.TaskID != nil && *c.TaskID == tid) {
					comments = append(comments, c)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": comments,
				"meta": map[string]any{
					"projectId": pid,
					"total":     len(entry.Comments()),
					"returned":  len(comments),
				},
			})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: defaultProjectId)")
	cmd.Flags().StringVar(&taskID, "task", "", "Only comments about this task")
	return cmd
}

func newCommentsEditCmd(app *App) *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "edit <comment-id>",
		Short: "Edit a comment you wrote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			c, err := st.GetComment(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			ws := newWorkspace(cmd, app, st)
			ws.Selection.Select(workspace.CommentDetailFrom(c))

			content := strings.TrimSpace(body)
			run, err := ws.Comments.Edit(cmd.Context(), workspace.CommentDetailFrom(c), model.CommentChanges{Content: &content})
			out, err := settle(ws, run, err)
			if err != nil {
				return writeErr(cmd, err)
			}
			updated, err := st.GetComment(cmd.Context(), out.EntityID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": updated,
				"meta": outcomeMeta(out, ws),
			})
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "New comment body (markdown)")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func newCommentsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <comment-id>",
		Short: "Delete a comment (requires --yes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if !yes {
				return writeErr(cmd, errConfirmRequired("comment", id))
			}
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			detail := workspace.CommentDetail{ID: id}
			if c, err := st.GetComment(cmd.Context(), id); err == nil {
				detail = workspace.CommentDetailFrom(c)
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
