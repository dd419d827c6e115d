package cli

import (
	"strings"

	"planboard/internal/model"
	"planboard/internal/publish"
	"planboard/internal/store"
	"planboard/internal/validate"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsShowCmd(app))
	cmd.AddCommand(newProjectsUseCmd(app))
	cmd.AddCommand(newProjectsArchiveCmd(app))
	cmd.AddCommand(newProjectsExportCmd(app))
	return cmd
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var name string
	var clientID string
	var description string
	var use bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.NewProject{Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
			if c := strings.TrimSpace(clientID); c != "" {
				in.ClientID = &c
			}
			if err := validate.Project(in).Err(); err != nil {
				return writeErr(cmd, err)
			}
			actorID, err := currentActorID(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			p, err := st.CreateProject(cmd.Context(), actorID, in)
			if err != nil {
				return writeErr(cmd, err)
			}
			if use {
				app.cfg.DefaultProjectID = p.ID
				if err := store.SaveConfig(app.cfg); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&clientID, "client", "", "Client id")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().BoolVar(&use, "use", false, "Set as default project")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			projects, err := st.ListProjects(cmd.Context(), all)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": projects,
				"meta": map[string]any{"defaultProjectId": app.cfg.DefaultProjectID},
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")
	return cmd
}

func newProjectsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project with its tasks, comments and briefings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			snap, err := publish.Load(cmd.Context(), st, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			counts := map[model.TaskStatus]int{}
			for _, t := range snap.Tasks {
				counts[t.Status]++
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"project":   snap.Project,
					"tasks":     snap.Tasks,
					"comments":  snap.Comments,
					"briefings": snap.Briefings,
				},
				"meta": map[string]any{
					"pending":    counts[model.TaskPending],
					"inProgress": counts[model.TaskInProgress],
					"completed":  counts[model.TaskCompleted],
				},
			})
		},
	}
	return cmd
}

func newProjectsUseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <project-id>",
		Short: "Set the default project in config.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			p, err := st.GetProject(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			app.cfg.DefaultProjectID = p.ID
			if err := store.SaveConfig(app.cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"defaultProjectId": p.ID}})
		},
	}
	return cmd
}

func newProjectsArchiveCmd(app *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "archive <project-id>",
		Short: "Archive (or with --undo, restore) a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actorID, err := currentActorID(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			p, err := st.SetProjectArchived(cmd.Context(), actorID, args[0], !undo)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Restore an archived project")
	return cmd
}

func newProjectsExportCmd(app *App) *cobra.Command {
	var to string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export [project-id]",
		Short: "Write a project as markdown files (index plus one page per task)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flag := ""
			if len(args) == 1 {
				flag = args[0]
			}
			projectID, err := projectOrDefault(app, flag)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			snap, err := publish.Load(cmd.Context(), st, projectID)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := publish.WriteProject(snap, to, publish.WriteOptions{Overwrite: overwrite})
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log.Debug("project exported", "project", projectID, "files", len(res.Written))
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// projectOrDefault returns the --project value, falling back to defaultProjectId.
func projectOrDefault(app *App, flag string) (string, error) {
	if p := strings.TrimSpace(flag); p != "" {
		return p, nil
	}
	if app.cfg != nil && app.cfg.DefaultProjectID != "" {
		return app.cfg.DefaultProjectID, nil
	}
	return "", errMissingProject
}
