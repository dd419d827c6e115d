package cli

import (
	"strings"

	"planboard/internal/model"
	"planboard/internal/validate"

	"github.com/spf13/cobra"
)

func newBriefingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "briefings",
		Short: "Project briefing commands",
	}
	cmd.AddCommand(newBriefingsCreateCmd(app))
	cmd.AddCommand(newBriefingsListCmd(app))
	cmd.AddCommand(newBriefingsShowCmd(app))
	return cmd
}

func newBriefingsCreateCmd(app *App) *cobra.Command {
	var projectID string
	var title string
	var content string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write a briefing for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := projectOrDefault(app, projectID)
			if err != nil {
				return writeErr(cmd, err)
			}
			in := model.NewBriefing{ProjectID: pid, Title: strings.TrimSpace(title), Content: strings.TrimSpace(content)}
			if err := validate.NewBriefing(in).Err(); err != nil {
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

			b, err := st.CreateBriefing(cmd.Context(), actorID, in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: defaultProjectId)")
	cmd.Flags().StringVar(&title, "title", "", "Briefing title")
	cmd.Flags().StringVar(&content, "content", "", "Briefing body (markdown)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newBriefingsListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's briefings (newest first)",
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

			briefings, err := st.ListBriefings(cmd.Context(), pid)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": briefings})
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Project id (default: defaultProjectId)")
	return cmd
}

func newBriefingsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <briefing-id>",
		Short: "Show a briefing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			b, err := st.GetBriefing(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}
	return cmd
}
