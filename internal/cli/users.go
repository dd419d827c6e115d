package cli

import (
	"planboard/internal/store"
	"planboard/internal/validate"

	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage local users (the acting identity for mutations)",
	}
	cmd.AddCommand(newUsersCreateCmd(app))
	cmd.AddCommand(newUsersListCmd(app))
	cmd.AddCommand(newUsersUseCmd(app))
	return cmd
}

func newUsersCreateCmd(app *App) *cobra.Command {
	var name string
	var email string
	var use bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.User(name, email).Err(); err != nil {
				return writeErr(cmd, err)
			}
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			u, err := st.CreateUser(cmd.Context(), name, email)
			if err != nil {
				return writeErr(cmd, err)
			}
			if use {
				app.cfg.CurrentUserID = u.ID
				if err := store.SaveConfig(app.cfg); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": u})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().BoolVar(&use, "use", false, "Set as current user")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newUsersListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			users, err := st.ListUsers(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": users,
				"meta": map[string]any{"currentUserId": app.cfg.CurrentUserID},
			})
		},
	}
	return cmd
}

func newUsersUseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <user-id>",
		Short: "Set the current user in config.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			u, err := st.GetUser(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			app.cfg.CurrentUserID = u.ID
			if err := store.SaveConfig(app.cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"currentUserId": u.ID}})
		},
	}
	return cmd
}

func newWhoamiCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the acting user",
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

			u, err := st.GetUser(cmd.Context(), actorID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": u})
		},
	}
	return cmd
}
