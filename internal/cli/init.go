package cli

import (
	"path/filepath"
	"strings"

	"planboard/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize local storage (database + config.json)",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			cfgPath, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}

			// Remember an explicit --db so later invocations find the same database.
			if p := strings.TrimSpace(app.DB); p != "" && app.cfg.DB == "" {
				if abs, err := filepath.Abs(p); err == nil {
					app.cfg.DB = abs
					if err := store.SaveConfig(app.cfg); err != nil {
						return writeErr(cmd, err)
					}
				}
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"db":     st.Path(),
					"config": cfgPath,
				},
				"_hints": []string{
					"planboard users create --name <name> --use",
					"planboard projects create --name <name> --use",
				},
			})
		},
	}
	return cmd
}
