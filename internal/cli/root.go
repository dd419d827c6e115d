package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"planboard/internal/format"
	"planboard/internal/identity"
	"planboard/internal/store"
	"planboard/internal/tui"
	"planboard/internal/workspace"

	"github.com/spf13/cobra"
)

type App struct {
	DB         string
	ActorID    string
	PrettyJSON bool
	Format     string
	Verbose    bool

	cfg      *store.Config
	log      *slog.Logger
	closeLog func() error
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "planboard",
		Short:        "Planboard (local-first) CLI + TUI for clients, projects and tasks",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  planboard

  # Scriptable commands
  planboard tasks list --project proj-abcd1234

  # Move a task along pending -> in progress -> completed
  planboard tasks toggle task-abc123

  # Direct task lookup (shortcut for: planboard tasks show <task-id>)
  planboard task-abc123
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := store.LoadConfig()
		if err != nil {
			return writeErr(cmd, fmt.Errorf("load config: %w", err))
		}
		app.cfg = cfg
		if !cmd.Flags().Changed("format") && os.Getenv("PLANBOARD_FORMAT") == "" && cfg.Format != "" {
			app.Format = cfg.Format
		}

		// The TUI owns the terminal; it only logs when a debug log file is configured.
		stderr := cmd.ErrOrStderr()
		if cmd == cmd.Root() {
			stderr = io.Discard
		}
		log, closeLog, err := newLogger(stderr, app.Verbose)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log = log
		app.closeLog = closeLog
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closeLog != nil {
			return app.closeLog()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.DB, "db", envOr("PLANBOARD_DB", ""), "Path to the SQLite database (default: db in config.json, then ~/.planboard/planboard.sqlite)")
	cmd.PersistentFlags().StringVar(&app.ActorID, "actor", "", "Acting user id (overrides PLANBOARD_ACTOR and currentUserId in config.json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("PLANBOARD_FORMAT", "json"), "Output format (json|yaml)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log debug details to stderr")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newClientsCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newCommentsCmd(app))
	cmd.AddCommand(newBriefingsCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	st, err := openStore(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer st.Close()

	theme := ""
	if app.cfg.TUI != nil {
		theme = app.cfg.TUI.Theme
	}
	return tui.Run(cmd.Context(), tui.Options{
		Store:     st,
		Identity:  actorChain(app),
		Logger:    app.log,
		ProjectID: app.cfg.DefaultProjectID,
		Theme:     theme,
	})
}

// dbPath resolves the database location: --db / PLANBOARD_DB, then config.json, then the
// default under the config dir.
func dbPath(app *App) (string, error) {
	if p := strings.TrimSpace(app.DB); p != "" {
		return p, nil
	}
	if app.cfg != nil && strings.TrimSpace(app.cfg.DB) != "" {
		return app.cfg.DB, nil
	}
	return store.DefaultPath()
}

func openStore(ctx context.Context, app *App) (*store.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	path, err := dbPath(app)
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, path)
}

func actorChain(app *App) identity.Chain {
	c := identity.Chain{Flag: app.ActorID, Env: os.Getenv("PLANBOARD_ACTOR")}
	if app.cfg != nil {
		c.Config = app.cfg.CurrentUserID
	}
	return c
}

func currentActorID(cmd *cobra.Command, app *App) (string, error) {
	return actorChain(app).CurrentUserID(cmd.Context())
}

// newWorkspace builds the session core the mutating commands run through. Success and
// info notifications go to stderr; failures come back as errors.
func newWorkspace(cmd *cobra.Command, app *App, st *store.Store) *workspace.Workspace {
	stderr := cmd.ErrOrStderr()
	return workspace.New(workspace.Options{
		Tasks:    st,
		Comments: st,
		Identity: actorChain(app),
		Logger:   app.log,
		Notifier: workspace.NotifierFunc(func(msg string, level workspace.Level) {
			if level == workspace.LevelError {
				return
			}
			fmt.Fprintln(stderr, msg)
		}),
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
