package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"folio/internal/appconfig"
	"folio/internal/format"
	"folio/internal/logging"
	"folio/internal/model"
	"folio/internal/portfolio"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	Dir        string
	ConfigPath string
	LogLevel   string
	PrettyJSON bool
	Format     string

	cfg appconfig.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "folio",
		Short:        "Portfolio content manager: ordered, categorized projects, skills and certifications",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Seed a data dir with the default content
  folio --dir data init

  # List projects the way visitors see them
  folio projects list --grouped

  # Move project 3 before its previous neighbour in the same category
  folio projects move 3 previous

  # Serve the JSON API and change feed
  folio serve --addr 127.0.0.1:8080
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive panel.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app, "")
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.configure(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.log != nil {
			_ = app.log.Sync()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Data dir holding the JSON slot files (env FOLIO_DIR; default from folio.yaml, else ./data)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("FOLIO_CONFIG", ""), "Path to folio.yaml (default: ./folio.yaml when present)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error|off; env FOLIO_LOG_LEVEL)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("FOLIO_FORMAT", "json"), "Output format (json|yaml|table)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newKindCmd(app, model.KindProjects, projectsShelf))
	cmd.AddCommand(newKindCmd(app, model.KindSkills, skillsShelf))
	cmd.AddCommand(newKindCmd(app, model.KindCertifications, certificationsShelf))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newTUICmd(app))

	return cmd
}

// configure resolves settings with precedence flags > env > folio.yaml > defaults.
func (app *App) configure(cmd *cobra.Command) error {
	cfg, err := appconfig.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return writeErr(cmd, err)
	}
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.DataDir = app.Dir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = app.LogLevel
	}
	if flags.Changed("addr") {
		if addr, err := flags.GetString("addr"); err == nil {
			cfg.Addr = addr
		}
	}
	if err := cfg.Validate(); err != nil {
		return writeErr(cmd, err)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg
	app.Dir = cfg.DataDir
	app.log = log
	return nil
}

func (app *App) logger() *zap.Logger {
	if app.log == nil {
		return zap.NewNop()
	}
	return app.log
}

func (app *App) openService(ctx context.Context) (*portfolio.Service, error) {
	if strings.TrimSpace(app.Dir) == "" {
		return nil, fmt.Errorf("no data dir configured (use --dir or FOLIO_DIR)")
	}
	return portfolio.Open(ctx, app.Dir, portfolio.Options{
		Logger:     app.logger(),
		Journal:    app.cfg.Journal,
		JournalMax: app.cfg.JournalMax,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

type envelope struct {
	Data  any      `json:"data"`
	Hints []string `json:"_hints,omitempty"`
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

// writeData wraps data in the JSON envelope, or renders tab when table output was requested.
func writeData(cmd *cobra.Command, app *App, data any, tab format.Tabular, hints ...string) error {
	if app.Format == "table" && tab != nil {
		return format.WriteTable(cmd.OutOrStdout(), tab)
	}
	return writeOut(cmd, app, envelope{Data: data, Hints: hints})
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
