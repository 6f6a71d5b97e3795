// Package cli wires the tasks commands: the HTTP server and the client
// commands that talk to it.
package cli

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jbutlerdev/tasks/internal/client"
	"github.com/jbutlerdev/tasks/internal/config"
	"github.com/jbutlerdev/tasks/internal/logging"
	"github.com/spf13/cobra"
)

// App carries the state shared by every command of one invocation.
type App struct {
	Config config.Config
	JSON   bool

	assets fs.FS
	logger *slog.Logger
}

// NewRootCmd builds the command tree. assets holds the templates/ and
// static/ directories served by `tasks serve`.
func NewRootCmd(assets fs.FS) *cobra.Command {
	app := &App{Config: config.Default(), assets: assets, logger: logging.Discard()}

	cmd := &cobra.Command{
		Use:           "tasks",
		Short:         "Task manager server and client",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Run the server with the two fixture tasks
  tasks serve --addr :8080

  # Talk to it
  tasks list --status incomplete
  tasks add --title "Write docs" --description "Cover the export command"
  tasks toggle 1

  # Interactive terminal UI
  tasks ui
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Config.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			logger, err := logging.New(cmd.ErrOrStderr(), app.Config.LogFormat, app.Config.LogLevel)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.Config.ServerURL, "server", app.Config.ServerURL, "Base URL of the tasks server (env "+config.EnvServer+")")
	flags.DurationVar(&app.Config.Timeout, "timeout", app.Config.Timeout, "Per-request timeout (env "+config.EnvTimeout+")")
	flags.StringVar(&app.Config.LogLevel, "log-level", app.Config.LogLevel, "Log level: debug|info|warn|error (env "+config.EnvLogLevel+")")
	flags.StringVar(&app.Config.LogFormat, "log-format", app.Config.LogFormat, "Log format: text|json (env "+config.EnvLogFormat+")")
	flags.BoolVar(&app.JSON, "json", false, "Print JSON instead of formatted text")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newUICmd(app))

	return cmd
}

func (app *App) client() (*client.Client, error) {
	return client.New(app.Config.ServerURL, &http.Client{Timeout: app.Config.Timeout})
}

// writeOut prints v as indented JSON when --json is set, text otherwise.
func writeOut(cmd *cobra.Command, app *App, v any, text string) error {
	if app.JSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), "error:", err.Error())
	return err
}
