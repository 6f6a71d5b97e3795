package cli

import (
	"github.com/jbutlerdev/tasks/internal/controller"
	"github.com/jbutlerdev/tasks/internal/logging"
	"github.com/jbutlerdev/tasks/internal/tui"
	"github.com/spf13/cobra"
)

// runTUI starts the terminal program. Tests swap it out.
var runTUI = tui.Run

func newUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Interactive terminal UI against the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			// The alt screen owns the terminal; failures surface as toasts instead.
			return runTUI(cmd.Context(), c, controller.WithLogger(logging.Discard()))
		},
	}
}
