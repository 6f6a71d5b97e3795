package cli

import (
	"fmt"
	"os"

	"github.com/jbutlerdev/tasks/internal/export"
	"github.com/jbutlerdev/tasks/internal/models"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		format string
		status string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the task list as markdown, csv, json or pdf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			data, err := c.Export(cmd.Context(), string(f), models.ParseFilterStatus(status))
			if err != nil {
				return writeErr(cmd, err)
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return writeErr(cmd, fmt.Errorf("export: %w", err))
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d bytes to %s\n", len(data), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(export.FormatMarkdown), "Export format: markdown|csv|json|pdf")
	cmd.Flags().StringVar(&status, "status", string(models.FilterAll), "Filter: all|completed|incomplete")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
