package cli

import (
	"fmt"
	"net/http"

	"github.com/jbutlerdev/tasks/internal/client"
	"github.com/jbutlerdev/tasks/internal/models"
	"github.com/jbutlerdev/tasks/internal/tui"
	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally filtered by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			filter := models.ParseFilterStatus(status)
			tasks, err := c.List(cmd.Context(), filter)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, tasks, tui.RenderTasks(tasks, filter))
		},
	}
	cmd.Flags().StringVar(&status, "status", string(models.FilterAll), "Filter: all|completed|incomplete")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	var input models.CreateTaskInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input = input.Normalize()
			if err := input.Validate(); err != nil {
				return writeErr(cmd, err)
			}
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			task, err := c.Create(cmd.Context(), input)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, task, "Task created successfully!\n\n"+tui.RenderTask(task))
		},
	}
	cmd.Flags().StringVar(&input.Title, "title", "", "Task title")
	cmd.Flags().StringVar(&input.Description, "description", "", "Task description (markdown)")
	return cmd
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Flip a task between completed and incomplete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			task, err := c.Toggle(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, notFoundOr(err, args[0]))
			}
			msg := "Task marked incomplete"
			if task.Completed {
				msg = "Task completed!"
			}
			return writeOut(cmd, app, task, msg+"\n\n"+tui.RenderTask(task))
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			task, err := c.Get(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, notFoundOr(err, args[0]))
			}
			return writeOut(cmd, app, task, tui.RenderTask(task))
		},
	}
}

func notFoundOr(err error, id string) error {
	if client.IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("task not found: %s", id)
	}
	return err
}
