package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jbutlerdev/tasks/internal/models"
	"github.com/jbutlerdev/tasks/internal/query"
)

func badge(t models.Task) string {
	if t.Completed {
		return completedBadge.String()
	}
	return incompleteBadge.String()
}

// RenderTask renders one task as a two line block.
func RenderTask(t models.Task) string {
	title := titleStyle.Render(t.Title)
	if t.Completed {
		title = doneTitleStyle.Render(t.Title)
	}
	meta := descStyle.Render(fmt.Sprintf("%s  %s", t.ID, t.CreatedAt))
	return lipgloss.JoinVertical(lipgloss.Left,
		title+"  "+badge(t),
		descStyle.Render(t.Description),
		meta,
	)
}

// RenderTasks renders a list view the way the list command prints it.
func RenderTasks(tasks []models.Task, status models.FilterStatus) string {
	if len(tasks) == 0 {
		return emptyStyle.Render(query.EmptyMessage(status))
	}
	blocks := make([]string, 0, len(tasks))
	for _, t := range tasks {
		blocks = append(blocks, RenderTask(t))
	}
	return strings.Join(blocks, "\n\n")
}

// RenderFilters renders the filter tabs with their counts.
func RenderFilters(counts query.Counts, active models.FilterStatus) string {
	tabs := make([]string, 0, len(query.Filters))
	for _, f := range query.Filters {
		label := fmt.Sprintf("%s (%d)", f.Label(), counts.For(f))
		if f == active {
			tabs = append(tabs, activeFilterStyle.Render(label))
		} else {
			tabs = append(tabs, filterStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
