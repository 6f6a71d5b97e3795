// Package query derives read-only views over a task collection.
package query

import "github.com/jbutlerdev/tasks/internal/models"

// Filter returns the tasks matching status, preserving their order.
// The input slice is never modified. Filtered views are freshly allocated and
// never nil; FilterAll returns a copy of the input.
func Filter(tasks []models.Task, status models.FilterStatus) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(t, status) {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether a single task belongs to the status view.
func Matches(t models.Task, status models.FilterStatus) bool {
	switch status {
	case models.FilterCompleted:
		return t.Completed
	case models.FilterIncomplete:
		return !t.Completed
	default:
		return true
	}
}

// Counts holds the size of each filter view.
type Counts struct {
	All        int `json:"all"`
	Completed  int `json:"completed"`
	Incomplete int `json:"incomplete"`
}

// For returns the count for the given view.
func (c Counts) For(status models.FilterStatus) int {
	switch status {
	case models.FilterCompleted:
		return c.Completed
	case models.FilterIncomplete:
		return c.Incomplete
	default:
		return c.All
	}
}

func Count(tasks []models.Task) Counts {
	c := Counts{All: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		} else {
			c.Incomplete++
		}
	}
	return c
}

// Filters lists the views in display order.
var Filters = []models.FilterStatus{
	models.FilterAll,
	models.FilterIncomplete,
	models.FilterCompleted,
}

// EmptyMessage is what a view shows when it has no tasks.
func EmptyMessage(status models.FilterStatus) string {
	if status == models.FilterAll || status == "" {
		return "No tasks yet. Create one to get started!"
	}
	return "No " + string(status) + " tasks found."
}
