package models

import (
	"errors"
	"strings"
)

// FilterStatus selects which tasks a list view shows.
type FilterStatus string

const (
	FilterAll        FilterStatus = "all"
	FilterCompleted  FilterStatus = "completed"
	FilterIncomplete FilterStatus = "incomplete"
)

// ParseFilterStatus maps a raw query value to a FilterStatus.
// Absent or unrecognized values mean FilterAll.
func ParseFilterStatus(s string) FilterStatus {
	switch FilterStatus(strings.ToLower(strings.TrimSpace(s))) {
	case FilterCompleted:
		return FilterCompleted
	case FilterIncomplete:
		return FilterIncomplete
	default:
		return FilterAll
	}
}

// Label returns the human readable name of the filter.
func (f FilterStatus) Label() string {
	switch f {
	case FilterCompleted:
		return "Completed"
	case FilterIncomplete:
		return "Incomplete"
	default:
		return "All"
	}
}

type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt"`
}

// StatusLabel returns "Completed" or "Incomplete".
func (t Task) StatusLabel() string {
	if t.Completed {
		return "Completed"
	}
	return "Incomplete"
}

var (
	ErrTitleDescriptionRequired = errors.New("Title and description are required.")
	ErrTaskIDRequired           = errors.New("Task ID is required")
)

// CreateTaskInput is the payload of a create request.
type CreateTaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Normalize trims surrounding whitespace from both fields.
func (in CreateTaskInput) Normalize() CreateTaskInput {
	return CreateTaskInput{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
	}
}

// Validate reports ErrTitleDescriptionRequired when either field is blank.
func (in CreateTaskInput) Validate() error {
	n := in.Normalize()
	if n.Title == "" || n.Description == "" {
		return ErrTitleDescriptionRequired
	}
	return nil
}

// ToggleTaskInput is the payload of a toggle request.
type ToggleTaskInput struct {
	ID string `json:"id"`
}

func (in ToggleTaskInput) Validate() error {
	if strings.TrimSpace(in.ID) == "" {
		return ErrTaskIDRequired
	}
	return nil
}
