package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jbutlerdev/tasks/internal/export"
	"github.com/jbutlerdev/tasks/internal/models"
	"github.com/jbutlerdev/tasks/internal/query"
	"github.com/jbutlerdev/tasks/internal/storage"
)

// TaskStore is the subset of the store the handlers need.
type TaskStore interface {
	List() []models.Task
	Get(id string) (models.Task, error)
	Create(input models.CreateTaskInput) (models.Task, error)
	ToggleCompletion(id string) (models.Task, error)
}

// API Handlers for Tasks

// HandleListTasks returns all tasks, optionally filtered by ?status=
func HandleListTasks(store TaskStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := models.ParseFilterStatus(r.URL.Query().Get("status"))
		writeJSON(w, http.StatusOK, query.Filter(store.List(), status))
	}
}

// HandleGetTask returns a specific task
func HandleGetTask(store TaskStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := strings.TrimSpace(chi.URLParam(r, "taskID"))
		if taskID == "" {
			writeMessage(w, http.StatusBadRequest, MsgTaskIDRequired)
			return
		}

		task, err := store.Get(taskID)
		if err != nil {
			var nf *storage.NotFoundError
			if errors.As(err, &nf) {
				writeMessage(w, http.StatusNotFound, MsgTaskNotFound)
				return
			}
			writeInternalError(w, r, logger, "get", err)
			return
		}

		writeJSON(w, http.StatusOK, task)
	}
}

// HandleCreateTask creates a new task at the front of the collection
func HandleCreateTask(store TaskStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseCreateInput(w, r)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, MsgTitleDescriptionRequired)
			return
		}

		task, err := createTask(store, input)
		if err != nil {
			var verr *storage.ValidationError
			if errors.As(err, &verr) {
				writeMessage(w, http.StatusBadRequest, MsgTitleDescriptionRequired)
				return
			}
			writeInternalError(w, r, logger, "create", err)
			return
		}

		logger.InfoContext(r.Context(), "task created", "id", task.ID)
		writeJSON(w, http.StatusCreated, task)
	}
}

// HandleToggleTask flips the completion flag of the task named in the body
func HandleToggleTask(store TaskStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseToggleInput(w, r)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, MsgTaskIDRequired)
			return
		}
		if err := input.Validate(); err != nil {
			writeMessage(w, http.StatusBadRequest, MsgTaskIDRequired)
			return
		}

		task, err := store.ToggleCompletion(input.ID)
		if err != nil {
			var nf *storage.NotFoundError
			if errors.As(err, &nf) {
				writeMessage(w, http.StatusNotFound, MsgTaskNotFound)
				return
			}
			writeInternalError(w, r, logger, "toggle", err)
			return
		}

		logger.InfoContext(r.Context(), "task toggled", "id", task.ID, "completed", task.Completed)
		writeJSON(w, http.StatusOK, task)
	}
}

// createTask validates before touching the store so a rejected payload
// never reaches it.
func createTask(store TaskStore, input models.CreateTaskInput) (models.Task, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return models.Task{}, &storage.ValidationError{Message: err.Error()}
	}
	return store.Create(input)
}

// parseCreateInput reads {title, description} from a form or JSON body
func parseCreateInput(w http.ResponseWriter, r *http.Request) (models.CreateTaskInput, error) {
	var input models.CreateTaskInput

	if isForm(r) {
		if err := parseForm(r); err != nil {
			return input, fmt.Errorf("failed to parse form data: %w", err)
		}
		input.Title = r.FormValue("title")
		input.Description = r.FormValue("description")
		return input, nil
	}

	if err := decodeBody(w, r, &input); err != nil {
		return input, err
	}
	return input, nil
}

// parseToggleInput reads {id} from a form or JSON body
func parseToggleInput(w http.ResponseWriter, r *http.Request) (models.ToggleTaskInput, error) {
	var input models.ToggleTaskInput

	if isForm(r) {
		if err := parseForm(r); err != nil {
			return input, fmt.Errorf("failed to parse form data: %w", err)
		}
		input.ID = r.FormValue("id")
		return input, nil
	}

	if err := decodeBody(w, r, &input); err != nil {
		return input, err
	}
	return input, nil
}

// Export Handler

// HandleExport exports tasks as markdown, csv, json or pdf
func HandleExport(store TaskStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := export.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		status := models.ParseFilterStatus(r.URL.Query().Get("status"))
		data, err := export.Render(query.Filter(store.List(), status), format)
		if err != nil {
			writeInternalError(w, r, logger, "export", err)
			return
		}

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", "attachment; filename="+format.Filename())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// HandleHealth answers liveness probes
func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
