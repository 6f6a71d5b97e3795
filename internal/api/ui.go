package api

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jbutlerdev/tasks/internal/models"
	"github.com/jbutlerdev/tasks/internal/query"
	"github.com/jbutlerdev/tasks/internal/storage"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	// Raw HTML stays disabled: no html.WithUnsafe().
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

func renderMarkdownHTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(b.String())
}

// parseTemplates loads templates/*.html from the asset filesystem.
func parseTemplates(assets fs.FS) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"markdown": renderMarkdownHTML,
	}).ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

type filterButton struct {
	Status models.FilterStatus
	Label  string
	Count  int
	Active bool
}

type pageData struct {
	Filter  models.FilterStatus
	Filters []filterButton
	Tasks   []models.Task
	Empty   string
	Error   string
	Notice  string
}

func buildPageData(store TaskStore, status models.FilterStatus) pageData {
	all := store.List()
	counts := query.Count(all)

	buttons := make([]filterButton, 0, len(query.Filters))
	for _, f := range query.Filters {
		buttons = append(buttons, filterButton{
			Status: f,
			Label:  f.Label(),
			Count:  counts.For(f),
			Active: f == status,
		})
	}

	return pageData{
		Filter:  status,
		Filters: buttons,
		Tasks:   query.Filter(all, status),
		Empty:   query.EmptyMessage(status),
	}
}

// UI handlers

type ui struct {
	store  TaskStore
	tmpl   *template.Template
	logger *slog.Logger
}

func (u *ui) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	var b strings.Builder
	if err := u.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		u.logger.ErrorContext(r.Context(), "template render failed", "template", name, "err", err)
		http.Error(w, MsgInternalError, http.StatusInternalServerError)
		return
	}
	writeHTMX(w, status, b.String())
}

// respond renders the board fragment for htmx, the full page for plain
// requests with an error, and otherwise redirects back to the list.
func (u *ui) respond(w http.ResponseWriter, r *http.Request, status int, filter models.FilterStatus, data pageData) {
	switch {
	case isHTMX(r):
		u.render(w, r, status, "board", data)
	case status >= http.StatusBadRequest:
		u.render(w, r, status, "page", data)
	default:
		http.Redirect(w, r, homeURL(filter), http.StatusSeeOther)
	}
}

func homeURL(filter models.FilterStatus) string {
	if filter == models.FilterAll {
		return "/"
	}
	return "/?status=" + url.QueryEscape(string(filter))
}

// HandleHomeUI renders the task page for the selected filter
func (u *ui) HandleHomeUI(w http.ResponseWriter, r *http.Request) {
	status := models.ParseFilterStatus(r.URL.Query().Get("status"))
	u.render(w, r, http.StatusOK, "page", buildPageData(u.store, status))
}

// HandleCreateTaskUI handles the create form
func (u *ui) HandleCreateTaskUI(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		data := buildPageData(u.store, models.FilterAll)
		data.Error = MsgTitleDescriptionRequired
		u.respond(w, r, http.StatusBadRequest, models.FilterAll, data)
		return
	}
	filter := models.ParseFilterStatus(r.FormValue("status"))

	input := models.CreateTaskInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	task, err := createTask(u.store, input)
	if err != nil {
		data := buildPageData(u.store, filter)
		var verr *storage.ValidationError
		if errors.As(err, &verr) {
			data.Error = MsgTitleDescriptionRequired
			u.respond(w, r, http.StatusBadRequest, filter, data)
			return
		}
		u.logger.ErrorContext(r.Context(), "create from page failed", "err", err)
		data.Error = MsgInternalError
		u.respond(w, r, http.StatusInternalServerError, filter, data)
		return
	}

	u.logger.InfoContext(r.Context(), "task created", "id", task.ID, "source", "page")
	data := buildPageData(u.store, filter)
	data.Notice = "Task created successfully!"
	u.respond(w, r, http.StatusOK, filter, data)
}

// HandleToggleTaskUI handles the toggle button of a task row
func (u *ui) HandleToggleTaskUI(w http.ResponseWriter, r *http.Request) {
	_ = parseForm(r)
	filter := models.ParseFilterStatus(r.FormValue("status"))
	taskID := strings.TrimSpace(chi.URLParam(r, "taskID"))

	task, err := u.store.ToggleCompletion(taskID)
	if err != nil {
		data := buildPageData(u.store, filter)
		var nf *storage.NotFoundError
		if errors.As(err, &nf) {
			data.Error = MsgTaskNotFound
			u.respond(w, r, http.StatusNotFound, filter, data)
			return
		}
		u.logger.ErrorContext(r.Context(), "toggle from page failed", "id", taskID, "err", err)
		data.Error = MsgInternalError
		u.respond(w, r, http.StatusInternalServerError, filter, data)
		return
	}

	data := buildPageData(u.store, filter)
	if task.Completed {
		data.Notice = "Task completed!"
	} else {
		data.Notice = "Task marked incomplete"
	}
	u.respond(w, r, http.StatusOK, filter, data)
}
