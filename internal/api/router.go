package api

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the JSON API, the task page and the static assets.
// assets must contain templates/*.html and static/.
func NewRouter(store TaskStore, assets fs.FS, logger *slog.Logger) (http.Handler, error) {
	tmpl, err := parseTemplates(assets)
	if err != nil {
		return nil, err
	}
	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to create sub-filesystem for static files: %w", err)
	}

	page := &ui{store: store, tmpl: tmpl, logger: logger}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(Recoverer(logger))

	r.Get("/healthz", HandleHealth())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", HandleListTasks(store))
			r.Post("/", HandleCreateTask(store, logger))
			r.Patch("/", HandleToggleTask(store, logger))
			r.Get("/{taskID}", HandleGetTask(store, logger))
		})

		// Export endpoint
		r.Get("/export", HandleExport(store, logger))

		// OpenAPI specification endpoint
		r.Get("/openapi", HandleOpenAPISpec(logger))
	})

	// Web UI routes
	fileServer := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".css") {
			w.Header().Set("Content-Type", "text/css")
		}
		http.FileServer(http.FS(staticFS)).ServeHTTP(w, r)
	})
	r.Handle("/static/*", http.StripPrefix("/static", fileServer))

	r.Get("/", page.HandleHomeUI)
	r.Post("/ui/tasks", page.HandleCreateTaskUI)
	r.Post("/ui/tasks/{taskID}/toggle", page.HandleToggleTaskUI)

	return r, nil
}
