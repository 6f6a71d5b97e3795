package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jbutlerdev/tasks/internal/models"
	"github.com/jbutlerdev/tasks/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *storage.MemoryStore {
	n := 0
	return storage.NewMemoryStore(
		storage.WithSeed(storage.DefaultSeed()),
		storage.WithClock(func() time.Time { return time.Date(2025, 4, 16, 12, 0, 0, 0, time.UTC) }),
		storage.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("new-%d", n)
		}),
	)
}

func newTestRouter(t *testing.T, store TaskStore) (http.Handler, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h, err := NewRouter(store, os.DirFS("../../web"), logger)
	require.NoError(t, err)
	return h, &logs
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func multipartBody(t *testing.T, fields map[string]string) (string, string) {
	t.Helper()
	var b bytes.Buffer
	mw := multipart.NewWriter(&b)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return mw.FormDataContentType(), b.String()
}

func decodeTasks(t *testing.T, rec *httptest.ResponseRecorder) []models.Task {
	t.Helper()
	var tasks []models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	return tasks
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["message"]
}

func taskIDs(tasks []models.Task) []string {
	out := []string{}
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestListTasks(t *testing.T) {
	h, _ := newTestRouter(t, newTestStore())

	rec := do(t, h, http.MethodGet, "/api/tasks", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	first := decodeTasks(t, rec)
	assert.Equal(t, []string{"1", "2"}, taskIDs(first))

	again := decodeTasks(t, do(t, h, http.MethodGet, "/api/tasks", "", ""))
	assert.Equal(t, first, again)
}

func TestListTasksFiltered(t *testing.T) {
	h, _ := newTestRouter(t, newTestStore())

	cases := map[string][]string{
		"/api/tasks?status=completed":  {"2"},
		"/api/tasks?status=incomplete": {"1"},
		"/api/tasks?status=all":        {"1", "2"},
		"/api/tasks?status=whatever":   {"1", "2"},
	}
	for target, want := range cases {
		rec := do(t, h, http.MethodGet, target, "", "")
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, want, taskIDs(decodeTasks(t, rec)), target)
	}
}

func TestListEmptyIsArray(t *testing.T) {
	h, _ := newTestRouter(t, storage.NewMemoryStore())

	rec := do(t, h, http.MethodGet, "/api/tasks?status=completed", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestCreateTask(t *testing.T) {
	store := newTestStore()
	h, _ := newTestRouter(t, store)

	rec := do(t, h, http.MethodPost, "/api/tasks", "application/json", `{"title":"A","description":"B"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var task models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, models.Task{ID: "new-1", Title: "A", Description: "B", Completed: false, CreatedAt: "2025-04-16T12:00:00Z"}, task)

	tasks := decodeTasks(t, do(t, h, http.MethodGet, "/api/tasks", "", ""))
	require.Len(t, tasks, 3)
	assert.Equal(t, "new-1", tasks[0].ID)
}

func TestCreateTaskFromForm(t *testing.T) {
	store := newTestStore()
	h, _ := newTestRouter(t, store)

	form := url.Values{"title": {" Plan sprint "}, "description": {"Pick stories"}}
	rec := do(t, h, http.MethodPost, "/api/tasks", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 3, store.Len())

	got, err := store.Get("new-1")
	require.NoError(t, err)
	assert.Equal(t, "Plan sprint", got.Title)

	ct, body := multipartBody(t, map[string]string{"title": "A", "description": "B"})
	rec = do(t, h, http.MethodPost, "/api/tasks", ct, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got, err = store.Get("new-2")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, "B", got.Description)
}

func TestCreateTaskValidation(t *testing.T) {
	bodies := []string{
		`{"title":"","description":"B"}`,
		`{"title":"A"}`,
		`{"title":"   ","description":"B"}`,
		`{}`,
		`not json`,
	}
	for _, body := range bodies {
		store := newTestStore()
		h, _ := newTestRouter(t, store)

		rec := do(t, h, http.MethodPost, "/api/tasks", "application/json", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Title and description are required.", decodeMessage(t, rec), body)
		assert.Equal(t, 2, store.Len(), body)
	}
}

func TestToggleTask(t *testing.T) {
	store := newTestStore()
	h, _ := newTestRouter(t, store)
	before, err := store.Get("1")
	require.NoError(t, err)

	rec := do(t, h, http.MethodPatch, "/api/tasks", "application/json", `{"id":"1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var task models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.True(t, task.Completed)
	task.Completed = before.Completed
	assert.Equal(t, before, task)
}

func TestToggleTaskFromForm(t *testing.T) {
	store := newTestStore()
	h, _ := newTestRouter(t, store)

	rec := do(t, h, http.MethodPatch, "/api/tasks", "application/x-www-form-urlencoded", url.Values{"id": {"1"}}.Encode())
	require.Equal(t, http.StatusOK, rec.Code)

	ct, body := multipartBody(t, map[string]string{"id": "2"})
	rec = do(t, h, http.MethodPatch, "/api/tasks", ct, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	one, err := store.Get("1")
	require.NoError(t, err)
	assert.True(t, one.Completed)
	two, err := store.Get("2")
	require.NoError(t, err)
	assert.False(t, two.Completed)
}

func TestToggleTaskErrors(t *testing.T) {
	store := newTestStore()
	h, _ := newTestRouter(t, store)
	before := store.List()

	rec := do(t, h, http.MethodPatch, "/api/tasks", "application/json", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Task ID is required", decodeMessage(t, rec))

	rec = do(t, h, http.MethodPatch, "/api/tasks", "application/json", `{"id":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Task ID is required", decodeMessage(t, rec))

	rec = do(t, h, http.MethodPatch, "/api/tasks", "application/json", `{"id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", decodeMessage(t, rec))

	// ids are matched exactly, padding included
	rec = do(t, h, http.MethodPatch, "/api/tasks", "application/json", `{"id":" 1 "}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", decodeMessage(t, rec))

	assert.Equal(t, before, store.List())
}

func TestGetTask(t *testing.T) {
	h, _ := newTestRouter(t, newTestStore())

	rec := do(t, h, http.MethodGet, "/api/tasks/2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var task models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, "Review pull requests", task.Title)

	rec = do(t, h, http.MethodGet, "/api/tasks/404", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// failingStore fails every mutation with an unexpected error.
type failingStore struct {
	*storage.MemoryStore
	panicOnList bool
}

var errDisk = errors.New("disk on fire at /var/secret")

func (f failingStore) List() []models.Task {
	if f.panicOnList {
		panic("boom")
	}
	return f.MemoryStore.List()
}

func (f failingStore) Create(models.CreateTaskInput) (models.Task, error) {
	return models.Task{}, errDisk
}

func (f failingStore) ToggleCompletion(string) (models.Task, error) {
	return models.Task{}, errDisk
}

func TestInternalErrorsAreMasked(t *testing.T) {
	h, logs := newTestRouter(t, failingStore{MemoryStore: newTestStore()})

	rec := do(t, h, http.MethodPost, "/api/tasks", "application/json", `{"title":"A","description":"B"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeMessage(t, rec))
	assert.NotContains(t, rec.Body.String(), "disk on fire")

	rec = do(t, h, http.MethodPatch, "/api/tasks", "application/json", `{"id":"1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeMessage(t, rec))

	assert.Contains(t, logs.String(), "disk on fire")
}

func TestPanicIsRecovered(t *testing.T) {
	h, logs := newTestRouter(t, failingStore{MemoryStore: newTestStore(), panicOnList: true})

	rec := do(t, h, http.MethodGet, "/api/tasks", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeMessage(t, rec))
	assert.Contains(t, logs.String(), "boom")
}

func TestRecovererAfterHeadersWritten(t *testing.T) {
	var logs bytes.Buffer
	h := Recoverer(slog.New(slog.NewTextHandler(&logs, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("late boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
	assert.Contains(t, logs.String(), "late boom")
}

func TestExport(t *testing.T) {
	h, _ := newTestRouter(t, newTestStore())

	rec := do(t, h, http.MethodGet, "/api/export", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=tasks.md", rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "Complete project proposal")
	assert.Contains(t, rec.Body.String(), "Review pull requests")

	rec = do(t, h, http.MethodGet, "/api/export?format=csv&status=completed", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Complete project proposal")
	assert.Contains(t, rec.Body.String(), "Review pull requests")

	rec = do(t, h, http.MethodGet, "/api/export?format=pdf", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = do(t, h, http.MethodGet, "/api/export?format=docx", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	h, logs := newTestRouter(t, newTestStore())

	rec := do(t, h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Contains(t, logs.String(), "path=/healthz")
	assert.Contains(t, logs.String(), "status=200")
}
