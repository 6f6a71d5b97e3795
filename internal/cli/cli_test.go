package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jbutlerdev/tasks/internal/api"
	"github.com/jbutlerdev/tasks/internal/client"
	"github.com/jbutlerdev/tasks/internal/controller"
	"github.com/jbutlerdev/tasks/internal/logging"
	"github.com/jbutlerdev/tasks/internal/models"
	"github.com/jbutlerdev/tasks/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*httptest.Server, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore(storage.WithSeed(storage.DefaultSeed()))
	h, err := api.NewRouter(store, os.DirFS("../../web"), logging.Discard())
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, store
}

func run(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd(os.DirFS("../../web"))
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func runAgainst(t *testing.T, srv *httptest.Server, args ...string) (string, string, error) {
	t.Helper()
	return run(t, context.Background(), append([]string{"--server", srv.URL, "--log-level", "error"}, args...)...)
}

func TestListJSON(t *testing.T) {
	srv, _ := newServer(t)

	out, _, err := runAgainst(t, srv, "list", "--json")
	require.NoError(t, err)

	var tasks []models.Task
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "1", tasks[0].ID)
}

func TestListFilteredText(t *testing.T) {
	srv, _ := newServer(t)

	out, _, err := runAgainst(t, srv, "list", "--status", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "Review pull requests")
	assert.NotContains(t, out, "Complete project proposal")
}

func TestListEmptyFilterMessage(t *testing.T) {
	srv, store := newServer(t)
	_, err := store.ToggleCompletion("2")
	require.NoError(t, err)

	out, _, err := runAgainst(t, srv, "list", "--status", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "No completed tasks found.")
}

func TestAddCreatesTask(t *testing.T) {
	srv, store := newServer(t)

	out, _, err := runAgainst(t, srv, "add", "--title", "  Write docs ", "--description", "Cover export", "--json")
	require.NoError(t, err)

	var task models.Task
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	assert.Equal(t, "Write docs", task.Title)
	assert.False(t, task.Completed)
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, task.ID, store.List()[0].ID)
}

func TestAddRequiresTitleAndDescription(t *testing.T) {
	srv, store := newServer(t)

	_, stderr, err := runAgainst(t, srv, "add", "--title", "only title")
	require.ErrorIs(t, err, models.ErrTitleDescriptionRequired)
	assert.Contains(t, stderr, "Title and description are required.")
	assert.Equal(t, 2, store.Len())
}

func TestToggle(t *testing.T) {
	srv, store := newServer(t)

	out, _, err := runAgainst(t, srv, "toggle", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Task completed!")

	task, err := store.Get("1")
	require.NoError(t, err)
	assert.True(t, task.Completed)

	out, _, err = runAgainst(t, srv, "toggle", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Task marked incomplete")
}

func TestToggleUnknownTask(t *testing.T) {
	srv, _ := newServer(t)

	_, stderr, err := runAgainst(t, srv, "toggle", "nope")
	require.Error(t, err)
	assert.Contains(t, stderr, "task not found: nope")
}

func TestToggleRequiresID(t *testing.T) {
	srv, _ := newServer(t)

	_, _, err := runAgainst(t, srv, "toggle")
	require.Error(t, err)
}

func TestShow(t *testing.T) {
	srv, _ := newServer(t)

	out, _, err := runAgainst(t, srv, "show", "2", "--json")
	require.NoError(t, err)

	var task models.Task
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	assert.Equal(t, "Review pull requests", task.Title)
	assert.True(t, task.Completed)
}

func TestExportToStdout(t *testing.T) {
	srv, _ := newServer(t)

	out, _, err := runAgainst(t, srv, "export", "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "id,title,description,completed,createdAt\n"))
	assert.Contains(t, out, "Complete project proposal")
}

func TestExportToFile(t *testing.T) {
	srv, _ := newServer(t)
	path := filepath.Join(t.TempDir(), "tasks.md")

	_, stderr, err := runAgainst(t, srv, "export", "--status", "incomplete", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "wrote")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Tasks"))
	assert.Contains(t, string(data), "Complete project proposal")
	assert.NotContains(t, string(data), "Review pull requests")
}

func TestExportUnknownFormat(t *testing.T) {
	srv, _ := newServer(t)

	_, stderr, err := runAgainst(t, srv, "export", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, stderr, `unknown export format "xml"`)
}

func TestUnreachableServer(t *testing.T) {
	srv, _ := newServer(t)
	url := srv.URL
	srv.Close()

	_, _, err := run(t, context.Background(), "--server", url, "--timeout", "500ms", "list")
	require.Error(t, err)
	var te *client.TransportError
	assert.ErrorAs(t, err, &te)
}

func TestInvalidConfigRejected(t *testing.T) {
	_, stderr, err := run(t, context.Background(), "--log-format", "xml", "list")
	require.Error(t, err)
	assert.Contains(t, stderr, "unknown log format")

	_, _, err = run(t, context.Background(), "--server", "not a url", "list")
	require.Error(t, err)
}

func TestServeStartsAndShutsDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, _, err := run(t, ctx, "--log-level", "error", "serve", "--addr", addr, "--seed")
		done <- err
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/tasks")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var tasks []models.Task
		return resp.StatusCode == http.StatusOK &&
			json.NewDecoder(resp.Body).Decode(&tasks) == nil &&
			len(tasks) == 2
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not shut down")
	}
}

func TestServeRejectsBadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": ""}]`), 0o644))

	_, stderr, err := run(t, context.Background(), "serve", "--addr", "127.0.0.1:0", "--seed-file", path)
	require.Error(t, err)
	assert.Contains(t, stderr, "missing id")
}

func TestUIKeepsControllerLogsOffTheTerminal(t *testing.T) {
	srv, _ := newServer(t)
	url := srv.URL
	srv.Close()

	orig := runTUI
	t.Cleanup(func() { runTUI = orig })

	var loadErr error
	runTUI = func(ctx context.Context, api controller.API, opts ...controller.Option) error {
		log := &controller.NotificationLog{}
		c := controller.New(api, append(opts, controller.WithNotifier(log))...)
		loadErr = c.Load(ctx)
		return nil
	}

	_, stderr, err := run(t, context.Background(), "--server", url, "--log-level", "debug", "--timeout", "500ms", "ui")
	require.NoError(t, err)
	require.Error(t, loadErr)
	assert.Empty(t, stderr)
}
