// Package client talks to the tasks JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jbutlerdev/tasks/internal/models"
)

// TransportError reports a failed round trip: the request never completed,
// or the server answered with a non-2xx status.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": transport error"
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsStatus reports whether err is a TransportError carrying the given status.
func IsStatus(err error, status int) bool {
	var te *TransportError
	return errors.As(err, &te) && te.StatusCode == status
}

// Client is a typed client for /api/tasks.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New creates a client for the server at baseURL. A nil httpClient means
// http.DefaultClient.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: scheme and host are required", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: u, httpClient: httpClient}, nil
}

// List fetches tasks; FilterAll or "" requests the whole collection.
func (c *Client) List(ctx context.Context, status models.FilterStatus) ([]models.Task, error) {
	q := url.Values{}
	if status == models.FilterCompleted || status == models.FilterIncomplete {
		q.Set("status", string(status))
	}
	var tasks []models.Task
	if err := c.do(ctx, "list tasks", http.MethodGet, "/api/tasks", q, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

func (c *Client) Get(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, "get task", http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, nil, &task)
	return task, err
}

func (c *Client) Create(ctx context.Context, input models.CreateTaskInput) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, "create task", http.MethodPost, "/api/tasks", nil, input, &task)
	return task, err
}

func (c *Client) Toggle(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, "toggle task", http.MethodPatch, "/api/tasks", nil, models.ToggleTaskInput{ID: id}, &task)
	return task, err
}

// Export downloads the rendered export document.
func (c *Client) Export(ctx context.Context, format string, status models.FilterStatus) ([]byte, error) {
	q := url.Values{}
	if format != "" {
		q.Set("format", format)
	}
	if status == models.FilterCompleted || status == models.FilterIncomplete {
		q.Set("status", string(status))
	}
	resp, err := c.send(ctx, "export tasks", http.MethodGet, "/api/export", q, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "export tasks", Err: err}
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, q url.Values, body, out any) error {
	resp, err := c.send(ctx, op, method, path, q, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// send performs the request and returns the response only for 2xx statuses.
func (c *Client) send(ctx context.Context, op, method, path string, q url.Values, body any) (*http.Response, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = q.Encode()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&msg)
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Message: msg.Message}
	}
	return resp, nil
}
