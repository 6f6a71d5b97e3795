// Package controller keeps the client-side mirror of the task collection
// and drives load, create and optimistic toggle against the API.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jbutlerdev/tasks/internal/logging"
	"github.com/jbutlerdev/tasks/internal/models"
	"github.com/jbutlerdev/tasks/internal/query"
)

// API is the remote side of the controller. *client.Client satisfies it.
type API interface {
	List(ctx context.Context, status models.FilterStatus) ([]models.Task, error)
	Create(ctx context.Context, input models.CreateTaskInput) (models.Task, error)
	Toggle(ctx context.Context, id string) (models.Task, error)
}

// Notification messages.
const (
	MsgLoadFailed   = "Failed to load tasks"
	MsgCreated      = "Task created successfully!"
	MsgCreateFailed = "Failed to create task"
	MsgCompleted    = "Task completed!"
	MsgMarkedOpen   = "Task marked incomplete"
	MsgToggleFailed = "Failed to update task"
)

var (
	// ErrTogglePending is returned when a toggle on the same task has not
	// resolved yet.
	ErrTogglePending = errors.New("toggle already pending for task")

	// ErrUnknownTask is returned when the mirror has no task with the id.
	ErrUnknownTask = errors.New("task not in local list")
)

// ToggleState is the per-task position in the optimistic toggle flow:
// OptimisticPending moves to either Confirmed or RolledBack.
type ToggleState int

const (
	ToggleIdle ToggleState = iota
	ToggleOptimisticPending
	ToggleConfirmed
	ToggleRolledBack
)

func (s ToggleState) String() string {
	switch s {
	case ToggleOptimisticPending:
		return "optimistic-pending"
	case ToggleConfirmed:
		return "confirmed"
	case ToggleRolledBack:
		return "rolled-back"
	default:
		return "idle"
	}
}

type toggleEntry struct {
	state    ToggleState
	previous bool
}

// Snapshot is a consistent copy of the controller state for rendering.
type Snapshot struct {
	All     []models.Task
	Visible []models.Task
	Loading bool
	Filter  models.FilterStatus
	Counts  query.Counts
}

type Controller struct {
	api      API
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	all     []models.Task
	visible []models.Task
	loading bool
	filter  models.FilterStatus
	toggles map[string]*toggleEntry
}

type Option func(*Controller)

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func New(api API, opts ...Option) *Controller {
	c := &Controller{
		api:      api,
		notifier: NotifierFunc(func(Notification) {}),
		logger:   logging.Discard(),
		now:      time.Now,
		all:      []models.Task{},
		visible:  []models.Task{},
		filter:   models.FilterAll,
		toggles:  make(map[string]*toggleEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns copies of the mirrored state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		All:     append([]models.Task{}, c.all...),
		Visible: append([]models.Task{}, c.visible...),
		Loading: c.loading,
		Filter:  c.filter,
		Counts:  query.Count(c.all),
	}
}

// Loading reports whether a load is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ToggleState returns where the last toggle of id stands.
func (c *Controller) ToggleState(id string) ToggleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.toggles[id]; ok {
		return e.state
	}
	return ToggleIdle
}

// Load replaces the mirror with the server's full list. On failure the
// previous mirror is kept.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	tasks, err := c.api.List(ctx, models.FilterAll)

	c.mu.Lock()
	c.loading = false
	if err == nil {
		c.all = append([]models.Task{}, tasks...)
		c.recompute()
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.WarnContext(ctx, "load tasks failed", "err", err)
		c.notify(LevelError, MsgLoadFailed, "")
		return err
	}
	return nil
}

// SetFilter changes the visible view without touching the network.
func (c *Controller) SetFilter(status models.FilterStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = models.ParseFilterStatus(string(status))
	c.recompute()
}

// Create sends the task to the server and prepends the stored record.
func (c *Controller) Create(ctx context.Context, input models.CreateTaskInput) (models.Task, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		c.notify(LevelError, err.Error(), "")
		return models.Task{}, err
	}

	task, err := c.api.Create(ctx, input)
	if err != nil {
		c.logger.WarnContext(ctx, "create task failed", "err", err)
		c.notify(LevelError, MsgCreateFailed, "")
		return models.Task{}, err
	}

	c.mu.Lock()
	if i := c.indexOf(task.ID); i >= 0 {
		c.all[i] = task
	} else {
		c.all = append([]models.Task{task}, c.all...)
	}
	c.recompute()
	c.mu.Unlock()

	c.notify(LevelSuccess, MsgCreated, task.ID)
	return task, nil
}

// Toggle flips the task locally, asks the server to do the same, and then
// confirms or rolls back.
func (c *Controller) Toggle(ctx context.Context, id string) (models.Task, error) {
	if err := c.BeginToggle(id); err != nil {
		return models.Task{}, err
	}
	task, err := c.api.Toggle(ctx, id)
	c.FinishToggle(ctx, id, task, err)
	return task, err
}

// BeginToggle applies the optimistic flip for id and marks it pending.
func (c *Controller) BeginToggle(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.toggles[id]; ok && e.state == ToggleOptimisticPending {
		return ErrTogglePending
	}
	i := c.indexOf(id)
	if i < 0 {
		return ErrUnknownTask
	}

	previous := c.all[i].Completed
	c.all[i].Completed = !previous
	c.toggles[id] = &toggleEntry{state: ToggleOptimisticPending, previous: previous}
	c.recompute()
	return nil
}

// FinishToggle resolves a pending toggle with the server's answer. A nil err
// confirms and adopts the server record; otherwise the flip is undone.
func (c *Controller) FinishToggle(ctx context.Context, id string, task models.Task, err error) {
	c.mu.Lock()
	e, ok := c.toggles[id]
	if !ok || e.state != ToggleOptimisticPending {
		c.mu.Unlock()
		return
	}

	i := c.indexOf(id)
	if err != nil {
		e.state = ToggleRolledBack
		if i >= 0 {
			c.all[i].Completed = e.previous
		}
	} else {
		e.state = ToggleConfirmed
		if i >= 0 {
			c.all[i] = task
		}
	}
	c.recompute()
	c.mu.Unlock()

	if err != nil {
		c.logger.WarnContext(ctx, "toggle task failed", "id", id, "err", err)
		c.notify(LevelError, MsgToggleFailed, id)
		return
	}
	if task.Completed {
		c.notify(LevelSuccess, MsgCompleted, id)
	} else {
		c.notify(LevelSuccess, MsgMarkedOpen, id)
	}
}

// recompute derives the visible view. Caller holds c.mu.
func (c *Controller) recompute() {
	c.visible = query.Filter(c.all, c.filter)
}

// indexOf finds id in the mirror. Caller holds c.mu.
func (c *Controller) indexOf(id string) int {
	for i := range c.all {
		if c.all[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) notify(level Level, message, taskID string) {
	c.notifier.Notify(Notification{Level: level, Message: message, TaskID: taskID, At: c.now()})
}
