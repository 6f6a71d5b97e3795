package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jbutlerdev/tasks/internal/models"
)

// MemoryStore owns the canonical, ordered task collection.
// The newest task is always at index 0.
type MemoryStore struct {
	mutex *sync.RWMutex
	tasks []models.Task

	now   func() time.Time
	newID func() string
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithClock overrides the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) { s.now = now }
}

// WithIDGenerator overrides the id generator. The default is a random UUID.
func WithIDGenerator(newID func() string) Option {
	return func(s *MemoryStore) { s.newID = newID }
}

// WithSeed preloads the store. Order is kept as given.
func WithSeed(tasks []models.Task) Option {
	return func(s *MemoryStore) {
		s.tasks = append([]models.Task(nil), tasks...)
	}
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		mutex: &sync.RWMutex{},
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultSeed returns the two fixture tasks the server starts with.
func DefaultSeed() []models.Task {
	return []models.Task{
		{
			ID:          "1",
			Title:       "Complete project proposal",
			Description: "Draft Q3 proposal for client review",
			Completed:   false,
			CreatedAt:   "2025-04-15",
		},
		{
			ID:          "2",
			Title:       "Review pull requests",
			Description: "Review and merge team pull requests",
			Completed:   true,
			CreatedAt:   "2025-04-14",
		},
	}
}

// List returns a copy of all tasks, most recently created first
func (s *MemoryStore) List() []models.Task {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of stored tasks
func (s *MemoryStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.tasks)
}

// Get returns a single task by ID
func (s *MemoryStore) Get(id string) (models.Task, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, &NotFoundError{ID: id}
	}
	return s.tasks[i], nil
}

// Create validates the input and inserts a new task at the front
func (s *MemoryStore) Create(input models.CreateTaskInput) (models.Task, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return models.Task{}, &ValidationError{Message: err.Error()}
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	id, err := s.uniqueID()
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Completed:   false,
		CreatedAt:   s.now().UTC().Format(time.RFC3339Nano),
	}

	s.tasks = append([]models.Task{task}, s.tasks...)
	return task, nil
}

// ToggleCompletion flips the completed flag of a task in place
func (s *MemoryStore) ToggleCompletion(id string) (models.Task, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, &NotFoundError{ID: id}
	}

	s.tasks[i].Completed = !s.tasks[i].Completed
	return s.tasks[i], nil
}

const maxIDAttempts = 8

// uniqueID draws ids until one is unused. Caller holds the write lock.
func (s *MemoryStore) uniqueID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique task id after %d attempts", maxIDAttempts)
}

// indexOf is an internal lookup (without locking)
func (s *MemoryStore) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
