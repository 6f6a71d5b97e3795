package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jbutlerdev/tasks/internal/models"
)

// LoadSeedFile reads a JSON array of tasks to start the store with.
// The file is only read; nothing is ever written back.
func LoadSeedFile(path string) ([]models.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed file: %w", err)
	}

	seen := make(map[string]bool, len(tasks))
	for i, t := range tasks {
		if strings.TrimSpace(t.ID) == "" {
			return nil, fmt.Errorf("seed task %d: missing id", i)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("seed task %d: duplicate id %q", i, t.ID)
		}
		seen[t.ID] = true

		in := models.CreateTaskInput{Title: t.Title, Description: t.Description}.Normalize()
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("seed task %q: %w", t.ID, err)
		}
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}
