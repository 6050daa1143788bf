// Package seed provides the sample tasks the board starts with.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"today/internal/storage"
	"today/internal/task"
)

//go:embed tasks.yaml
var defaultTasks []byte

// Default returns the built-in sample tasks.
func Default() ([]task.Task, error) {
	return Parse(defaultTasks)
}

// Parse decodes a YAML sequence of tasks.
func Parse(data []byte) ([]task.Task, error) {
	var tasks []task.Task
	if err := yaml.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parsing seed tasks: %w", err)
	}
	return tasks, nil
}

// ReadFile reads seed tasks from a YAML file.
func ReadFile(path string) ([]task.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Load fills the store with the tasks from path, or the built-in ones when path is empty.
func Load(ctx context.Context, s storage.Store, path string) (int, error) {
	var (
		tasks []task.Task
		err   error
	)
	if path == "" {
		tasks, err = Default()
	} else {
		tasks, err = ReadFile(path)
	}
	if err != nil {
		return 0, err
	}
	if err := s.Replace(ctx, tasks); err != nil {
		return 0, fmt.Errorf("loading seed tasks: %w", err)
	}
	return len(tasks), nil
}
