// Package storage implements the task store behind the board. Both backends are volatile:
// nothing outlives the process.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"today/internal/task"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

var (
	ErrDuplicateID        = errors.New("duplicate task id")
	ErrDuplicateSubtaskID = errors.New("duplicate subtask id")
	ErrUnknownBackend     = errors.New("unknown store backend")
)

// Store is an ordered collection of tasks. Display order is insertion order.
//
// Upsert replaces the stored task with the same id in full. A task with id 0, or with an id
// the store does not hold, is appended under a fresh id that is never reused. Remove of an
// unknown id is a no-op. Values going in and out are copies.
type Store interface {
	List(ctx context.Context) ([]task.Task, error)
	Get(ctx context.Context, id int) (task.Task, bool, error)
	Upsert(ctx context.Context, t task.Task) (task.Task, error)
	Remove(ctx context.Context, id int) error
	Replace(ctx context.Context, tasks []task.Task) error
	Close() error
}

// Open returns the store backend with the given name. An empty name selects memory.
func Open(backend string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		return OpenSQLite()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func checkUniqueIDs(tasks []task.Task) error {
	seen := make(map[int]struct{}, len(tasks))
	for _, t := range tasks {
		if err := checkSubtaskIDs(t); err != nil {
			return err
		}
		if t.ID == 0 {
			continue
		}
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateID, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

// checkSubtaskIDs rejects a task whose subtasks share an id.
func checkSubtaskIDs(t task.Task) error {
	seen := make(map[int]struct{}, len(t.Subtasks))
	for _, st := range t.Subtasks {
		if _, ok := seen[st.ID]; ok {
			return fmt.Errorf("%w: %d in task %d", ErrDuplicateSubtaskID, st.ID, t.ID)
		}
		seen[st.ID] = struct{}{}
	}
	return nil
}
