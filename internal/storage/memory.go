package storage

import (
	"context"
	"sync"

	"today/internal/task"
)

type MemoryStore struct {
	mu     sync.RWMutex
	tasks  []task.Task
	nextID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) List(ctx context.Context) ([]task.Task, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]task.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int) (task.Task, bool, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i].Clone(), true, nil
	}
	return task.Task{}, false, nil
}

func (s *MemoryStore) Upsert(ctx context.Context, t task.Task) (task.Task, error) {
	_ = ctx

	if err := checkSubtaskIDs(t); err != nil {
		return task.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t = t.Clone()
	if i := s.indexOf(t.ID); t.ID != 0 && i >= 0 {
		s.tasks[i] = t
		return t.Clone(), nil
	}
	t.ID = s.nextID
	s.nextID++
	s.tasks = append(s.tasks, t)
	return t.Clone(), nil
}

func (s *MemoryStore) Remove(ctx context.Context, id int) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
	return nil
}

// Replace swaps the whole collection, keeping the ids it is given. Tasks with id 0 get fresh ids.
func (s *MemoryStore) Replace(ctx context.Context, tasks []task.Task) error {
	_ = ctx
	if err := checkUniqueIDs(tasks); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range tasks {
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
	s.tasks = make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		t = t.Clone()
		if t.ID == 0 {
			t.ID = s.nextID
			s.nextID++
		}
		s.tasks = append(s.tasks, t)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) indexOf(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
