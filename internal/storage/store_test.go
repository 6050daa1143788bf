package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"today/internal/task"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	sq, err := OpenSQLite()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sq.Close()
	})
	return map[string]Store{
		BackendMemory: NewMemoryStore(),
		BackendSQLite: sq,
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, s)
		})
	}
}

func TestUpsert_NewTasksGetDistinctIDs(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		seen := map[int]bool{}
		for range 20 {
			stored, err := s.Upsert(ctx, task.Task{Title: "x"})
			require.NoError(t, err)
			assert.NotZero(t, stored.ID)
			assert.False(t, seen[stored.ID], "id %d reused", stored.ID)
			seen[stored.ID] = true
		}

		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 20)
	})
}

func TestUpsert_ReplacesWholeRecord(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		stored, err := s.Upsert(ctx, task.Task{
			Title:       "Renew driver's license",
			Description: "bring photo",
			Date:        "22-03-22",
			Tag:         "Personal",
			List:        "Work",
			Subtasks:    []task.Subtask{{ID: 31, Title: "Subtask 1"}},
		})
		require.NoError(t, err)

		_, err = s.Upsert(ctx, task.Task{ID: stored.ID, Title: "Renewed"})
		require.NoError(t, err)

		got, ok, err := s.Get(ctx, stored.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Renewed", got.Title)
		assert.Empty(t, got.Description)
		assert.Empty(t, got.Date)
		assert.Empty(t, got.Tag)
		assert.Empty(t, got.List)
		assert.Empty(t, got.Subtasks)

		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestUpsert_UnknownIDIsAppendedUnderFreshID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Replace(ctx, []task.Task{{ID: 1, Title: "A"}}))

		stored, err := s.Upsert(ctx, task.Task{ID: 77, Title: "ghost"})
		require.NoError(t, err)
		assert.NotEqual(t, 77, stored.ID)
		assert.NotEqual(t, 1, stored.ID)

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "ghost", list[1].Title)
	})
}

func TestList_KeepsInsertionOrderAndSubtaskOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Replace(ctx, []task.Task{
			{ID: 9, Title: "first"},
			{ID: 2, Title: "second", Subtasks: []task.Subtask{{ID: 43, Title: "c"}, {ID: 41, Title: "a"}, {ID: 42, Title: "b"}}},
		}))
		_, err := s.Upsert(ctx, task.Task{Title: "third"})
		require.NoError(t, err)

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"first", "second", "third"}, []string{list[0].Title, list[1].Title, list[2].Title})
		assert.Equal(t, 10, list[2].ID)

		var titles []string
		for _, st := range list[1].Subtasks {
			titles = append(titles, st.Title)
		}
		assert.Equal(t, []string{"c", "a", "b"}, titles)
	})
}

func TestRemove_Idempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Replace(ctx, []task.Task{{ID: 1, Title: "A"}, {ID: 2, Title: "B", Subtasks: []task.Subtask{{ID: 1}}}}))

		require.NoError(t, s.Remove(ctx, 2))
		once, err := s.List(ctx)
		require.NoError(t, err)

		require.NoError(t, s.Remove(ctx, 2))
		twice, err := s.List(ctx)
		require.NoError(t, err)

		assert.Equal(t, once, twice)
		require.Len(t, twice, 1)
		assert.Equal(t, 1, twice[0].ID)

		assert.NoError(t, s.Remove(ctx, 404))
	})
}

func TestRemove_IDsAreNotReused(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		a, err := s.Upsert(ctx, task.Task{Title: "a"})
		require.NoError(t, err)
		require.NoError(t, s.Remove(ctx, a.ID))

		b, err := s.Upsert(ctx, task.Task{Title: "b"})
		require.NoError(t, err)
		assert.Greater(t, b.ID, a.ID)
	})
}

func TestReplace_RejectsDuplicateIDs(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		err := s.Replace(context.Background(), []task.Task{{ID: 3}, {ID: 3}})
		assert.ErrorIs(t, err, ErrDuplicateID)
	})
}

func TestReplace_MixedIDsGetFreshIDsAboveGivenOnes(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Replace(ctx, []task.Task{
			{Title: "no id"},
			{ID: 1, Title: "one"},
		}))

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "no id", list[0].Title)
		assert.Equal(t, 2, list[0].ID)
		assert.Equal(t, 1, list[1].ID)

		added, err := s.Upsert(ctx, task.Task{Title: "next"})
		require.NoError(t, err)
		assert.Equal(t, 3, added.ID)
	})
}

func TestReplace_RejectsDuplicateSubtaskIDs(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Replace(ctx, []task.Task{{ID: 1, Title: "keep"}}))

		err := s.Replace(ctx, []task.Task{{ID: 2, Subtasks: []task.Subtask{{ID: 5}, {ID: 5}}}})
		assert.ErrorIs(t, err, ErrDuplicateSubtaskID)

		list, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "keep", list[0].Title)
	})
}

func TestUpsert_RejectsDuplicateSubtaskIDs(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		_, err := s.Upsert(ctx, task.Task{Title: "x", Subtasks: []task.Subtask{{ID: 1}, {ID: 1}}})
		assert.ErrorIs(t, err, ErrDuplicateSubtaskID)

		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestGet_Missing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		_, ok, err := s.Get(context.Background(), 5)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Replace(ctx, []task.Task{{ID: 4, Title: "Consult accountant", Subtasks: []task.Subtask{{ID: 41, Title: "Subtask 1"}}}}))

	got, _, err := s.Get(ctx, 4)
	require.NoError(t, err)
	got.Subtasks[0].Title = "mutated"

	again, _, err := s.Get(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Subtask 1", again.Subtasks[0].Title)
}

func TestOpen(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open("SQLite")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	assert.NoError(t, s.Close())

	_, err = Open("postgres")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
