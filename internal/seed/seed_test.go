package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"today/internal/storage"
)

func TestDefault(t *testing.T) {
	tasks, err := Default()
	require.NoError(t, err)
	require.Len(t, tasks, 5)

	assert.Equal(t, "Research content ideas", tasks[0].Title)
	assert.Equal(t, "22-03-22", tasks[2].Date)
	assert.Equal(t, "Personal", tasks[2].Tag)
	require.Len(t, tasks[2].Subtasks, 1)
	assert.Equal(t, 31, tasks[2].Subtasks[0].ID)
	assert.Equal(t, "List 1", tasks[3].List)
	assert.Len(t, tasks[3].Subtasks, 3)
	assert.Empty(t, tasks[4].List)
}

func TestLoad_DefaultAndFile(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()

	n, err := Load(ctx, s, "")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: 7\n  title: Walk dog\n- title: no id\n"), 0o644))

	n, err = Load(ctx, s, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 7, list[0].ID)
	assert.NotZero(t, list[1].ID)
	assert.NotEqual(t, 7, list[1].ID)
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()
	dir := t.TempDir()

	_, err := Load(ctx, s, filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	dup := filepath.Join(dir, "dup.yaml")
	require.NoError(t, os.WriteFile(dup, []byte("- id: 1\n- id: 1\n"), 0o644))
	_, err = Load(ctx, s, dup)
	assert.ErrorIs(t, err, storage.ErrDuplicateID)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("title: [unclosed"), 0o644))
	_, err = Load(ctx, s, bad)
	assert.Error(t, err)
}
