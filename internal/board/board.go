// Package board composes the task store, the editor and the sidebar into the Today board.
// It has no rendering; the ui package draws it.
package board

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"today/internal/editor"
	"today/internal/storage"
	"today/internal/task"
)

var ErrTaskNotFound = errors.New("task not found")

// DefaultLists are the list choices offered by the editor when none are configured.
var DefaultLists = []string{"Personal", "Work", "List 1"}

type Options struct {
	SidebarExpanded bool
	Lists           []string
	Logger          *log.Logger
}

type Board struct {
	store           storage.Store
	editor          *editor.Editor
	sidebarExpanded bool
	lists           []string
	logger          *log.Logger
}

func New(store storage.Store, opts Options) *Board {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	b := &Board{
		store:           store,
		editor:          editor.New(store),
		sidebarExpanded: opts.SidebarExpanded,
		logger:          logger,
	}
	b.SetLists(opts.Lists)
	return b
}

func (b *Board) Editor() *editor.Editor {
	return b.editor
}

func (b *Board) ToggleSidebar() {
	b.sidebarExpanded = !b.sidebarExpanded
	b.logger.Debug("sidebar toggled", "expanded", b.sidebarExpanded)
}

func (b *Board) SidebarExpanded() bool {
	return b.sidebarExpanded
}

// Lists returns the list choices offered by the editor.
func (b *Board) Lists() []string {
	out := make([]string, len(b.lists))
	copy(out, b.lists)
	return out
}

func (b *Board) SetLists(lists []string) {
	if len(lists) == 0 {
		lists = DefaultLists
	}
	b.lists = make([]string, len(lists))
	copy(b.lists, lists)
}

func (b *Board) Tasks(ctx context.Context) ([]task.Task, error) {
	return b.store.List(ctx)
}

// New opens the editor on a blank draft.
func (b *Board) New() {
	b.editor.Open(nil)
	b.logger.Debug("editor opened", "state", b.editor.State())
}

// Edit opens the editor on the stored task with the given id.
func (b *Board) Edit(ctx context.Context, id int) error {
	t, ok, err := b.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load task %d: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	b.editor.Open(&t)
	b.logger.Debug("editor opened", "state", b.editor.State(), "task", id)
	return nil
}

func (b *Board) Save(ctx context.Context) (task.Task, error) {
	wasNew := b.editor.State() == editor.OpenNew
	stored, err := b.editor.Commit(ctx)
	if err != nil {
		b.logger.Error("save failed", "err", err)
		return task.Task{}, err
	}
	b.logger.Info("task saved", "id", stored.ID, "created", wasNew, "subtasks", stored.SubtaskCount())
	return stored, nil
}

func (b *Board) Delete(ctx context.Context) error {
	id := b.editor.Draft().ID
	if err := b.editor.DiscardAndDelete(ctx); err != nil {
		b.logger.Error("delete failed", "id", id, "err", err)
		return err
	}
	if id != 0 {
		b.logger.Info("task deleted", "id", id)
	}
	return nil
}

func (b *Board) Cancel() {
	b.editor.Close()
}

// ToggleCompleted flips a stored task's completion right away, bypassing the editor.
func (b *Board) ToggleCompleted(ctx context.Context, id int) (task.Task, error) {
	t, ok, err := b.store.Get(ctx, id)
	if err != nil {
		return task.Task{}, fmt.Errorf("load task %d: %w", id, err)
	}
	if !ok {
		return task.Task{}, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	t.Completed = !t.Completed
	stored, err := b.store.Upsert(ctx, t)
	if err != nil {
		return task.Task{}, fmt.Errorf("toggle task %d: %w", id, err)
	}
	b.logger.Debug("task completion toggled", "id", id, "completed", stored.Completed)
	return stored, nil
}
