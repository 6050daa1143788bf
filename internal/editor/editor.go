// Package editor stages changes to a single task before they reach the store.
package editor

import (
	"context"
	"errors"
	"fmt"

	"today/internal/storage"
	"today/internal/task"
)

var (
	ErrSubtaskNotFound = errors.New("subtask not found")
	ErrNotOpen         = errors.New("editor is not open")
)

type State int

const (
	Closed State = iota
	OpenNew
	OpenExisting
)

func (s State) String() string {
	switch s {
	case OpenNew:
		return "open-new"
	case OpenExisting:
		return "open-existing"
	default:
		return "closed"
	}
}

// Editor owns the draft. The store never sees the draft until Commit.
type Editor struct {
	store   storage.Store
	draft   task.Task
	visible bool
}

func New(store storage.Store) *Editor {
	return &Editor{store: store, draft: task.Blank()}
}

// Open seeds the draft from t, or from a blank task when t is nil, and shows the editor.
func (e *Editor) Open(t *task.Task) {
	if t != nil {
		e.draft = t.Clone()
	} else {
		e.draft = task.Blank()
	}
	e.visible = true
}

// Close hides the editor. The draft is left as is; the next Open replaces it.
func (e *Editor) Close() {
	e.visible = false
}

func (e *Editor) Visible() bool {
	return e.visible
}

func (e *Editor) State() State {
	switch {
	case !e.visible:
		return Closed
	case e.draft.IsNew():
		return OpenNew
	default:
		return OpenExisting
	}
}

// Draft returns a copy of the draft.
func (e *Editor) Draft() task.Task {
	return e.draft.Clone()
}

func (e *Editor) Apply(edits ...Edit) {
	for _, ed := range edits {
		ed.apply(&e.draft)
	}
}

func (e *Editor) SetTitle(v string)       { e.Apply(SetTitle(v)) }
func (e *Editor) SetDescription(v string) { e.Apply(SetDescription(v)) }
func (e *Editor) SetList(v string)        { e.Apply(SetList(v)) }
func (e *Editor) SetDate(v string)        { e.Apply(SetDate(v)) }
func (e *Editor) SetTag(v string)         { e.Apply(SetTag(v)) }

// AddSubtask appends a blank subtask with an id unused within the draft.
func (e *Editor) AddSubtask() task.Subtask {
	st := task.Subtask{ID: e.draft.NextSubtaskID()}
	e.draft.Subtasks = append(e.draft.Subtasks, st)
	return st
}

// SetSubtaskTitle replaces the title of the subtask with the given id. Position and
// completion are untouched. An unknown id leaves the draft unchanged.
func (e *Editor) SetSubtaskTitle(id int, title string) error {
	i := e.draft.SubtaskIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrSubtaskNotFound, id)
	}
	e.draft.Subtasks[i].Title = title
	return nil
}

// ToggleSubtask flips a draft subtask's completion. Like every draft change it reaches
// the store only on Commit.
func (e *Editor) ToggleSubtask(id int) error {
	i := e.draft.SubtaskIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrSubtaskNotFound, id)
	}
	e.draft.Subtasks[i].Completed = !e.draft.Subtasks[i].Completed
	return nil
}

// ToggleCompleted flips the draft's own completion flag.
func (e *Editor) ToggleCompleted() {
	e.draft.Completed = !e.draft.Completed
}

// Commit writes the draft to the store and closes the editor. A new draft gets its id
// from the store. If the store fails the editor stays open with the draft intact.
func (e *Editor) Commit(ctx context.Context) (task.Task, error) {
	if !e.visible {
		return task.Task{}, ErrNotOpen
	}
	stored, err := e.store.Upsert(ctx, e.draft)
	if err != nil {
		return task.Task{}, fmt.Errorf("commit task: %w", err)
	}
	e.draft = stored.Clone()
	e.Close()
	return stored, nil
}

// DiscardAndDelete removes the draft's task from the store when it has one, then closes.
// For a draft that was never stored it only closes.
func (e *Editor) DiscardAndDelete(ctx context.Context) error {
	if !e.visible {
		return ErrNotOpen
	}
	if !e.draft.IsNew() {
		if err := e.store.Remove(ctx, e.draft.ID); err != nil {
			return fmt.Errorf("delete task %d: %w", e.draft.ID, err)
		}
	}
	e.Close()
	return nil
}
