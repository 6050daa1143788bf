package editor

import "today/internal/task"

// Edit is one field change applied to the draft. The set of edits is closed.
type Edit interface {
	apply(t *task.Task)
}

type (
	SetTitle       string
	SetDescription string
	SetList        string
	SetDate        string
	SetTag         string
)

func (e SetTitle) apply(t *task.Task)       { t.Title = string(e) }
func (e SetDescription) apply(t *task.Task) { t.Description = string(e) }
func (e SetList) apply(t *task.Task)        { t.List = string(e) }
func (e SetDate) apply(t *task.Task)        { t.Date = string(e) }
func (e SetTag) apply(t *task.Task)         { t.Tag = string(e) }
