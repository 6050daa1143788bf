// Package task holds the task and subtask records shared by the store, the editor and the UI.
package task

// DefaultList is the list a blank draft starts in.
const DefaultList = "Personal"

type Subtask struct {
	ID        int    `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Task is a to-do item. ID 0 means the task has not been stored yet.
type Task struct {
	ID          int       `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool      `json:"completed" yaml:"completed"`
	Date        string    `json:"date,omitempty" yaml:"date,omitempty"`
	Tag         string    `json:"tag,omitempty" yaml:"tag,omitempty"`
	List        string    `json:"list,omitempty" yaml:"list,omitempty"`
	Subtasks    []Subtask `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
}

// Blank returns the draft used for a brand new task.
func Blank() Task {
	return Task{
		List:     DefaultList,
		Subtasks: []Subtask{},
	}
}

func (t Task) IsNew() bool {
	return t.ID == 0
}

// Clone returns a copy that shares no subtask storage with t.
// A nil subtask slice comes back empty.
func (t Task) Clone() Task {
	out := t
	out.Subtasks = make([]Subtask, len(t.Subtasks))
	copy(out.Subtasks, t.Subtasks)
	return out
}

func (t Task) SubtaskCount() int {
	return len(t.Subtasks)
}

func (t Task) CompletedSubtasks() int {
	n := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			n++
		}
	}
	return n
}

// SubtaskIndex returns the position of the subtask with the given id, or -1.
func (t Task) SubtaskIndex(id int) int {
	for i, s := range t.Subtasks {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// NextSubtaskID returns an id not used by any of t's subtasks.
func (t Task) NextSubtaskID() int {
	maxID := 0
	for _, s := range t.Subtasks {
		if s.ID > maxID {
			maxID = s.ID
		}
	}
	return maxID + 1
}
