package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"today/internal/board"
	"today/internal/config"
	"today/internal/editor"
	"today/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeEdit
	modeConfirmDelete
)

// Editor panel slots. Slots from fieldSubtasks on are the draft's subtasks in order.
const (
	fieldTitle = iota
	fieldDescription
	fieldList
	fieldDate
	fieldTag
	fieldSubtasks
)

var quitBinding = key.NewBinding(key.WithKeys("ctrl+c"))

// ConfigReloadedMsg carries a config re-read from disk while the program runs.
type ConfigReloadedMsg struct {
	Config config.Config
	Err    error
}

type Model struct {
	ctx        context.Context
	board      *board.Board
	cfg        config.Config
	tasks      []task.Task
	counts     board.Counts
	cursor     int
	mode       mode
	focus      int
	input      textinput.Model
	desc       textarea.Model
	status     string
	pendingDel *task.Task
	width      int
	height     int
	markdown   *markdownRenderer
	copy       func(string) error
}

func New(ctx context.Context, b *board.Board, cfg config.Config) (Model, error) {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 36

	ta := textarea.New()
	ta.Placeholder = "Description"
	ta.ShowLineNumbers = false
	ta.SetWidth(38)
	ta.SetHeight(4)

	m := Model{
		ctx:      ctx,
		board:    b,
		cfg:      cfg,
		mode:     modeList,
		input:    ti,
		desc:     ta,
		status:   fmt.Sprintf("Press '%s' to add, %s to edit, %s to toggle the sidebar.", cfg.Keys.Add, cfg.Keys.Edit, cfg.Keys.ToggleSidebar),
		markdown: newMarkdownRenderer(cfg.MarkdownStyle),
		copy:     clipboard.WriteAll,
	}
	if err := m.reload(); err != nil {
		return m, err
	}
	return m, nil
}

// NewProgram wraps the model in a full-screen bubbletea program bound to ctx.
func NewProgram(ctx context.Context, m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, quitBinding) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeEdit:
			return m.updateEditMode(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		default:
			return m.updateListMode(msg.String())
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = panelWidth - 8
	case ConfigReloadedMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("config reload failed: %v", msg.Err)
			return m, nil
		}
		m.cfg = msg.Config
		m.board.SetLists(msg.Config.Lists)
		m.markdown.setStyle(msg.Config.MarkdownStyle)
		m.status = "Config reloaded"
	}
	return m, nil
}

func (m Model) updateListMode(k string) (tea.Model, tea.Cmd) {
	switch k {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.tasks) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.tasks))
		}
	case m.cfg.Keys.ToggleSidebar:
		m.board.ToggleSidebar()
	case m.cfg.Keys.Add:
		m.board.New()
		return m.startEdit("New task: tab to move between fields, " + m.cfg.Keys.Save + " to save")
	case m.cfg.Keys.Edit:
		if len(m.tasks) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		t := m.tasks[m.cursor]
		if err := m.board.Edit(m.ctx, t.ID); err != nil {
			m.status = fmt.Sprintf("edit failed: %v", err)
			return m, nil
		}
		return m.startEdit(fmt.Sprintf("Editing #%d: tab to move between fields, %s to save", t.ID, m.cfg.Keys.Save))
	case m.cfg.Keys.Toggle:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t, err := m.board.ToggleCompleted(m.ctx, m.tasks[m.cursor].ID)
		if err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		if err := m.reload(); err != nil {
			m.status = fmt.Sprintf("reload failed: %v", err)
			return m, nil
		}
		m.status = fmt.Sprintf("Marked \"%s\" %s", t.Title, humanDone(t.Completed))
	case m.cfg.Keys.Delete:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t := m.tasks[m.cursor]
		m.mode = modeConfirmDelete
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case m.cfg.Keys.Copy:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t := m.tasks[m.cursor]
		if err := m.copy(t.Title); err != nil {
			m.status = fmt.Sprintf("copy failed: %v", err)
			return m, nil
		}
		m.status = fmt.Sprintf("Copied \"%s\"", t.Title)
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.mode = modeList
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		m.mode = modeList
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			return m, nil
		}
		id := m.pendingDel.ID
		m.pendingDel = nil
		// Deleting from the list goes through the editor like deleting from the panel.
		if err := m.board.Edit(m.ctx, id); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			return m, nil
		}
		if err := m.board.Delete(m.ctx); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			return m, nil
		}
		if err := m.reload(); err != nil {
			m.status = fmt.Sprintf("reload failed: %v", err)
			return m, nil
		}
		m.status = "Deleted task"
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) startEdit(status string) (tea.Model, tea.Cmd) {
	m.mode = modeEdit
	m.status = status
	m = m.focusField(fieldTitle)
	return m, textinput.Blink
}

func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := m.board.Editor()
	switch msg.String() {
	case m.cfg.Keys.Cancel:
		m.board.Cancel()
		return m.finishEdit("Edit cancelled")
	case m.cfg.Keys.Save:
		m.syncFocused()
		stored, err := m.board.Save(m.ctx)
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		next, cmd := m.finishEdit("Saved task")
		next.selectTask(stored.ID)
		return next, cmd
	case m.cfg.Keys.Delete:
		isNew := ed.State() == editor.OpenNew
		if err := m.board.Delete(m.ctx); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			return m, nil
		}
		if isNew {
			return m.finishEdit("Discarded new task")
		}
		return m.finishEdit("Deleted task")
	case m.cfg.Keys.NextField:
		m.syncFocused()
		return m.focusField(wrapIndex(m.focus+1, m.fieldCount())), nil
	case m.cfg.Keys.PrevField:
		m.syncFocused()
		return m.focusField(wrapIndex(m.focus-1, m.fieldCount())), nil
	case m.cfg.Keys.AddSubtask:
		m.syncFocused()
		ed.AddSubtask()
		m.status = "Added subtask"
		return m.focusField(m.fieldCount() - 1), nil
	case m.cfg.Keys.ToggleDone:
		m.syncFocused()
		if m.focus >= fieldSubtasks {
			st := ed.Draft().Subtasks[m.focus-fieldSubtasks]
			if err := ed.ToggleSubtask(st.ID); err != nil {
				m.status = fmt.Sprintf("toggle failed: %v", err)
			}
			return m, nil
		}
		ed.ToggleCompleted()
		m.status = "Task marked " + humanDone(ed.Draft().Completed) + " (unsaved)"
		return m, nil
	}

	switch m.focus {
	case fieldList:
		switch msg.String() {
		case "left", "h":
			ed.Apply(editor.SetList(cycle(m.board.Lists(), ed.Draft().List, -1)))
		case "right", "l", " ", "enter":
			ed.Apply(editor.SetList(cycle(m.board.Lists(), ed.Draft().List, 1)))
		}
		return m, nil
	case fieldDescription:
		var cmd tea.Cmd
		m.desc, cmd = m.desc.Update(msg)
		m.syncFocused()
		return m, cmd
	default:
		if msg.String() == "enter" {
			m.syncFocused()
			return m.focusField(wrapIndex(m.focus+1, m.fieldCount())), nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.syncFocused()
		return m, cmd
	}
}

func (m Model) finishEdit(status string) (Model, tea.Cmd) {
	m.mode = modeList
	m.input.Blur()
	m.desc.Blur()
	m.status = status
	if err := m.reload(); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
	}
	return m, nil
}

// syncFocused writes the focused widget's value into the draft.
func (m Model) syncFocused() {
	ed := m.board.Editor()
	switch {
	case m.focus == fieldTitle:
		ed.Apply(editor.SetTitle(m.input.Value()))
	case m.focus == fieldDescription:
		ed.Apply(editor.SetDescription(m.desc.Value()))
	case m.focus == fieldDate:
		ed.Apply(editor.SetDate(m.input.Value()))
	case m.focus == fieldTag:
		ed.Apply(editor.SetTag(m.input.Value()))
	case m.focus >= fieldSubtasks:
		subs := ed.Draft().Subtasks
		if i := m.focus - fieldSubtasks; i < len(subs) {
			_ = ed.SetSubtaskTitle(subs[i].ID, m.input.Value())
		}
	}
}

// focusField loads the draft value for slot into the matching widget and focuses it.
func (m Model) focusField(slot int) Model {
	d := m.board.Editor().Draft()
	m.focus = slot
	m.input.Blur()
	m.desc.Blur()
	switch {
	case slot == fieldTitle:
		m.input.Placeholder = "Task title"
		m.input.SetValue(d.Title)
		m.input.Focus()
	case slot == fieldDescription:
		m.desc.SetValue(d.Description)
		m.desc.Focus()
	case slot == fieldDate:
		m.input.Placeholder = "Due date"
		m.input.SetValue(d.Date)
		m.input.Focus()
	case slot == fieldTag:
		m.input.Placeholder = "Tag"
		m.input.SetValue(d.Tag)
		m.input.Focus()
	case slot >= fieldSubtasks:
		m.input.Placeholder = "Subtask"
		if i := slot - fieldSubtasks; i < len(d.Subtasks) {
			m.input.SetValue(d.Subtasks[i].Title)
		}
		m.input.Focus()
	}
	return m
}

func (m Model) fieldCount() int {
	return fieldSubtasks + m.board.Editor().Draft().SubtaskCount()
}

func (m *Model) reload() error {
	tasks, err := m.board.Tasks(m.ctx)
	if err != nil {
		return err
	}
	counts, err := m.board.Counts(m.ctx)
	if err != nil {
		return err
	}
	m.tasks = tasks
	m.counts = counts
	m.cursor = clampCursor(m.cursor, len(m.tasks))
	return nil
}

func (m *Model) selectTask(id int) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

// cycle returns the option step places away from current, wrapping. A current value that
// is not an option moves to the first option.
func cycle(options []string, current string, step int) string {
	if len(options) == 0 {
		return current
	}
	for i, o := range options {
		if o == current {
			return options[wrapIndex(i+step, len(options))]
		}
	}
	return options[0]
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}
