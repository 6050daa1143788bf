package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"today/internal/config"
	"today/internal/task"
)

const (
	sidebarWidth   = 24
	collapsedWidth = 5
	panelWidth     = 44
)

var (
	accent = lipgloss.Color("62")
	muted  = lipgloss.Color("241")
	dim    = lipgloss.Color("239")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(muted)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Strikethrough(true)
	metaStyle     = lipgloss.NewStyle().Foreground(muted)
	helpStyle     = lipgloss.NewStyle().Foreground(muted)
	statusStyle   = lipgloss.NewStyle().Foreground(dim)
	labelStyle    = lipgloss.NewStyle().Foreground(muted).Width(12)
	focusStyle    = lipgloss.NewStyle().Foreground(accent).Bold(true)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dim).
			Padding(0, 1)
	panelStyle = columnStyle.BorderForeground(accent)
)

func (m Model) View() string {
	cols := []string{m.renderSidebar(), m.renderMain()}
	if m.board.Editor().Visible() {
		cols = append(cols, m.renderPanel())
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.renderHelp()))
	return b.String()
}

func (m Model) renderHelp() string {
	if m.mode == modeEdit {
		return renderEditHelp(m.cfg.Keys)
	}
	return renderHelp(m.cfg.Keys)
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • space toggle • %s sidebar • %s copy • %s delete • %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.ToggleSidebar, k.Copy, k.Delete, k.Quit)
}

func renderEditHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s field • %s subtask • %s done • %s save • %s delete • %s close",
		k.NextField, k.PrevField, k.AddSubtask, k.ToggleDone, k.Save, k.Delete, k.Cancel)
}

func (m Model) renderSidebar() string {
	if !m.board.SidebarExpanded() {
		return columnStyle.Width(collapsedWidth).Render("≡\n\n" + fmt.Sprint(m.counts.Today))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Menu"))
	b.WriteString("\n\n")
	b.WriteString(headingStyle.Render("TASKS"))
	b.WriteString("\n")
	b.WriteString(countLine("Today", m.counts.Today))
	b.WriteString(countLine("Completed", m.counts.Completed))
	b.WriteString("\n")
	b.WriteString(headingStyle.Render("LISTS"))
	b.WriteString("\n")
	for _, c := range m.counts.Lists {
		b.WriteString(countLine(c.Name, c.Count))
	}
	if len(m.counts.Tags) > 0 {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render("TAGS"))
		b.WriteString("\n")
		tags := make([]string, 0, len(m.counts.Tags))
		for _, c := range m.counts.Tags {
			tags = append(tags, c.Name)
		}
		b.WriteString(strings.Join(tags, " · "))
		b.WriteString("\n")
	}
	return columnStyle.Width(sidebarWidth).Render(strings.TrimRight(b.String(), "\n"))
}

func countLine(name string, n int) string {
	return fmt.Sprintf("%-16s %3d\n", name, n)
}

func (m Model) mainWidth() int {
	if m.width == 0 {
		return 0
	}
	w := m.width - sidebarWidth - 4
	if !m.board.SidebarExpanded() {
		w = m.width - collapsedWidth - 4
	}
	if m.board.Editor().Visible() {
		w -= panelWidth + 4
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Today  %d", len(m.tasks))))
	b.WriteString("\n\n")
	b.WriteString(metaStyle.Render("+ Add New Task"))
	b.WriteString("\n")

	if len(m.tasks) == 0 {
		b.WriteString(fmt.Sprintf("\nNo tasks yet. Press '%s' to add one.", m.cfg.Keys.Add))
	} else {
		b.WriteString(m.renderTaskList())
	}

	if !m.board.Editor().Visible() && len(m.tasks) > 0 {
		t := m.tasks[clampCursor(m.cursor, len(m.tasks))]
		if preview := m.markdown.render(t.Description, m.mainWidth()); preview != "" {
			b.WriteString("\n")
			b.WriteString(preview)
		}
	}

	style := columnStyle
	if w := m.mainWidth(); w > 0 {
		style = style.Width(w)
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, t := range m.tasks {
		cursor := " "
		if m.cursor == i && m.mode != modeEdit {
			cursor = ">"
		}

		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}

		title := t.Title
		switch {
		case m.cursor == i:
			title = selectedStyle.Render(title)
		case t.Completed:
			title = doneStyle.Render(title)
		}

		b.WriteString(fmt.Sprintf("%s %s %s", cursor, checkbox, title))
		if meta := taskMeta(t); meta != "" {
			b.WriteString("\n      ")
			b.WriteString(metaStyle.Render(meta))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// taskMeta is the secondary line under a task title: date, subtask count, tag and list.
func taskMeta(t task.Task) string {
	var parts []string
	if t.Date != "" {
		parts = append(parts, t.Date)
	}
	if n := t.SubtaskCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d Subtasks", n))
	}
	if t.Tag != "" {
		parts = append(parts, "#"+t.Tag)
	}
	if t.List != "" && t.List != task.DefaultList {
		parts = append(parts, t.List)
	}
	return strings.Join(parts, " │ ")
}

func (m Model) renderPanel() string {
	ed := m.board.Editor()
	d := ed.Draft()

	var b strings.Builder
	heading := "Task:"
	if d.IsNew() {
		heading = "New Task:"
	}
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n\n")

	b.WriteString(m.fieldLine(fieldTitle, "Title", d.Title))
	b.WriteString(m.fieldLine(fieldDescription, "Description", d.Description))
	b.WriteString(m.fieldLine(fieldList, "List", "‹ "+emptyPlaceholder(d.List)+" ›"))
	b.WriteString(m.fieldLine(fieldDate, "Due date", d.Date))
	b.WriteString(m.fieldLine(fieldTag, "Tags", d.Tag))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Completed"), humanDone(d.Completed)))

	b.WriteString("\n")
	b.WriteString(headingStyle.Render(fmt.Sprintf("Subtasks  %d/%d", d.CompletedSubtasks(), d.SubtaskCount())))
	b.WriteString("\n")
	b.WriteString(metaStyle.Render(fmt.Sprintf("+ Add New Subtask (%s)", m.cfg.Keys.AddSubtask)))
	b.WriteString("\n")
	for i, st := range d.Subtasks {
		check := "[ ]"
		if st.Completed {
			check = "[x]"
		}
		slot := fieldSubtasks + i
		if m.focus == slot && m.mode == modeEdit {
			b.WriteString(focusStyle.Render(check) + " " + m.input.View())
		} else {
			b.WriteString(check + " " + emptyPlaceholder(st.Title))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(metaStyle.Render(fmt.Sprintf("%s Delete Task   %s Save changes", m.cfg.Keys.Delete, m.cfg.Keys.Save)))
	return panelStyle.Width(panelWidth).Render(b.String())
}

// fieldLine shows the live widget for the focused slot and the draft value otherwise.
func (m Model) fieldLine(slot int, label, value string) string {
	if m.focus != slot || m.mode != modeEdit {
		return fmt.Sprintf("%s %s\n", labelStyle.Render(label), emptyPlaceholder(value))
	}
	switch slot {
	case fieldDescription:
		return focusStyle.Render(label) + "\n" + m.desc.View() + "\n"
	case fieldList:
		return fmt.Sprintf("%s %s\n", focusStyle.Width(12).Render(label), value)
	default:
		return fmt.Sprintf("%s %s\n", focusStyle.Width(12).Render(label), m.input.View())
	}
}
