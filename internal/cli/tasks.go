package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"today/internal/board"
	"today/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newTasksCmd(opts *options) *cobra.Command {
	var asJSON, withCounts bool
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Print the starting tasks without opening the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(opts)
			if err != nil {
				return err
			}
			b, store, err := openBoard(cmd.Context(), cfg, opts.seedFile, nil)
			if err != nil {
				return err
			}
			defer store.Close()

			tasks, err := b.Tasks(cmd.Context())
			if err != nil {
				return err
			}
			var counts board.Counts
			if withCounts {
				if counts, err = b.Counts(cmd.Context()); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if withCounts {
					return writeJSON(out, struct {
						Tasks  []task.Task  `json:"tasks"`
						Counts board.Counts `json:"counts"`
					}{tasks, counts})
				}
				return writeJSON(out, tasks)
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No tasks.")
			} else {
				taskTable(out, tasks)
			}
			if withCounts {
				countsTable(out, counts)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&withCounts, "counts", false, "include the sidebar counts")
	return cmd
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func taskTable(w io.Writer, tasks []task.Task) {
	const pad = 2
	idW, titleW, dateW, listW, tagW := 4, 7, 6, 6, 5
	for _, t := range tasks {
		idW = max(idW, len(strconv.Itoa(t.ID))+pad)
		titleW = max(titleW, min(len(t.Title)+pad, 50)) //nolint:mnd // max title column width
		dateW = max(dateW, len(t.Date)+pad)
		listW = max(listW, len(t.List)+pad)
		tagW = max(tagW, len(t.Tag)+pad)
	}

	header := fmt.Sprintf("%-*s %-6s %-*s %-*s %-*s %-*s %s",
		idW, "ID", "DONE", titleW, "TITLE", dateW, "DATE", listW, "LIST", tagW, "TAG", "SUBTASKS")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, t := range tasks {
		title := t.Title
		const maxTitle = 48
		if len(title) > maxTitle {
			title = title[:maxTitle-3] + "..."
		}
		done := "[ ]"
		if t.Completed {
			done = "[x]"
		}
		subtasks := "--"
		if n := t.SubtaskCount(); n > 0 {
			subtasks = fmt.Sprintf("%d/%d", t.CompletedSubtasks(), n)
		}
		row := fmt.Sprintf("%-*d %-6s %-*s %s %s %s %s",
			idW, t.ID, done, titleW, title,
			padRight(orDash(t.Date), dateW),
			padRight(orDash(t.List), listW),
			padRight(orDash(t.Tag), tagW),
			subtasks)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

func countsTable(w io.Writer, c board.Counts) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("TASKS"))
	fmt.Fprintf(w, "  %-16s %3d\n", "Today", c.Today)
	fmt.Fprintf(w, "  %-16s %3d\n", "Completed", c.Completed)
	fmt.Fprintln(w, headerStyle.Render("LISTS"))
	for _, l := range c.Lists {
		fmt.Fprintf(w, "  %-16s %3d\n", l.Name, l.Count)
	}
	if len(c.Tags) > 0 {
		fmt.Fprintln(w, headerStyle.Render("TAGS"))
		for _, tg := range c.Tags {
			fmt.Fprintf(w, "  %-16s %3d\n", tg.Name, tg.Count)
		}
	}
}

func orDash(v string) string {
	if v == "" {
		return dimStyle.Render("--")
	}
	return v
}

// padRight pads by visible width so styled cells still line up.
func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
