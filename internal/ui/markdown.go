package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const minPreviewWidth = 24

// markdownRenderer draws a task description below the list. The glamour renderer is
// rebuilt only when the wrap width or the style changes.
type markdownRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

func newMarkdownRenderer(style string) *markdownRenderer {
	return &markdownRenderer{style: style}
}

func (r *markdownRenderer) setStyle(style string) {
	if style != r.style {
		r.style = style
		r.renderer = nil
	}
}

// previewStyle maps the configured style onto a glamour standard style. Without colour
// output the notty style wins over anything configured.
func previewStyle(configured string) string {
	if lipgloss.ColorProfile() == termenv.Ascii {
		return "notty"
	}
	switch s := strings.ToLower(strings.TrimSpace(configured)); s {
	case "", "auto":
		if lipgloss.HasDarkBackground() {
			return "dark"
		}
		return "light"
	default:
		return s
	}
}

func (r *markdownRenderer) render(description string, width int) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}
	width = max(width, minPreviewWidth)

	if r.renderer == nil || r.width != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(previewStyle(r.style)),
			glamour.WithWordWrap(width),
			glamour.WithPreservedNewLines(),
		)
		if err != nil {
			return description
		}
		r.renderer = renderer
		r.width = width
	}

	out, err := r.renderer.Render(description)
	if err != nil {
		return description
	}
	return strings.TrimRight(out, "\n")
}
