package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func withColorProfile(t *testing.T, p termenv.Profile) {
	t.Helper()
	orig := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(p)
	t.Cleanup(func() { lipgloss.SetColorProfile(orig) })
}

func TestPreviewStyle(t *testing.T) {
	withColorProfile(t, termenv.ANSI256)
	assert.Equal(t, "dracula", previewStyle("Dracula"))
	assert.Contains(t, []string{"dark", "light"}, previewStyle("auto"))
	assert.Contains(t, []string{"dark", "light"}, previewStyle(""))

	lipgloss.SetColorProfile(termenv.Ascii)
	assert.Equal(t, "notty", previewStyle("dracula"))
}

func TestMarkdownRenderer(t *testing.T) {
	withColorProfile(t, termenv.Ascii)
	r := newMarkdownRenderer("auto")

	assert.Empty(t, r.render("   ", 40))

	out := r.render("bring **photo** and form", 40)
	assert.Contains(t, out, "photo")
	assert.Equal(t, 40, r.width)

	r.setStyle("light")
	assert.Nil(t, r.renderer)
	r.render("again", 10)
	assert.Equal(t, minPreviewWidth, r.width)
}

func TestMarkdownRenderer_UnknownStyleFallsBackToText(t *testing.T) {
	withColorProfile(t, termenv.ANSI256)
	r := newMarkdownRenderer("no-such-style")

	assert.Equal(t, "plain *text*", r.render("plain *text*", 40))
}
