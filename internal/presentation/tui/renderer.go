package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders scene content (markdown) using
// glamour. Falls back to the raw text when rendering fails.
func NewRenderer() func(string) string {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) string {
		if r == nil {
			return markdown
		}
		out, err := r.Render(markdown)
		if err != nil {
			return markdown
		}
		return out
	}
}
