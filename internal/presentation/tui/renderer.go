package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders surface markdown using
// glamour. Style follows the terminal background automatically.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
