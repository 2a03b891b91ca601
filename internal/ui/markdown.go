package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

// RenderMarkdown renders a Markdown reply for the terminal. When
// stdout is not a TTY (piped or redirected) the raw Markdown is
// returned so downstream tools see clean text. Rendering failures also
// fall back to the raw text rather than erroring the whole request.
func RenderMarkdown(md string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return strings.TrimSpace(md) + "\n"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
