// Package ui provides terminal output helpers for the CLI.
package ui

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Spinner shows progress for long-running provider calls. All output
// goes to stderr so piped stdout stays clean.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a spinner with the given message.
func NewSpinner(msg string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = "  " + msg
	s.Color("cyan")
	return &Spinner{s: s}
}

// Start begins the animation.
func (sp *Spinner) Start() { sp.s.Start() }

// Stop halts the spinner and clears the line.
func (sp *Spinner) Stop() { sp.s.Stop() }

// Success stops the spinner and prints a green check with the message.
func (sp *Spinner) Success(msg string) {
	sp.s.Stop()
	color.New(color.FgGreen).Fprintf(os.Stderr, "  ✓ %s\n", msg)
}

// Warn stops the spinner and prints a yellow notice. Used for partial
// results, like rows dropped during generation.
func (sp *Spinner) Warn(msg string) {
	sp.s.Stop()
	color.New(color.FgYellow).Fprintf(os.Stderr, "  ! %s\n", msg)
}

// Fail stops the spinner and prints a red cross with the message.
func (sp *Spinner) Fail(msg string) {
	sp.s.Stop()
	color.New(color.FgRed).Fprintf(os.Stderr, "  ✗ %s\n", msg)
}
