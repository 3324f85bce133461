// Package ui renders terminal progress and styled summaries, degrading
// to plain text when stdout is not a TTY.
package ui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// OutputMode determines how output should be formatted.
type OutputMode int

const (
	// OutputModeInteractive enables colors, spinners, and progress bars.
	OutputModeInteractive OutputMode = iota
	// OutputModePlain disables colors and progress (for piped output).
	OutputModePlain
	// OutputModeJSON outputs raw JSON only.
	OutputModeJSON
)

// UI provides a unified interface for terminal output with TTY detection.
type UI struct {
	Mode      OutputMode
	Writer    io.Writer
	ErrWriter io.Writer
	Styles    *Styles
}

// New creates a UI instance with automatic TTY detection.
func New(w, errW io.Writer, format string) *UI {
	mode := detectMode(w, format)
	return &UI{
		Mode:      mode,
		Writer:    w,
		ErrWriter: errW,
		Styles:    NewStyles(mode == OutputModeInteractive),
	}
}

func detectMode(w io.Writer, format string) OutputMode {
	if format == "json" {
		return OutputModeJSON
	}
	if f, ok := w.(*os.File); ok {
		if term.IsTerminal(int(f.Fd())) {
			return OutputModeInteractive
		}
	}
	return OutputModePlain
}

// IsInteractive returns true if the output is interactive (TTY).
func (ui *UI) IsInteractive() bool {
	return ui.Mode == OutputModeInteractive
}

// IsJSON returns true if JSON output mode is enabled.
func (ui *UI) IsJSON() bool {
	return ui.Mode == OutputModeJSON
}
