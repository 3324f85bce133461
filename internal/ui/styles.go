package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains the lipgloss styles for terminal output.
type Styles struct {
	enabled bool

	Positive lipgloss.Style
	Negative lipgloss.Style
	Info     lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style

	Header    lipgloss.Style
	Subheader lipgloss.Style
	Label     lipgloss.Style

	IconSuccess string
	IconError   string
}

// NewStyles creates a Styles instance. When enabled is false, styles
// return text unchanged (for non-TTY output).
func NewStyles(enabled bool) *Styles {
	s := &Styles{enabled: enabled}

	if enabled {
		s.Positive = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // Green
		s.Negative = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // Red
		s.Info = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))     // Blue
		s.Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

		s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
		s.Subheader = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Label = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // Cyan

		s.IconSuccess = "✓" // ✓
		s.IconError = "✗"   // ✗
	} else {
		plain := lipgloss.NewStyle()
		s.Positive = plain
		s.Negative = plain
		s.Info = plain
		s.Success = plain
		s.Error = plain
		s.Header = plain
		s.Subheader = plain
		s.Label = plain
		s.IconSuccess = "ok"
		s.IconError = "x"
	}

	return s
}
