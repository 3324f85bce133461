package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	tracker "github.com/hollyoak/canopy/internal/progress"
)

// Stage represents the current stage of a run.
type Stage int

const (
	StageCollect Stage = iota
	StageAnalyze
	StageDone
)

// pollInterval is how often the view re-reads the shared node counter.
const pollInterval = 100 * time.Millisecond

// Message types for updating the model.
type (
	StageMsg Stage
	// PostMsg announces the post currently being classified and its
	// tree size.
	PostMsg struct {
		Title string
		Total int
	}
	OperationMsg string
	DoneMsg      struct{ Err error }
	pollMsg      time.Time
)

// Model is the Bubbletea model for progress display. Classification
// progress is read from a shared counter the analyzer increments; the
// model polls it on a fixed tick rather than receiving per-node
// messages.
type Model struct {
	stage     Stage
	spinner   spinner.Model
	bar       progress.Model
	counter   *tracker.Counter
	currentOp string
	postTitle string
	total     int
	done      int
	width     int
	quitting  bool
	err       error
}

// NewModel creates a progress model reading from the given counter.
func NewModel(counter *tracker.Counter) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	p := progress.New(progress.WithDefaultGradient())

	return Model{
		stage:   StageCollect,
		spinner: s,
		bar:     p,
		counter: counter,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, poll())
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 4
		if m.bar.Width > 60 {
			m.bar.Width = 60
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pollMsg:
		if m.counter != nil {
			m.done = m.counter.Count()
		}
		return m, poll()

	case StageMsg:
		m.stage = Stage(msg)
		return m, nil

	case OperationMsg:
		m.currentOp = string(msg)
		return m, nil

	case PostMsg:
		m.postTitle = msg.Title
		m.total = msg.Total
		m.done = 0
		return m, nil

	case DoneMsg:
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	switch m.stage {
	case StageCollect:
		sb.WriteString(m.spinner.View())
		sb.WriteString(" Collecting posts")
		if m.currentOp != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", m.currentOp))
		}

	case StageAnalyze:
		if m.total > 0 {
			pct := float64(m.done) / float64(m.total)
			if pct > 1 {
				pct = 1
			}
			sb.WriteString(m.bar.ViewAs(pct))
			sb.WriteString(fmt.Sprintf(" %d/%d\n", m.done, m.total))
		}
		sb.WriteString(m.spinner.View())
		sb.WriteString(" ")
		if m.postTitle != "" {
			sb.WriteString(fmt.Sprintf("Classifying %q...", m.postTitle))
		} else {
			sb.WriteString("Classifying...")
		}
	}

	return sb.String()
}
