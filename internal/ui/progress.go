package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	tracker "github.com/hollyoak/canopy/internal/progress"
)

// ProgressController manages the bubbletea program for progress display.
// All methods are safe to call on a nil receiver, so callers don't have
// to branch on interactive mode.
type ProgressController struct {
	ui      *UI
	program *tea.Program
}

// StartProgress starts the progress display if in interactive mode.
// Returns nil otherwise; the nil controller swallows all updates.
func (ui *UI) StartProgress(counter *tracker.Counter) *ProgressController {
	if ui.Mode != OutputModeInteractive {
		return nil
	}

	m := NewModel(counter)
	p := tea.NewProgram(m, tea.WithOutput(ui.ErrWriter))

	ctrl := &ProgressController{
		ui:      ui,
		program: p,
	}

	go func() {
		if _, err := p.Run(); err != nil {
			_ = err
		}
	}()

	return ctrl
}

// SetStage updates the current stage.
func (pc *ProgressController) SetStage(stage Stage) {
	if pc != nil && pc.program != nil {
		pc.program.Send(StageMsg(stage))
	}
}

// SetOperation updates the current operation description.
func (pc *ProgressController) SetOperation(op string) {
	if pc != nil && pc.program != nil {
		pc.program.Send(OperationMsg(op))
	}
}

// StartPost announces the post being classified and its node count.
func (pc *ProgressController) StartPost(title string, total int) {
	if pc != nil && pc.program != nil {
		pc.program.Send(PostMsg{Title: title, Total: total})
	}
}

// Done signals that all work is complete and waits for the display to
// shut down, even if the counter never reached the announced total.
func (pc *ProgressController) Done(err error) {
	if pc != nil && pc.program != nil {
		pc.program.Send(DoneMsg{Err: err})
		pc.program.Wait()
	}
}
