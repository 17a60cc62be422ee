package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// doneMsg tells the spinner that the work has finished.
type doneMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	title   string
	done    bool
}

func newSpinnerModel(title string) spinnerModel {
	return spinnerModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("63"))), // Purple
		),
		title: title,
	}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(doneMsg); ok {
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.title + "\n"
}

// Spin runs fn while a spinner titled title is drawn on w, and returns the
// result of fn. The spinner never reads input, so fn must not prompt.
func Spin(ctx context.Context, w io.Writer, title string, fn func() error) error {
	program := tea.NewProgram(newSpinnerModel(title),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)

	result := make(chan error, 1)
	go func() {
		result <- fn()
		program.Send(doneMsg{})
	}()

	// A broken display does not affect the work itself.
	_, _ = program.Run()
	return <-result
}
