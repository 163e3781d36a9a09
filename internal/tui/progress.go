package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type progressDoneMsg struct{}

// progressModel shows a spinner while a long git operation runs. Ctrl+C only
// dismisses the spinner; the operation keeps running to completion.
type progressModel struct {
	spinner spinner.Model
	label   string
	done    bool
}

func newProgressModel(label string) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return progressModel{spinner: s, label: label}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressDoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(m.label)
	return b.String()
}

// RunWithProgress runs fn, showing a spinner when attached to a terminal. The
// returned error is always fn's result; spinner failures never mask it.
func RunWithProgress(label string, fn func() error) error {
	if !IsTTY() {
		return fn()
	}

	result := make(chan error, 1)
	p := tea.NewProgram(newProgressModel(label), tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	go func() {
		result <- fn()
		p.Send(progressDoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return <-result
	}
	return <-result
}
