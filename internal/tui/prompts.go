package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// textInputModel is a single-line text prompt.
type textInputModel struct {
	input  textinput.Model
	prompt string
	done   bool
	err    error
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = fmt.Errorf("canceled")
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textInputModel) View() string {
	if m.done {
		return ""
	}
	return lipgloss.NewStyle().Margin(1, 0).Render(
		fmt.Sprintf("%s\n%s\n\n(Enter to submit, Ctrl+C to cancel)", m.prompt, m.input.View()))
}

// PromptCommitMessage asks for a commit message when none was passed on the
// command line.
func PromptCommitMessage(defaultValue string) (string, error) {
	if err := interactiveAllowed(); err != nil {
		return "", err
	}

	ti := textinput.New()
	ti.SetValue(defaultValue)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 80

	m := textInputModel{input: ti, prompt: "Commit message"}
	p := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	final, err := p.Run()
	if err != nil {
		return "", err
	}

	if fm, ok := final.(textInputModel); ok {
		if fm.err != nil {
			return "", fm.err
		}
		return fm.input.Value(), nil
	}

	return "", fmt.Errorf("unexpected model type")
}
