package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitbridge.dev/gitbridge/internal/output"
)

// CommitItem is one row in the interactive history browser.
type CommitItem struct {
	OID     string
	Message string
	When    time.Time
}

// historyModel lets the user scroll and filter repository history and pick a
// commit. Selection yields the full commit id.
type historyModel struct {
	items    []CommitItem
	filtered []CommitItem
	filter   string
	cursor   int
	selected string
	done     bool
	err      error
}

func (m historyModel) Init() tea.Cmd {
	return nil
}

func (m historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyEnter:
		if len(m.filtered) > 0 && m.cursor >= 0 && m.cursor < len(m.filtered) {
			m.selected = m.filtered[m.cursor].OID
			m.done = true
			return m, tea.Quit
		}
	case tea.KeyCtrlC, tea.KeyEsc:
		m.err = fmt.Errorf("canceled")
		m.done = true
		return m, tea.Quit
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		} else {
			m.cursor = len(m.filtered) - 1
		}
	case tea.KeyDown:
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		} else {
			m.cursor = 0
		}
	case tea.KeyBackspace:
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
			m.refilter()
		}
	case tea.KeyRunes:
		m.filter += string(key.Runes)
		m.refilter()
	}

	return m, nil
}

func (m *historyModel) refilter() {
	needle := strings.ToLower(m.filter)
	if needle == "" {
		m.filtered = m.items
	} else {
		m.filtered = nil
		for _, item := range m.items {
			if strings.Contains(strings.ToLower(item.Message), needle) ||
				strings.Contains(strings.ToLower(item.OID), needle) {
				m.filtered = append(m.filtered, item)
			}
		}
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m historyModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Repository history"))
	b.WriteString("\n")

	if m.filter != "" {
		b.WriteString(fmt.Sprintf("Filter: %s\n\n", lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(m.filter)))
	} else {
		b.WriteString("\n")
	}

	if len(m.filtered) == 0 {
		b.WriteString("No commits match the filter.\n")
	}

	for i, item := range m.filtered {
		cursor := " "
		if i == m.cursor {
			cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(">")
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s\n",
			cursor,
			lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(output.ShortOID(item.OID)),
			lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(item.When.Format("2006-01-02")),
			output.Subject(item.Message),
		))
	}

	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("\n(↑/↓ to move, type to filter, Enter to select, Esc to cancel)"))

	return lipgloss.NewStyle().Margin(1, 0).Render(b.String())
}

// RunHistoryBrowser shows repository history and returns the commit id the
// user selects.
func RunHistoryBrowser(items []CommitItem) (string, error) {
	if err := interactiveAllowed(); err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", fmt.Errorf("no commits to browse")
	}

	m := historyModel{items: items, filtered: items}
	p := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	final, err := p.Run()
	if err != nil {
		return "", err
	}

	if fm, ok := final.(historyModel); ok {
		if fm.err != nil {
			return "", fm.err
		}
		return fm.selected, nil
	}

	return "", fmt.Errorf("unexpected model type")
}
