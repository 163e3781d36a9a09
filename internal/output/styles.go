// Package output renders user-facing command output: styled text helpers and
// the splog writer. It is deliberately separate from the zap debug trace.
package output

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// plain is true when stdout is not a terminal or the user disabled color
// (NO_COLOR and friends). Styled helpers degrade to their input text.
var plain = termenv.EnvNoColor() ||
	!(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

var (
	branchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	oidStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Branch renders a branch name, marking the currently checked out one.
func Branch(name string, current bool) string {
	if current {
		return styled(currentStyle, name+" (current)")
	}
	return styled(branchStyle, name)
}

// OID renders a commit id in its short form.
func OID(oid string) string {
	return styled(oidStyle, ShortOID(oid))
}

// ShortOID truncates a commit id to the 7-character form git shows by default.
func ShortOID(oid string) string {
	if len(oid) > 7 {
		return oid[:7]
	}
	return oid
}

// Subject returns the first line of a commit message, truncated to the width
// one-line-per-commit listings use.
func Subject(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	if len(line) > 72 {
		return line[:69] + "..."
	}
	return line
}

// Good renders success text.
func Good(text string) string { return styled(goodStyle, text) }

// Bad renders failure text.
func Bad(text string) string { return styled(badStyle, text) }

// Dim renders de-emphasized text.
func Dim(text string) string { return styled(dimStyle, text) }

func styled(style lipgloss.Style, text string) string {
	if plain {
		return text
	}
	return style.Render(text)
}
