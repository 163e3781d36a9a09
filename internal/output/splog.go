package output

import (
	"fmt"
	"io"
	"os"
)

// Splog writes the lines a command produces for the user. Engine diagnostics
// go to the zap trace instead; splog output is the product.
type Splog struct {
	writer io.Writer
}

// NewSplog creates a splog writing to stdout.
func NewSplog() *Splog {
	return &Splog{writer: os.Stdout}
}

// NewSplogTo creates a splog writing to w. Tests use this to capture output.
func NewSplogTo(w io.Writer) *Splog {
	return &Splog{writer: w}
}

// Info writes a message line.
func (s *Splog) Info(format string, args ...any) {
	fmt.Fprintf(s.writer, format+"\n", args...)
}

// Warn writes a warning line.
func (s *Splog) Warn(format string, args ...any) {
	fmt.Fprintf(s.writer, "⚠️  "+format+"\n", args...)
}

// Tip suggests a follow-up command.
func (s *Splog) Tip(format string, args ...any) {
	fmt.Fprintf(s.writer, "💡 "+format+"\n", args...)
}

// Newline writes an empty line.
func (s *Splog) Newline() {
	fmt.Fprintln(s.writer)
}

// Page writes pre-rendered content as-is.
func (s *Splog) Page(content string) {
	fmt.Fprint(s.writer, content)
}
