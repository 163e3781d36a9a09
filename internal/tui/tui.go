// Package tui hosts the interactive terminal surfaces: the history browser,
// input prompts, and the operation spinner. Every entry point degrades to an
// error or a plain fallback when no usable terminal is attached.
package tui

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
)

// ErrInteractiveDisabled is returned when prompts are suppressed via
// GITBRIDGE_NO_INTERACTIVE.
var ErrInteractiveDisabled = errors.New("interactive prompts are disabled (GITBRIDGE_NO_INTERACTIVE is set)")

func interactiveAllowed() error {
	if os.Getenv("GITBRIDGE_NO_INTERACTIVE") != "" {
		return ErrInteractiveDisabled
	}
	return nil
}

// IsTTY reports whether stdin and stdout are attached to a usable terminal.
func IsTTY() bool {
	if !((isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))) {
		return false
	}
	// The fd checks can pass inside environments that still have no
	// controlling terminal; opening it settles the question.
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
