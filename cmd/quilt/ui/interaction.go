package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const (
	envNoColor = "NO_COLOR"
	envCI      = "CI"
)

// Configure sets the lipgloss color profile for the session. Output is
// plain ASCII when stdout is not a terminal, in CI, or when NO_COLOR is
// set.
func Configure() {
	if colorAllowed() {
		lipgloss.SetColorProfile(termenv.ColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

func colorAllowed() bool {
	if os.Getenv(envNoColor) != "" || os.Getenv(envCI) != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
