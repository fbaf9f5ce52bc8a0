package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ColorEnabled reports whether ANSI colors should be written to f.
// Environment overrides win over TTY detection: a non-empty NO_COLOR
// disables color (https://no-color.org), CLICOLOR_FORCE=1 forces it on,
// CLICOLOR=0 forces it off.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
