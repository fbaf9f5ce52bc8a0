// Package ui holds terminal color helpers for the CLI output.
package ui

import "fmt"

// ANSI256 color codes.
const (
	colorCritical = 203 // red
	colorWarning  = 179 // yellow
	colorMuted    = 245 // medium gray
)

var noColor bool

// RenderCritical returns s in the critical (red) color.
func RenderCritical(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorCritical, s)
}

// RenderWarning returns s in the warning (yellow) color.
func RenderWarning(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorWarning, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
