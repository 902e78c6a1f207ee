package ui

import "fmt"

// ANSI256 color codes for the timer display.
const (
	colorAccent = 74  // blue, active timer digits
	colorWork   = 203 // red, pomodoro work phase
	colorBreak  = 114 // green, pomodoro breaks
	colorPaused = 250 // light gray
	colorMuted  = 245 // medium gray
)

var noColor bool

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderWork returns s styled for a pomodoro work phase.
func RenderWork(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorWork, s)
}

// RenderBreak returns s styled for a pomodoro break phase.
func RenderBreak(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorBreak, s)
}

// RenderPaused returns s styled for a paused timer (light gray).
func RenderPaused(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorPaused, s)
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
