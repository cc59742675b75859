package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Colors
var (
	colorSuccess = lipgloss.Color("2") // Green
	colorDanger  = lipgloss.Color("1") // Red
	colorSpinner = lipgloss.Color("4") // Blue
)

// Styles
var (
	spinnerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSpinner)

	statusStyle = lipgloss.NewStyle().
			Bold(true)

	headingStyle = lipgloss.NewStyle().
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess)

	failureStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorDanger)
)

// DisableColor forces plain output regardless of terminal detection.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Heading styles a section header for the end-of-run summary.
func Heading(s string) string { return headingStyle.Render(s) }

// Success styles the all-good summary line.
func Success(s string) string { return successStyle.Render(s) }

// Failure styles the summary line for a non-zero exit.
func Failure(s string) string { return failureStyle.Render(s) }
