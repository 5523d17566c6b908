package ui

import "github.com/charmbracelet/lipgloss"

// Color palette using ANSI color codes for terminal compatibility.

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// SpinnerColors is the cycle of colors the spinner animates through.
var SpinnerColors = []lipgloss.Color{ColorInfo, ColorSecondary, ColorInfo, ColorPrimary}

// Styled helpers for one-off status lines.
var (
	successStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	warnStyle    = lipgloss.NewStyle().Foreground(ColorWarning)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// Pass renders a green success marker with a message.
func Pass(msg string) string {
	return successStyle.Render(SymbolSuccess) + " " + msg
}

// Fail renders a red failure marker with a message.
func Fail(msg string) string {
	return errorStyle.Render(SymbolFail) + " " + msg
}

// Warn renders a yellow pending marker with a message.
func Warn(msg string) string {
	return warnStyle.Render(SymbolPending) + " " + msg
}

// Muted renders dimmed detail text.
func Muted(msg string) string {
	return mutedStyle.Render(msg)
}
