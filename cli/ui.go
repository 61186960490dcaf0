package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan  = lipgloss.Color("36")  // teal, primary actions
	colorGreen = lipgloss.Color("35")  // success
	colorRed   = lipgloss.Color("167") // errors
	colorWhite = lipgloss.Color("255") // values
	colorDim   = lipgloss.Color("240") // muted text
)

var (
	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim         = lipgloss.NewStyle().Foreground(colorDim)
	styleNumber      = lipgloss.NewStyle().Foreground(colorCyan)
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconArrow   = "→"
)

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + styleDim.Render(iconArrow) + " " + styleValue.Render(path))
}

// printStats prints routing statistics on a single line.
func printStats(boxes, connectors int) {
	fmt.Println("  " + styleDim.Render(
		styleNumber.Render(fmt.Sprintf("%d", boxes))+" boxes · "+
			styleNumber.Render(fmt.Sprintf("%d", connectors))+" connectors"))
}
