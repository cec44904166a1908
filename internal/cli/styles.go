// Package cli provides shared terminal output helpers for ntm.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Status symbols
const (
	CheckMark = "✓"
	CrossMark = "✗"
	Arrow     = "→"
)

var (
	colorGreen = lipgloss.Color("#9ece6a")
	colorRed   = lipgloss.Color("#f7768e")
	colorBlue  = lipgloss.Color("#7aa2f7")
	colorMuted = lipgloss.Color("#565f89")

	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleError   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleAccent  = lipgloss.NewStyle().Foreground(colorBlue)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleBold    = lipgloss.NewStyle().Bold(true)
)

// colorsEnabled caches whether colors should be used
var colorsEnabled *bool

// ColorsEnabled returns true if stdout is a terminal and NO_COLOR is unset.
func ColorsEnabled() bool {
	if colorsEnabled != nil {
		return *colorsEnabled
	}
	enabled := term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""
	colorsEnabled = &enabled
	return enabled
}

// ForceColors enables or disables colors regardless of terminal detection.
func ForceColors(enabled bool) {
	colorsEnabled = &enabled
}

func render(style lipgloss.Style, text string) string {
	if !ColorsEnabled() {
		return text
	}
	return style.Render(text)
}

// Bolden renders text in bold.
func Bolden(text string) string { return render(styleBold, text) }

// Accent renders text in the accent color.
func Accent(text string) string { return render(styleAccent, text) }

// Muted renders secondary text.
func Muted(text string) string { return render(styleMuted, text) }

// Successf writes a "✓ message" line.
func Successf(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, render(styleSuccess, CheckMark)+" "+fmt.Sprintf(format, args...))
}

// Errorf writes a "✗ message" line.
func Errorf(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, render(styleError, CrossMark+" "+fmt.Sprintf(format, args...)))
}

// Infof writes a "→ message" line.
func Infof(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, render(styleAccent, Arrow)+" "+fmt.Sprintf(format, args...))
}
