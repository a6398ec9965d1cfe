package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// styled is resolved once: styling is only applied on a terminal
var styled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

var (
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// WarnStyle styles a warning message
func WarnStyle(text string) string {
	if !styled {
		return text
	}
	return warnStyle.Render(text)
}

// ErrorStyle styles an error message
func ErrorStyle(text string) string {
	if !styled {
		return text
	}
	return errorStyle.Render(text)
}

// HintStyle styles a remediation hint
func HintStyle(text string) string {
	if !styled {
		return text
	}
	return hintStyle.Render(text)
}

// BranchStyle styles a branch name
func BranchStyle(text string) string {
	if !styled {
		return text
	}
	return branchStyle.Render(text)
}

// DimStyle styles secondary detail text
func DimStyle(text string) string {
	if !styled {
		return text
	}
	return dimStyle.Render(text)
}
