package cli

import "github.com/charmbracelet/lipgloss"

// Terminal styles shared across commands.
var (
	headingStyle = lipgloss.NewStyle().Bold(true)

	answerStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.AdaptiveColor{Light: "235", Dark: "252"})

	citationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "242", Dark: "245"})

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"})

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"})
)
