package app

import "github.com/charmbracelet/lipgloss"

// styles for the end-of-run summary
type styles struct {
	ok         lipgloss.Style
	identifier lipgloss.Style
	label      lipgloss.Style
	hint       lipgloss.Style
}

func summaryStyles() styles {
	return styles{
		ok: lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")).
			Bold(true),

		identifier: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),

		label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}
