package prompt

import "github.com/charmbracelet/lipgloss"

// Styles defines the picker's visual styles
type Styles struct {
	Title        lipgloss.Style
	Cursor       lipgloss.Style
	SelectedItem lipgloss.Style
	NormalItem   lipgloss.Style
	Identifier   lipgloss.Style
	State        lipgloss.Style
	CreateOption lipgloss.Style
	Hint         lipgloss.Style
	InputPrompt  lipgloss.Style
}

// DefaultStyles returns the default style configuration
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),

		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")),

		SelectedItem: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Bold(true),

		NormalItem: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		Identifier: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),

		State: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		CreateOption: lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")),

		Hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),

		InputPrompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")),
	}
}
