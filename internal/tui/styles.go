package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the reserve screens.
type Styles struct {
	Title    lipgloss.Style
	Body     lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Metric   lipgloss.Style
	Hint     lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
}

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#1B5E20", Dark: "#81C784"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"}
	colorError   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF9A9A"}
)

// DefaultStyles returns the styles for the current terminal background.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).MarginBottom(1),
		Body:     lipgloss.NewStyle().Width(60),
		Cell:     lipgloss.NewStyle().Foreground(colorMuted),
		Selected: lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),
		Cursor:   lipgloss.NewStyle().Reverse(true),
		Metric:   lipgloss.NewStyle().Bold(true),
		Hint:     lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
		Success:  lipgloss.NewStyle().Foreground(colorPrimary),
		Error:    lipgloss.NewStyle().Foreground(colorError),
	}
}
