package scoreboard

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	player    lipgloss.Style
	leader    lipgloss.Style
	cell      lipgloss.Style
	current   lipgloss.Style
	setsWon   lipgloss.Style
	meta      lipgloss.Style
	notice    lipgloss.Style
	running   lipgloss.Style
	paused    lipgloss.Style
	completed lipgloss.Style
	section   lipgloss.Style
	empty     lipgloss.Style
	board     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		player:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		leader:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		cell:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		current:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")),
		setsWon:   lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		meta:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		notice:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		running:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		paused:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		completed: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("171")),
		section:   lipgloss.NewStyle().MarginTop(1),
		empty:     lipgloss.NewStyle().Faint(true),
		board: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1),
	}
}
