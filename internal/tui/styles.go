package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	barFillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	barEmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	railStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	railFillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	activeMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	debugStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("49"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// labelRamp maps opacity to a foreground color, dimmest first. Index is
// floor(opacity * (len-1) + 0.5).
var labelRamp = []lipgloss.Color{"236", "240", "244", "249", "255"}

func labelStyle(opacity float64, bold bool) lipgloss.Style {
	i := int(opacity*float64(len(labelRamp)-1) + 0.5)
	if i < 0 {
		i = 0
	}
	if i >= len(labelRamp) {
		i = len(labelRamp) - 1
	}
	return lipgloss.NewStyle().Foreground(labelRamp[i]).Bold(bold)
}
