package app

import (
	"github.com/charmbracelet/lipgloss"
)

// Mode strip cells alternate between two backgrounds; the current mode
// is underlined and tinted, matching the original selector layout.
var (
	stripEven = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("0")).
			Padding(0, 1)

	stripOdd = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("8")).
			Padding(0, 1)

	stripCurrent = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Underline(true).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"}).
			Bold(true)

	mutedText = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
)

// focusedBorder returns a style with an accent-colored rounded border.
func focusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
}

// unfocusedBorder returns a style with a dim rounded border.
func unfocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"})
}

// modeStrip renders every mode label, highlighting the current one.
func modeStrip(current Mode) string {
	cells := make([]string, 0, int(modeCount))
	for i, mode := range Modes() {
		style := stripEven
		if i%2 == 1 {
			style = stripOdd
		}
		if mode == current {
			style = stripCurrent.Background(style.GetBackground())
		}
		cells = append(cells, style.Render(mode.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
