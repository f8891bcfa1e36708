package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	accentColor = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	mutedColor  = lipgloss.AdaptiveColor{Light: "#7D7D7D", Dark: "#A0A0A0"}

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	sumStyle    = cellStyle.Foreground(accentColor)
	borderStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

// newTable returns a bordered table whose last row is highlighted when
// highlightLast is set.
func newTable(headers []string, rows [][]string, highlightLast bool) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case highlightLast && row == len(rows)-1:
				return sumStyle
			default:
				return cellStyle
			}
		})
}
