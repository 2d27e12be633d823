package ui

import (
	"charm.land/lipgloss/v2"

	"github.com/chatter/chordpick/internal/config"
)

// Styles for the picker screen
type Styles struct {
	// Overlay box and the chord drawn inside it
	Overlay lipgloss.Style
	Label   lipgloss.Style

	// Target outlines
	Border   lipgloss.Style
	RuledOut lipgloss.Style

	// Target name on the top border
	Name lipgloss.Style

	// Legend panel
	LegendBorder lipgloss.Style
	LegendTitle  lipgloss.Style
	LegendChord  lipgloss.Style
	LegendText   lipgloss.Style
	Dim          lipgloss.Style
}

// NewStyles builds the styles from configured colors.
func NewStyles(c config.Colors) Styles {
	overlay := lipgloss.Color(c.Overlay)
	label := lipgloss.Color(c.Label)
	border := lipgloss.Color(c.Border)
	ruledOut := lipgloss.Color(c.RuledOut)

	return Styles{
		Overlay: lipgloss.NewStyle().
			Background(overlay),
		Label: lipgloss.NewStyle().
			Bold(true).
			Foreground(label).
			Background(overlay),

		Border: lipgloss.NewStyle().
			Foreground(border),
		RuledOut: lipgloss.NewStyle().
			Foreground(ruledOut),

		Name: lipgloss.NewStyle().
			Foreground(border),

		LegendBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(overlay).
			Padding(0, 1),
		LegendTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(overlay),
		LegendChord: lipgloss.NewStyle().
			Bold(true).
			Foreground(overlay),
		LegendText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}
