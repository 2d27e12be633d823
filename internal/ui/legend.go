package ui

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// Legend renders a panel listing every selectable target next to the part
// of its chord still to type.
type Legend struct {
	height int
	styles Styles
}

// NewLegend creates a legend panel.
func NewLegend(styles Styles) *Legend {
	return &Legend{styles: styles}
}

// SetHeight sets the available height for the panel.
func (l *Legend) SetHeight(height int) {
	l.height = height
}

// SetStyles replaces the styles.
func (l *Legend) SetStyles(styles Styles) {
	l.styles = styles
}

// Width returns the panel width for overlays, capped at maxWidth.
func (l *Legend) Width(overlays []Overlay, maxWidth int) int {
	chordWidth, labelWidth := l.columns(overlays)
	frame := l.styles.LegendBorder.GetHorizontalFrameSize()

	// Title and footer need room too.
	content := max(chordWidth+2+labelWidth, runewidth.StringWidth("Targets"), runewidth.StringWidth("no matches"))
	return min(content+frame, maxWidth)
}

func (l *Legend) columns(overlays []Overlay) (chordWidth, labelWidth int) {
	for _, o := range overlays {
		if !o.Selectable() {
			continue
		}
		chordWidth = max(chordWidth, runewidth.StringWidth(ChordText(o.Remaining)))
		labelWidth = max(labelWidth, runewidth.StringWidth(o.Target.Label()))
	}
	return chordWidth, labelWidth
}

// View renders the panel at the given total width.
func (l *Legend) View(overlays []Overlay, width int) string {
	if width <= 0 || l.height <= 0 {
		return ""
	}

	frameWidth := l.styles.LegendBorder.GetHorizontalFrameSize()
	frameHeight := l.styles.LegendBorder.GetVerticalFrameSize()

	innerWidth := width - frameWidth
	innerHeight := l.height - frameHeight

	if innerWidth < 4 || innerHeight < 2 {
		return ""
	}

	chordWidth, _ := l.columns(overlays)
	chordWidth = min(chordWidth, innerWidth/2)
	labelWidth := innerWidth - chordWidth - 2

	chordStyle := l.styles.LegendChord.Width(chordWidth + 2)

	var lines []string
	for _, o := range overlays {
		if !o.Selectable() {
			continue
		}
		chord := runewidth.Truncate(ChordText(o.Remaining), chordWidth, "…")
		line := chordStyle.Render(chord)
		if labelWidth > 0 {
			line += l.styles.LegendText.Render(runewidth.Truncate(o.Target.Label(), labelWidth, "…"))
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		lines = append(lines, l.styles.Dim.Render("no matches"))
	}

	// Title line plus entries
	if len(lines) > innerHeight-1 {
		hidden := len(lines) - (innerHeight - 2)
		lines = append(lines[:max(innerHeight-2, 0)], l.styles.Dim.Render(moreText(hidden)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{l.styles.LegendTitle.Render("Targets")}, lines...)...)

	content = lipgloss.NewStyle().MaxWidth(innerWidth).Render(content)
	inner := lipgloss.Place(innerWidth, innerHeight, lipgloss.Left, lipgloss.Top, content)

	return l.styles.LegendBorder.Render(inner)
}

func moreText(n int) string {
	return fmt.Sprintf("+%d more", n)
}
