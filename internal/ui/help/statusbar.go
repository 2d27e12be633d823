package help

import (
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
)

// StatusBar renders one line: key hints, a status message and a
// right-aligned version.
type StatusBar struct {
	width    int
	version  string
	status   string
	bindings []HelpBinding

	// Styles
	keyStyle    lipgloss.Style
	descStyle   lipgloss.Style
	sepStyle    lipgloss.Style
	statusStyle lipgloss.Style
}

// NewStatusBar creates a new status bar that displays the given version string.
func NewStatusBar(version string) *StatusBar {
	return &StatusBar{
		version:     version,
		keyStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#999999")),
		descStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#777777")),
		sepStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")),
		statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#bbbbbb")),
	}
}

// SetWidth sets the available width for rendering.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetBindings sets the key hints. Disabled bindings are skipped.
func (s *StatusBar) SetBindings(bindings []HelpBinding) {
	s.bindings = slices.Clone(bindings)
	slices.SortStableFunc(s.bindings, func(a, b HelpBinding) int {
		return a.Order - b.Order
	})
}

// SetStatus sets the message shown after the key hints.
func (s *StatusBar) SetStatus(status string) {
	s.status = status
}

// View renders the status bar.
func (s *StatusBar) View() string {
	if s.width <= 0 {
		return ""
	}

	sep := s.sepStyle.Render(" • ")

	type hint struct {
		text   string
		pinned bool
	}

	var hints []hint
	for _, hb := range s.bindings {
		if !hb.Binding.Enabled() {
			continue
		}
		h := hb.Binding.Help()
		hints = append(hints, hint{
			text:   s.keyStyle.Render(h.Key) + " " + s.descStyle.Render(h.Desc),
			pinned: hb.Pinned,
		})
	}

	status := ""
	if s.status != "" {
		status = s.statusStyle.Render(s.status)
	}

	const minGap = 1

	versionWidth := lipgloss.Width(s.version)
	for {
		texts := make([]string, len(hints))
		for i, h := range hints {
			texts[i] = h.text
		}

		left := joinNonEmpty(sep, texts, status)
		leftWidth := lipgloss.Width(left)

		if leftWidth+minGap+versionWidth <= s.width {
			return left + strings.Repeat(" ", s.width-leftWidth-versionWidth) + s.version
		}

		// Drop the lowest priority unpinned hint and retry.
		drop := -1
		for i := len(hints) - 1; i >= 0; i-- {
			if !hints[i].pinned {
				drop = i
				break
			}
		}
		if drop >= 0 {
			hints = slices.Delete(hints, drop, drop+1)
			continue
		}

		// Only pinned hints are left and they still don't fit.
		if versionWidth > s.width {
			return lipgloss.NewStyle().MaxWidth(s.width).Render(s.version)
		}

		clipped := ""
		if room := s.width - versionWidth - minGap; room > 0 {
			clipped = lipgloss.NewStyle().MaxWidth(room).Render(left)
		}
		return clipped + strings.Repeat(" ", s.width-lipgloss.Width(clipped)-versionWidth) + s.version
	}
}

func joinNonEmpty(sep string, hints []string, status string) string {
	line := strings.Join(hints, sep)
	switch {
	case line == "":
		return status
	case status == "":
		return line
	default:
		return line + sep + status
	}
}
