// Package ui draws the picker: target outlines, chord overlays, the legend
// and the status bar.
package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/chatter/chordpick/internal/chord"
	"github.com/chatter/chordpick/internal/geom"
	"github.com/chatter/chordpick/internal/selection"
	"github.com/chatter/chordpick/internal/target"
)

// Overlay is the overlay type the terminal presenter draws.
type Overlay = selection.Overlay[string, target.Target]

// Screen maps targets from their source coordinates onto the terminal and
// draws one frame per overlay set.
type Screen struct {
	width      int
	height     int
	strategy   geom.Strategy
	textHeight int
	styles     Styles
}

// NewScreen creates a screen that sizes overlays with strategy.
func NewScreen(strategy geom.Strategy, textHeight int, styles Styles) *Screen {
	if strategy == nil {
		strategy = geom.FullSize
	}

	return &Screen{
		strategy:   strategy,
		textHeight: max(textHeight, 1),
		styles:     styles,
	}
}

// SetSize sets the area available for drawing.
func (s *Screen) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// SetStyles replaces the styles, e.g. after a config reload.
func (s *Screen) SetStyles(styles Styles) {
	s.styles = styles
}

// View renders overlays. Ruled out targets keep their outline but lose their
// overlay.
func (s *Screen) View(overlays []Overlay) string {
	if s.width <= 0 || s.height <= 0 {
		return ""
	}

	c := newCanvas(s.width, s.height)
	placed := s.Layout(overlays)

	// Selectable targets are drawn last so they win where outlines overlap.
	for i, o := range overlays {
		if !o.Selectable() {
			c.box(placed[i], paintRuledOut)
		}
	}
	for i, o := range overlays {
		if o.Selectable() {
			s.drawTarget(c, placed[i], o)
		}
	}

	return c.render(s.styles)
}

// Layout returns the terminal rectangle of every overlay's target. Each
// screen gets an equal-width column; targets are scaled from the screen's
// bounding box into it.
func (s *Screen) Layout(overlays []Overlay) []geom.Rect {
	targets := make([]target.Target, len(overlays))
	for i, o := range overlays {
		targets[i] = o.Target
	}

	screens := target.Screens(targets)
	if len(screens) == 0 {
		return nil
	}

	n := len(screens)
	columns := make(map[string]geom.Rect, n)
	bounds := make(map[string]geom.Rect, n)
	for i, name := range screens {
		// Too narrow to split: screens share the whole area.
		if s.width < n {
			columns[name] = geom.Rect{W: s.width, H: s.height}
			continue
		}
		x0, x1 := i*s.width/n, (i+1)*s.width/n
		columns[name] = geom.Rect{X: x0, Y: 0, W: x1 - x0, H: s.height}
	}
	for _, t := range targets {
		bounds[t.Screen] = bounds[t.Screen].Union(t.Rect)
	}

	placed := make([]geom.Rect, len(targets))
	for i, t := range targets {
		placed[i] = geom.Project(t.Rect, bounds[t.Screen], columns[t.Screen])
	}
	return placed
}

func (s *Screen) drawTarget(c *canvas, r geom.Rect, o Overlay) {
	if r.Empty() {
		return
	}

	c.box(r, paintBorder)
	if r.W > 4 {
		c.text(r.X+2, r.Y, r.W-4, " "+o.Target.Label()+" ", paintName)
	}

	inner := geom.Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 2, H: r.H - 2}
	if inner.Empty() {
		inner = r
	}

	box := s.strategy(s.textHeight, inner)
	if box.Empty() || !inner.Contains(box) {
		box = inner
	}

	c.fill(box, paintOverlay)
	c.centered(box, box.Y+(box.H-1)/2, ChordText(o.Remaining), paintLabel)
}

// ChordText formats a chord for display: single-character keys are run
// together ("asd"), longer key names are space separated ("f1 f2").
func ChordText(c chord.Chord[string]) string {
	for _, k := range c {
		if utf8.RuneCountInString(k) != 1 {
			return c.String()
		}
	}
	return strings.Join(c, "")
}
