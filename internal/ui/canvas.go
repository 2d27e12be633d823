package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/chatter/chordpick/internal/geom"
)

// paint selects the style a cell is rendered with.
type paint int

const (
	paintNone paint = iota
	paintBorder
	paintRuledOut
	paintName
	paintOverlay
	paintLabel
)

type cell struct {
	r     rune // 0 marks the right half of a wide rune
	paint paint
}

// canvas is a fixed-size grid of cells, rendered row by row with one style
// call per run of equally painted cells.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	w, h = max(w, 0), max(h, 0)
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, p paint) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.split(x, y)
	c.cells[y*c.w+x] = cell{r: r, paint: p}
}

// setWide writes a double-width rune at x and its placeholder at x+1. A wide
// rune that would cross the right edge is written as a space.
func (c *canvas) setWide(x, y int, r rune, p paint) {
	if x < 0 || x+1 >= c.w {
		c.set(x, y, ' ', p)
		return
	}
	c.set(x, y, r, p)
	c.set(x+1, y, 0, p)
}

// split blanks the other half of a wide rune covering (x, y), so overwriting
// one half never leaves an orphan.
func (c *canvas) split(x, y int) {
	i := y*c.w + x
	if c.cells[i].r == 0 && x > 0 {
		c.cells[i-1].r = ' '
	}
	if x+1 < c.w && c.cells[i+1].r == 0 {
		c.cells[i+1].r = ' '
	}
}

func (c *canvas) at(x, y int) cell {
	return c.cells[y*c.w+x]
}

// fill paints every cell of r with spaces.
func (c *canvas) fill(r geom.Rect, p paint) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			c.set(x, y, ' ', p)
		}
	}
}

// box outlines r. Rectangles too small for an outline are filled instead.
func (c *canvas) box(r geom.Rect, p paint) {
	if r.W < 2 || r.H < 2 {
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				c.set(x, y, '·', p)
			}
		}
		return
	}

	x1, y1 := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < x1; x++ {
		c.set(x, r.Y, '─', p)
		c.set(x, y1, '─', p)
	}
	for y := r.Y + 1; y < y1; y++ {
		c.set(r.X, y, '│', p)
		c.set(x1, y, '│', p)
	}
	c.set(r.X, r.Y, '┌', p)
	c.set(x1, r.Y, '┐', p)
	c.set(r.X, y1, '└', p)
	c.set(x1, y1, '┘', p)
}

// text writes s starting at (x, y), clipped to maxWidth cells. It returns the
// number of cells written.
func (c *canvas) text(x, y, maxWidth int, s string, p paint) int {
	if maxWidth <= 0 {
		return 0
	}

	s = runewidth.Truncate(s, maxWidth, "…")

	written := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if rw == 2 {
			c.setWide(x+written, y, r, p)
		} else {
			c.set(x+written, y, r, p)
		}
		written += rw
	}
	return written
}

// centered writes s centred on row y of r.
func (c *canvas) centered(r geom.Rect, y int, s string, p paint) {
	width := min(runewidth.StringWidth(s), r.W)
	c.text(r.X+(r.W-width)/2, y, r.W, s, p)
}

// render turns the grid into styled lines joined by newlines.
func (c *canvas) render(styles Styles) string {
	var (
		sb  strings.Builder
		run strings.Builder
	)

	flush := func(p paint) {
		if run.Len() == 0 {
			return
		}
		if style, ok := styles.forPaint(p); ok {
			sb.WriteString(style.Render(run.String()))
		} else {
			sb.WriteString(run.String())
		}
		run.Reset()
	}

	for y := range c.h {
		if y > 0 {
			sb.WriteByte('\n')
		}

		current := paintNone
		for x := range c.w {
			cl := c.at(x, y)
			if cl.r == 0 {
				continue
			}
			if cl.paint != current {
				flush(current)
				current = cl.paint
			}
			run.WriteRune(cl.r)
		}
		flush(current)
	}

	return sb.String()
}

// forPaint returns the style for p, or false for unstyled cells.
func (s Styles) forPaint(p paint) (lipgloss.Style, bool) {
	switch p {
	case paintBorder:
		return s.Border, true
	case paintRuledOut:
		return s.RuledOut, true
	case paintName:
		return s.Name, true
	case paintOverlay:
		return s.Overlay, true
	case paintLabel:
		return s.Label, true
	default:
		return lipgloss.Style{}, false
	}
}
