// Package geom holds target geometry and the strategies that size an overlay
// inside its target.
package geom

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// ErrUnknownStrategy is returned by Lookup for a name it does not know.
var ErrUnknownStrategy = errors.New("unknown overlay strategy")

// Rect is an axis-aligned rectangle. W and H are sizes, not end points.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether o lies fully inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

// Union returns the smallest rectangle covering both. An empty operand is
// ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}

	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)

	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Centered returns a w×h rectangle centred in r, clamped to r.
func (r Rect) Centered(w, h int) Rect {
	w = clamp(w, 1, r.W)
	h = clamp(h, 1, r.H)

	return Rect{X: r.X + (r.W-w)/2, Y: r.Y + (r.H-h)/2, W: w, H: h}
}

// Project maps r from the src coordinate space onto dst, scaling each axis
// independently. Results are at least 1×1 and stay inside dst.
func Project(r, src, dst Rect) Rect {
	if src.Empty() || dst.Empty() {
		return Rect{}
	}

	sx := float64(dst.W) / float64(src.W)
	sy := float64(dst.H) / float64(src.H)

	x0 := dst.X + int(math.Floor(float64(r.X-src.X)*sx))
	y0 := dst.Y + int(math.Floor(float64(r.Y-src.Y)*sy))
	x1 := dst.X + int(math.Floor(float64(r.X+r.W-src.X)*sx))
	y1 := dst.Y + int(math.Floor(float64(r.Y+r.H-src.Y)*sy))

	x0 = clamp(x0, dst.X, dst.X+dst.W-1)
	y0 = clamp(y0, dst.Y, dst.Y+dst.H-1)
	x1 = clamp(x1, x0+1, dst.X+dst.W)
	y1 = clamp(y1, y0+1, dst.Y+dst.H)

	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

// Strategy computes the overlay rectangle for a target from the height of one
// line of label text and the target's rectangle. The result lies inside the
// target.
type Strategy func(textHeight int, target Rect) Rect

// FullSize covers the whole target.
func FullSize(_ int, target Rect) Rect {
	return target
}

// Proportional returns a strategy that centres a box scaled by f on each
// axis, never shorter than one line of text.
func Proportional(f float64) Strategy {
	f = normalize(f)

	return func(textHeight int, target Rect) Rect {
		w := int(math.Round(float64(target.W) * f))
		h := max(int(math.Round(float64(target.H)*f)), textHeight)
		return target.Centered(w, h)
	}
}

// FixedTextSize centres a box one text line tall and wide enough for a short
// label, independent of the target's size.
func FixedTextSize(textHeight int, target Rect) Rect {
	h := max(textHeight, 1)
	return target.Centered(h*fixedAspect, h)
}

// fixedAspect is the width/height ratio of a FixedTextSize box in cells.
const fixedAspect = 8

// ProportionalBar returns a strategy that draws a full-width bar through the
// target's middle, f of its height tall and at least one text line.
func ProportionalBar(f float64) Strategy {
	f = normalize(f)

	return func(textHeight int, target Rect) Rect {
		h := max(int(math.Round(float64(target.H)*f)), textHeight)
		return target.Centered(target.W, h)
	}
}

func normalize(f float64) float64 {
	if f <= 0 || f > 1 || math.IsNaN(f) {
		return 1
	}
	return f
}

// Strategy names accepted by Lookup.
const (
	NameFull         = "full"
	NameProportional = "proportional"
	NameFixed        = "fixed"
	NameBar          = "bar"
)

// Names lists the built-in strategy names.
func Names() []string {
	return []string{NameFull, NameProportional, NameFixed, NameBar}
}

// Lookup returns the built-in strategy with the given name. scale is used by
// the proportional strategies.
func Lookup(name string, scale float64) (Strategy, error) {
	switch strings.ToLower(name) {
	case NameFull:
		return FullSize, nil
	case NameProportional:
		return Proportional(scale), nil
	case NameFixed:
		return FixedTextSize, nil
	case NameBar:
		return ProportionalBar(scale), nil
	}

	return nil, fmt.Errorf("%w: %q (use %s)", ErrUnknownStrategy, name, strings.Join(Names(), ", "))
}

// Known reports whether name is a built-in strategy.
func Known(name string) bool {
	return slices.Contains(Names(), strings.ToLower(name))
}
