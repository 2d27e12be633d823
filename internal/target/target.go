// Package target describes the things a user can pick and where they come
// from.
package target

import (
	"github.com/chatter/chordpick/internal/geom"
)

// Target is one selectable item on screen.
type Target struct {
	ID     string    // Source-specific handle (e.g. tmux pane id "%3")
	Name   string    // Short name, used by exclude patterns (e.g. "vim")
	Title  string    // Longer description shown in the legend
	Screen string    // Partition the target belongs to (e.g. tmux window "@1")
	Rect   geom.Rect // Geometry in the source's coordinate space
}

// Label returns the text shown next to the target's chord.
func (t Target) Label() string {
	switch {
	case t.Title != "" && t.Name != "" && t.Title != t.Name:
		return t.Name + ": " + t.Title
	case t.Name != "":
		return t.Name
	case t.Title != "":
		return t.Title
	default:
		return t.ID
	}
}

// Path returns the components exclude patterns are matched against:
// screen first, then name.
func (t Target) Path() []string {
	screen := t.Screen
	if screen == "" {
		screen = "_"
	}

	name := t.Name
	if name == "" {
		name = t.ID
	}

	return []string{screen, name}
}

// Source enumerates targets and brings the chosen one into focus.
type Source interface {
	// Name identifies the source in logs (e.g. "tmux", "json").
	Name() string

	// Targets returns the current targets in display order.
	Targets() ([]Target, error)

	// Focus activates the chosen target.
	Focus(t Target) error
}

// Bounds returns the rectangle covering every target.
func Bounds(targets []Target) geom.Rect {
	var r geom.Rect
	for _, t := range targets {
		r = r.Union(t.Rect)
	}
	return r
}

// Screens returns the distinct screens in order of first appearance.
func Screens(targets []Target) []string {
	var screens []string
	seen := make(map[string]bool)
	for _, t := range targets {
		if !seen[t.Screen] {
			seen[t.Screen] = true
			screens = append(screens, t.Screen)
		}
	}
	return screens
}
