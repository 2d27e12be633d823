// Package selection narrows a set of chord-labelled targets one key press at
// a time until a single target is picked or the user cancels.
package selection

import (
	"github.com/chatter/chordpick/internal/chord"
)

// Outcome is the result of handling one key event.
type Outcome int

const (
	Continue Outcome = iota // keep reading events
	Selected                // a single target matched
	Exit                    // the cancel key was pressed
)

func (o Outcome) String() string {
	switch o {
	case Selected:
		return "selected"
	case Exit:
		return "exit"
	default:
		return "continue"
	}
}

// KeyEvent is one key transition read from the input source.
type KeyEvent[K comparable] struct {
	Symbol K
	Press  bool // false for key release
}

// Press returns a key-press event for symbol.
func Press[K comparable](symbol K) KeyEvent[K] {
	return KeyEvent[K]{Symbol: symbol, Press: true}
}

// Overlay is the working record for one target: the part of its chord that
// has not been typed yet. An empty Remaining means the target was ruled out.
type Overlay[K comparable, T any] struct {
	Target    T
	Remaining chord.Chord[K]
}

// Selectable reports whether the target can still be picked.
func (o Overlay[K, T]) Selectable() bool {
	return len(o.Remaining) > 0
}

// Keys holds the control keys of a session.
type Keys[K comparable] struct {
	Cancel       K
	Backspace    K
	HasBackspace bool
}

// Engine is the matching state machine. It is not safe for concurrent use.
type Engine[K comparable, T any] struct {
	overlays []Overlay[K, T]
	keys     Keys[K]
	typed    chord.Chord[K]
}

// New creates an engine over the given assignments. Chords are copied, so
// narrowing never writes through to pairs.
func New[K comparable, T any](pairs []chord.Pair[K, T], keys Keys[K]) *Engine[K, T] {
	overlays := make([]Overlay[K, T], len(pairs))
	for i, p := range pairs {
		overlays[i] = Overlay[K, T]{
			Target:    p.Target,
			Remaining: append(chord.Chord[K](nil), p.Chord...),
		}
	}

	return &Engine[K, T]{overlays: overlays, keys: keys}
}

// Len returns the number of overlays, ruled out ones included.
func (e *Engine[K, T]) Len() int {
	return len(e.overlays)
}

// Candidates returns how many targets are still selectable.
func (e *Engine[K, T]) Candidates() int {
	n := 0
	for _, o := range e.overlays {
		if o.Selectable() {
			n++
		}
	}
	return n
}

// Prefix returns the keys that narrowed the set so far.
func (e *Engine[K, T]) Prefix() chord.Chord[K] {
	return append(chord.Chord[K](nil), e.typed...)
}

// Overlays returns a copy of the current overlay set.
func (e *Engine[K, T]) Overlays() []Overlay[K, T] {
	out := make([]Overlay[K, T], len(e.overlays))
	for i, o := range e.overlays {
		out[i] = Overlay[K, T]{
			Target:    o.Target,
			Remaining: append(chord.Chord[K](nil), o.Remaining...),
		}
	}
	return out
}

// Handle processes one key event. The returned target is only meaningful
// when the outcome is Selected.
//
// Backspace leaves the overlays untouched: typed keys are not restored.
func (e *Engine[K, T]) Handle(ev KeyEvent[K]) (Outcome, T) {
	var zero T

	if !ev.Press {
		return Continue, zero
	}

	if ev.Symbol == e.keys.Cancel {
		return Exit, zero
	}

	if e.keys.HasBackspace && ev.Symbol == e.keys.Backspace {
		return Continue, zero
	}

	matched, last := 0, -1
	for i, o := range e.overlays {
		if leads(o, ev.Symbol) {
			matched++
			last = i
		}
	}

	switch matched {
	case 0:
		return Continue, zero
	case 1:
		return Selected, e.overlays[last].Target
	}

	for i := range e.overlays {
		o := &e.overlays[i]
		if leads(*o, ev.Symbol) {
			o.Remaining = o.Remaining[1:]
		} else {
			o.Remaining = nil
		}
	}
	e.typed = append(e.typed, ev.Symbol)

	return Continue, zero
}

func leads[K comparable, T any](o Overlay[K, T], symbol K) bool {
	return len(o.Remaining) > 0 && o.Remaining[0] == symbol
}
