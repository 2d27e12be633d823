package selection

import (
	"fmt"
)

// KeySource blocks until the next key event is available.
type KeySource[K comparable] interface {
	NextKeyEvent() (KeyEvent[K], error)
}

// Presenter draws the overlay set. Render is called before every event is
// read; Dispose once when the session ends. Neither may keep or modify the
// slice past the call.
type Presenter[K comparable, T any] interface {
	Render(overlays []Overlay[K, T])
	Dispose(overlays []Overlay[K, T])
}

// Result is the terminal state of a session.
type Result[T any] struct {
	Outcome Outcome
	Target  T
}

// Ok reports whether a target was picked.
func (r Result[T]) Ok() bool {
	return r.Outcome == Selected
}

// Run drives the engine until a target is selected, the cancel key is
// pressed, or the source fails. An engine with no overlays returns Exit
// without rendering or reading input.
func Run[K comparable, T any](e *Engine[K, T], src KeySource[K], p Presenter[K, T]) (Result[T], error) {
	if e.Len() == 0 {
		return Result[T]{Outcome: Exit}, nil
	}

	defer func() { p.Dispose(e.Overlays()) }()

	for {
		p.Render(e.Overlays())

		ev, err := src.NextKeyEvent()
		if err != nil {
			return Result[T]{Outcome: Exit}, fmt.Errorf("reading key event: %w", err)
		}

		switch outcome, target := e.Handle(ev); outcome {
		case Selected:
			return Result[T]{Outcome: Selected, Target: target}, nil
		case Exit:
			return Result[T]{Outcome: Exit}, nil
		}
	}
}
