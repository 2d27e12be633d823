// Package picker runs one chord selection session: it pairs key groups with
// screens, assigns chords, holds the input grab and drives the engine.
package picker

import (
	"fmt"

	"github.com/chatter/chordpick/internal/chord"
	"github.com/chatter/chordpick/internal/logger"
	"github.com/chatter/chordpick/internal/selection"
	"github.com/chatter/chordpick/internal/target"
)

// Grab is exclusive access to the keyboard for the length of a session.
type Grab interface {
	Acquire() error
	Release() error
}

// Terminal is what a session needs from its input and output: the grab, a
// key source and a presenter.
type Terminal interface {
	Grab
	selection.KeySource[string]
	selection.Presenter[string, target.Target]
}

// Options configure a session.
type Options struct {
	KeyGroups      [][]string
	Keys           selection.Keys[string]
	MaxChordLength int // 0 = unlimited
}

// Result is the outcome of a session.
type Result struct {
	Target   target.Target
	Selected bool
}

// Partition pairs key groups with targets. A single group labels every
// target. With several groups, group k labels the k-th screen in order of
// first appearance; screens without a group are left out.
func Partition(groups [][]string, targets []target.Target) []chord.Group[string, target.Target] {
	switch len(groups) {
	case 0:
		return nil
	case 1:
		return []chord.Group[string, target.Target]{{Keys: groups[0], Targets: targets}}
	}

	screens := target.Screens(targets)
	index := make(map[string]int, len(screens))
	for i, s := range screens {
		index[s] = i
	}

	n := min(len(groups), len(screens))
	out := make([]chord.Group[string, target.Target], n)
	for i := range n {
		out[i].Keys = groups[i]
	}
	for _, t := range targets {
		if i := index[t.Screen]; i < n {
			out[i].Targets = append(out[i].Targets, t)
		}
	}

	return out
}

// Run selects one of targets. Overlays are disposed and the grab released on
// every path out, panics included. With nothing to select, the grab is never
// taken.
func Run(targets []target.Target, opts Options, term Terminal, log *logger.Logger) (res Result, err error) {
	groups := Partition(opts.KeyGroups, targets)
	pairs := chord.Assign(groups, opts.MaxChordLength)

	log.Info("chords assigned",
		"targets", len(targets),
		"groups", len(groups),
		"labelled", len(pairs),
		"unassigned", len(targets)-len(pairs),
	)
	for _, p := range pairs {
		log.Debug("chord", "target", p.Target.ID, "chord", p.Chord.String())
	}

	if len(pairs) == 0 {
		return Result{}, nil
	}

	if err := term.Acquire(); err != nil {
		return Result{}, fmt.Errorf("acquiring input: %w", err)
	}
	defer func() {
		if rerr := term.Release(); rerr != nil && err == nil {
			err = fmt.Errorf("releasing input: %w", rerr)
		}
	}()

	engine := selection.New(pairs, opts.Keys)
	src := &loggingSource{src: term, engine: engine, log: log}

	out, err := selection.Run(engine, src, term)
	if err != nil {
		return Result{}, err
	}

	if !out.Ok() {
		log.Info("selection cancelled", "prefix", engine.Prefix().String())
		return Result{}, nil
	}

	log.Info("target selected", "id", out.Target.ID, "name", out.Target.Name)
	return Result{Target: out.Target, Selected: true}, nil
}

// loggingSource logs every key event with the narrowing state it was read
// in.
type loggingSource struct {
	src    selection.KeySource[string]
	engine *selection.Engine[string, target.Target]
	log    *logger.Logger
}

func (s *loggingSource) NextKeyEvent() (selection.KeyEvent[string], error) {
	ev, err := s.src.NextKeyEvent()
	if err != nil {
		s.log.Debug("key source closed", "err", err)
		return ev, err
	}

	s.log.Debug("key event",
		"key", ev.Symbol,
		"press", ev.Press,
		"prefix", s.engine.Prefix().String(),
		"candidates", s.engine.Candidates(),
	)
	return ev, nil
}
