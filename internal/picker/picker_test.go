package picker

import (
	"errors"
	"io"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/chatter/chordpick/internal/chord"
	"github.com/chatter/chordpick/internal/geom"
	"github.com/chatter/chordpick/internal/logger"
	"github.com/chatter/chordpick/internal/selection"
	"github.com/chatter/chordpick/internal/target"
	"github.com/chatter/chordpick/internal/testgen"
)

// fakeTerminal replays key presses and counts resource calls.
type fakeTerminal struct {
	keys       []string
	acquireErr error
	panicOn    int // panic on this render (1-based), 0 = never

	acquired, released int
	renders, disposed  int
	lastFrame          []selection.Overlay[string, target.Target]
}

func (f *fakeTerminal) Acquire() error {
	f.acquired++
	return f.acquireErr
}

func (f *fakeTerminal) Release() error {
	f.released++
	return nil
}

func (f *fakeTerminal) NextKeyEvent() (selection.KeyEvent[string], error) {
	if len(f.keys) == 0 {
		return selection.KeyEvent[string]{}, io.EOF
	}
	k := f.keys[0]
	f.keys = f.keys[1:]
	return selection.Press(k), nil
}

func (f *fakeTerminal) Render(overlays []selection.Overlay[string, target.Target]) {
	f.renders++
	f.lastFrame = overlays
	if f.renders == f.panicOn {
		panic("render failed")
	}
}

func (f *fakeTerminal) Dispose([]selection.Overlay[string, target.Target]) {
	f.disposed++
}

func (f *fakeTerminal) checkBalanced(t *testing.T) {
	t.Helper()
	if f.acquired != 1 || f.released != 1 {
		t.Errorf("acquired %d, released %d; want 1 each", f.acquired, f.released)
	}
	if f.disposed != 1 {
		t.Errorf("disposed %d times, want 1", f.disposed)
	}
}

func panes(screens ...string) []target.Target {
	out := make([]target.Target, len(screens))
	for i, s := range screens {
		out[i] = target.Target{
			ID:     string(rune('A' + i)),
			Screen: s,
			Rect:   geom.Rect{X: i * 10, W: 10, H: 10},
		}
	}
	return out
}

var defaultKeys = selection.Keys[string]{Cancel: "esc", Backspace: "backspace", HasBackspace: true}

// =============================================================================
// Unit Tests
// =============================================================================

func TestPartition_SingleGroupTakesAll(t *testing.T) {
	targets := panes("w1", "w2", "w1")
	groups := Partition([][]string{{"a", "s"}}, targets)

	if len(groups) != 1 || len(groups[0].Targets) != 3 {
		t.Fatalf("expected one group with every target, got %+v", groups)
	}
}

func TestPartition_GroupPerScreen(t *testing.T) {
	targets := panes("w2", "w1", "w2", "w3")
	groups := Partition([][]string{{"a", "s"}, {"j", "k"}}, targets)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	// w2 appears first, so it gets the first group.
	if ids(groups[0].Targets) != "AC" || groups[0].Keys[0] != "a" {
		t.Errorf("first group = %q with %v", ids(groups[0].Targets), groups[0].Keys)
	}
	if ids(groups[1].Targets) != "B" || groups[1].Keys[0] != "j" {
		t.Errorf("second group = %q with %v", ids(groups[1].Targets), groups[1].Keys)
	}
}

func TestPartition_MoreGroupsThanScreens(t *testing.T) {
	groups := Partition([][]string{{"a", "s"}, {"j", "k"}, {"u", "i"}}, panes("w1"))

	if len(groups) != 1 || len(groups[0].Targets) != 1 {
		t.Errorf("unused groups should be dropped, got %+v", groups)
	}
}

func TestPartition_NoGroups(t *testing.T) {
	if groups := Partition(nil, panes("w1")); groups != nil {
		t.Errorf("expected nil, got %+v", groups)
	}
}

func ids(targets []target.Target) string {
	s := ""
	for _, t := range targets {
		s += t.ID
	}
	return s
}

func TestRun_Selects(t *testing.T) {
	term := &fakeTerminal{keys: []string{"s", "a"}}
	opts := Options{KeyGroups: [][]string{{"a", "s"}}, Keys: defaultKeys}

	// Three targets over two keys: aa, as, sa.
	res, err := Run(panes("w", "w", "w"), opts, term, logger.Discard())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !res.Selected || res.Target.ID != "C" {
		t.Errorf("expected target C, got %+v", res)
	}
	term.checkBalanced(t)
}

func TestRun_Cancel(t *testing.T) {
	term := &fakeTerminal{keys: []string{"a", "esc"}}
	opts := Options{KeyGroups: [][]string{{"a", "s"}}, Keys: defaultKeys}

	res, err := Run(panes("w", "w", "w"), opts, term, logger.Discard())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Selected {
		t.Errorf("cancel should not select, got %+v", res)
	}
	term.checkBalanced(t)
}

func TestRun_NothingSelectableSkipsGrab(t *testing.T) {
	tests := []struct {
		name    string
		targets []target.Target
		groups  [][]string
	}{
		{"no targets", nil, [][]string{{"a", "s"}}},
		{"no groups", panes("w"), nil},
		{"empty key group", panes("w"), [][]string{{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := &fakeTerminal{}
			res, err := Run(tt.targets, Options{KeyGroups: tt.groups, Keys: defaultKeys}, term, logger.Discard())
			if err != nil || res.Selected {
				t.Fatalf("expected no selection, got %+v, %v", res, err)
			}
			if term.acquired != 0 || term.renders != 0 || term.disposed != 0 {
				t.Errorf("nothing to select should not touch the terminal: %+v", term)
			}
		})
	}
}

func TestRun_AcquireFails(t *testing.T) {
	term := &fakeTerminal{acquireErr: errors.New("no tty")}
	opts := Options{KeyGroups: [][]string{{"a", "s"}}, Keys: defaultKeys}

	_, err := Run(panes("w"), opts, term, logger.Discard())
	if err == nil {
		t.Fatal("expected acquire error")
	}
	if term.released != 0 || term.renders != 0 {
		t.Error("a failed grab should not be released or drawn on")
	}
}

func TestRun_SourceErrorReleases(t *testing.T) {
	term := &fakeTerminal{keys: []string{"a"}}
	opts := Options{KeyGroups: [][]string{{"a", "s"}}, Keys: defaultKeys}

	res, err := Run(panes("w", "w", "w"), opts, term, logger.Discard())
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
	if res.Selected {
		t.Error("source error should not select")
	}
	term.checkBalanced(t)
}

func TestRun_PanicReleases(t *testing.T) {
	term := &fakeTerminal{keys: []string{"a"}, panicOn: 2}
	opts := Options{KeyGroups: [][]string{{"a", "s"}}, Keys: defaultKeys}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		Run(panes("w", "w", "w"), opts, term, logger.Discard())
	}()

	term.checkBalanced(t)
}

func TestRun_MaxChordLengthDropsTargets(t *testing.T) {
	term := &fakeTerminal{keys: []string{"esc"}}
	opts := Options{KeyGroups: [][]string{{"a", "s"}}, Keys: defaultKeys, MaxChordLength: 1}

	Run(panes("w", "w", "w", "w"), opts, term, logger.Discard())

	if len(term.lastFrame) != 2 {
		t.Errorf("length-1 chords over 2 keys label 2 targets, got %d", len(term.lastFrame))
	}
}

// =============================================================================
// Property Tests
// =============================================================================

// Property: every session releases the grab and disposes exactly once,
// whatever keys are typed
func TestRun_ResourcesBalanced(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		group := testgen.KeyGroup().Draw(rt, "group")
		n := rapid.IntRange(1, 30).Draw(rt, "targets")
		keys := rapid.SliceOfN(rapid.SampledFrom(append(group, "esc", "backspace", "x")), 0, 10).Draw(rt, "keys")

		targets := make([]target.Target, n)
		for i := range targets {
			targets[i] = target.Target{ID: string(rune('A' + i)), Rect: geom.Rect{W: 1, H: 1}}
		}

		term := &fakeTerminal{keys: keys}
		res, err := Run(targets, Options{KeyGroups: [][]string{group}, Keys: defaultKeys}, term, logger.Discard())

		if term.acquired != 1 || term.released != 1 || term.disposed != 1 {
			rt.Fatalf("unbalanced: acquired %d released %d disposed %d", term.acquired, term.released, term.disposed)
		}
		if res.Selected && err != nil {
			rt.Fatalf("selection with error: %v", err)
		}
		if !res.Selected && err != nil && !errors.Is(err, io.EOF) {
			rt.Fatalf("unexpected error: %v", err)
		}
	})
}

func sameScreen(n int) []target.Target {
	targets := make([]target.Target, n)
	for i := range targets {
		targets[i] = target.Target{ID: string(rune('A' + i)), Rect: geom.Rect{W: 1, H: 1}}
	}
	return targets
}

// Property: with a home-row sized group, typing a target's chord selects
// that target
func TestRun_ChordSelectsItsTarget(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		group := testgen.KeyGroup(testgen.WithSize(9, 9)).Draw(rt, "group")
		targets := sameScreen(rapid.IntRange(1, 81).Draw(rt, "targets"))
		opts := Options{KeyGroups: [][]string{group}, Keys: defaultKeys}

		pairs := chord.Assign(Partition(opts.KeyGroups, targets), 0)
		want := pairs[rapid.IntRange(0, len(pairs)-1).Draw(rt, "pick")]

		term := &fakeTerminal{keys: append([]string(nil), want.Chord...)}
		res, err := Run(targets, opts, term, logger.Discard())
		if err != nil {
			rt.Fatalf("Run returned error: %v", err)
		}
		if !res.Selected || res.Target.ID != want.Target.ID {
			rt.Fatalf("chord %v selected %+v, want %s", want.Chord, res, want.Target.ID)
		}
	})
}

// Property: keys match case-sensitively, so lower-case presses never select
// from an upper-case group
func TestRun_KeysAreCaseSensitive(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		group := testgen.KeyGroup(testgen.WithUpper).Draw(rt, "group")
		lower := make([]string, len(group))
		for i, k := range group {
			lower[i] = strings.ToLower(k)
		}
		keys := rapid.SliceOfN(rapid.SampledFrom(lower), 1, 6).Draw(rt, "keys")

		term := &fakeTerminal{keys: keys}
		res, err := Run(sameScreen(rapid.IntRange(1, 20).Draw(rt, "targets")),
			Options{KeyGroups: [][]string{group}, Keys: defaultKeys}, term, logger.Discard())

		if res.Selected {
			rt.Fatalf("lower-case keys %v selected %+v from group %v", keys, res, group)
		}
		if !errors.Is(err, io.EOF) {
			rt.Fatalf("expected the key source to run dry, got %v", err)
		}
		if term.renders != len(keys)+1 {
			rt.Fatalf("rendered %d frames for %d keys", term.renders, len(keys))
		}
	})
}
