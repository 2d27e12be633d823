package selection

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/chatter/chordpick/internal/chord"
	"github.com/chatter/chordpick/internal/testgen"
)

// sliceSource replays a fixed list of events, then returns io.EOF.
type sliceSource struct {
	events []KeyEvent[string]
	reads  int
}

func (s *sliceSource) NextKeyEvent() (KeyEvent[string], error) {
	if s.reads >= len(s.events) {
		return KeyEvent[string]{}, io.EOF
	}
	ev := s.events[s.reads]
	s.reads++
	return ev, nil
}

// recorder counts presenter calls and keeps every rendered frame.
type recorder struct {
	frames   [][]Overlay[string, string]
	disposed int
}

func (r *recorder) Render(overlays []Overlay[string, string]) {
	r.frames = append(r.frames, overlays)
}

func (r *recorder) Dispose([]Overlay[string, string]) {
	r.disposed++
}

func presses(keys ...string) []KeyEvent[string] {
	out := make([]KeyEvent[string], len(keys))
	for i, k := range keys {
		out[i] = Press(k)
	}
	return out
}

var controlKeys = Keys[string]{Cancel: "esc", Backspace: "backspace", HasBackspace: true}

func sevenTargets() []chord.Pair[string, string] {
	return chord.Assign([]chord.Group[string, string]{{
		Keys:    []string{"a", "b", "c"},
		Targets: []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7"},
	}}, 0)
}

// =============================================================================
// Unit Tests
// =============================================================================

func TestRun_SelectsByChord(t *testing.T) {
	e := New(sevenTargets(), controlKeys)
	src := &sliceSource{events: presses("a", "b", "a")}
	rec := &recorder{}

	res, err := Run(e, src, rec)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !res.Ok() || res.Target != "t4" {
		t.Fatalf("expected Selected(t4), got %v %q", res.Outcome, res.Target)
	}
	if len(rec.frames) != 3 {
		t.Errorf("expected one render per event (3), got %d", len(rec.frames))
	}
	if rec.disposed != 1 {
		t.Errorf("expected dispose exactly once, got %d", rec.disposed)
	}
}

func TestRun_UniqueLeadSelectsEarly(t *testing.T) {
	pairs := chord.Assign([]chord.Group[string, string]{{
		Keys:    []string{"a", "b"},
		Targets: []string{"t1", "t2", "t3"},
	}}, 0)
	// t3 is "b a", and nothing else starts with b.
	e := New(pairs, controlKeys)

	res, err := Run(e, &sliceSource{events: presses("b")}, &recorder{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Target != "t3" {
		t.Errorf("expected t3, got %q", res.Target)
	}
}

func TestRun_CancelExits(t *testing.T) {
	e := New(sevenTargets(), controlKeys)
	rec := &recorder{}

	res, err := Run(e, &sliceSource{events: presses("a", "esc")}, rec)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Outcome != Exit {
		t.Fatalf("expected Exit, got %v", res.Outcome)
	}
	if rec.disposed != 1 {
		t.Errorf("expected dispose exactly once, got %d", rec.disposed)
	}
}

func TestRun_NoOverlaysReturnsImmediately(t *testing.T) {
	e := New[string, string](nil, controlKeys)
	src := &sliceSource{events: presses("a")}
	rec := &recorder{}

	res, err := Run(e, src, rec)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Ok() {
		t.Error("expected no selection")
	}
	if src.reads != 0 || len(rec.frames) != 0 || rec.disposed != 0 {
		t.Errorf("expected no input or presenter calls, got reads=%d renders=%d disposed=%d",
			src.reads, len(rec.frames), rec.disposed)
	}
}

func TestRun_SourceErrorDisposes(t *testing.T) {
	e := New(sevenTargets(), controlKeys)
	rec := &recorder{}

	res, err := Run(e, &sliceSource{events: presses("a")}, rec)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if res.Ok() {
		t.Error("expected no selection on error")
	}
	if rec.disposed != 1 {
		t.Errorf("expected dispose exactly once, got %d", rec.disposed)
	}
}

func TestRun_NoOpEventsStillRender(t *testing.T) {
	e := New(sevenTargets(), controlKeys)
	events := []KeyEvent[string]{
		{Symbol: "a", Press: false},
		Press("z"),
		Press("backspace"),
		Press("esc"),
	}
	rec := &recorder{}

	if _, err := Run(e, &sliceSource{events: events}, rec); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(rec.frames) != 4 {
		t.Fatalf("expected 4 renders, got %d", len(rec.frames))
	}
	for i := 1; i < len(rec.frames); i++ {
		if !reflect.DeepEqual(rec.frames[0], rec.frames[i]) {
			t.Errorf("frame %d changed after a no-op event", i)
		}
	}
}

func TestHandle_KeyReleaseIgnored(t *testing.T) {
	e := New(sevenTargets(), controlKeys)
	before := e.Overlays()

	if out, _ := e.Handle(KeyEvent[string]{Symbol: "esc"}); out != Continue {
		t.Errorf("release of cancel key should not exit, got %v", out)
	}
	if out, _ := e.Handle(KeyEvent[string]{Symbol: "a"}); out != Continue {
		t.Errorf("release should continue, got %v", out)
	}
	if !reflect.DeepEqual(before, e.Overlays()) {
		t.Error("release events should not change overlays")
	}
}

func TestHandle_BackspaceKeepsNarrowing(t *testing.T) {
	e := New(sevenTargets(), controlKeys)
	e.Handle(Press("a"))
	e.Handle(Press("b"))
	narrowed := e.Overlays()

	if out, _ := e.Handle(Press("backspace")); out != Continue {
		t.Fatalf("backspace should continue, got %v", out)
	}
	if !reflect.DeepEqual(narrowed, e.Overlays()) {
		t.Error("backspace should leave overlays unchanged")
	}
	if e.Prefix().String() != "a b" {
		t.Errorf("Prefix = %q, want %q", e.Prefix(), "a b")
	}
}

func TestPrefix_OnlyNarrowingKeys(t *testing.T) {
	e := New(sevenTargets(), controlKeys)
	e.Handle(Press("z"))
	e.Handle(KeyEvent[string]{Symbol: "a"})
	e.Handle(Press("a"))

	if got := e.Prefix(); !got.Equal(chord.Chord[string]{"a"}) {
		t.Errorf("Prefix = %q, want %q", got, "a")
	}
}

func TestHandle_BackspaceDisabledIsPlainKey(t *testing.T) {
	e := New(sevenTargets(), Keys[string]{Cancel: "esc"})
	before := e.Overlays()

	if out, _ := e.Handle(Press("backspace")); out != Continue {
		t.Fatalf("expected Continue, got %v", out)
	}
	if !reflect.DeepEqual(before, e.Overlays()) {
		t.Error("unmatched key should leave overlays unchanged")
	}
}

func TestHandle_NarrowingClearsOthers(t *testing.T) {
	e := New(sevenTargets(), controlKeys)
	e.Handle(Press("a"))
	e.Handle(Press("b"))

	got := make(map[string]string)
	for _, o := range e.Overlays() {
		got[o.Target] = o.Remaining.String()
	}
	expected := map[string]string{
		"t1": "", "t2": "", "t3": "",
		"t4": "a", "t5": "b", "t6": "c",
		"t7": "",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("remaining = %v, want %v", got, expected)
	}
	if e.Candidates() != 3 {
		t.Errorf("Candidates = %d, want 3", e.Candidates())
	}
	if e.Len() != 7 {
		t.Errorf("ruled out overlays should be kept for display, Len = %d", e.Len())
	}
}

func TestNew_CopiesChords(t *testing.T) {
	pairs := sevenTargets()
	e := New(pairs, controlKeys)
	e.Handle(Press("a"))
	e.Handle(Press("b"))

	if pairs[3].Chord.String() != "a b a" {
		t.Errorf("input chord was modified: %q", pairs[3].Chord)
	}
}

func TestOverlays_ReturnsCopy(t *testing.T) {
	e := New(sevenTargets(), controlKeys)
	snapshot := e.Overlays()
	snapshot[0].Remaining[0] = "z"
	snapshot[1].Remaining = nil

	fresh := e.Overlays()
	if fresh[0].Remaining[0] != "a" || !fresh[1].Selectable() {
		t.Error("mutating a snapshot should not affect the engine")
	}
}

func TestOutcome_String(t *testing.T) {
	for outcome, want := range map[Outcome]string{Continue: "continue", Selected: "selected", Exit: "exit"} {
		if outcome.String() != want {
			t.Errorf("%d.String() = %q, want %q", outcome, outcome.String(), want)
		}
	}
}

// =============================================================================
// Property Tests
// =============================================================================

func drawSession(t *rapid.T) ([]chord.Pair[string, string], *Engine[string, string]) {
	keys := testgen.KeyGroup().Draw(t, "keys")
	targets := testgen.TargetNames(1, 40).Draw(t, "targets")
	pairs := chord.Assign([]chord.Group[string, string]{{Keys: keys, Targets: targets}}, 0)
	return pairs, New(pairs, controlKeys)
}

// Property: typing any target's chord selects exactly that target.
func TestRun_ChordSelectsItsTarget(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pairs, e := drawSession(t)
		pick := rapid.SampledFrom(pairs).Draw(t, "pick")

		res, err := Run(e, &sliceSource{events: presses(pick.Chord...)}, &recorder{})
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		if !res.Ok() || res.Target != pick.Target {
			t.Fatalf("typing %q selected %v %q, want %s", pick.Chord, res.Outcome, res.Target, pick.Target)
		}
	})
}

// Property: cancel exits regardless of how far narrowing got.
func TestRun_CancelAlwaysExits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pairs, e := drawSession(t)
		pick := rapid.SampledFrom(pairs).Draw(t, "pick")
		typed := rapid.IntRange(0, len(pick.Chord)-1).Draw(t, "typed")

		events := append(presses(pick.Chord[:typed]...), Press("esc"))
		res, err := Run(e, &sliceSource{events: events}, &recorder{})
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		if res.Outcome != Exit && !(res.Ok() && res.Target == pick.Target) {
			t.Fatalf("expected Exit (or an early unique match), got %v %q", res.Outcome, res.Target)
		}
	})
}

// Property: a key that leads no overlay leaves the set unchanged.
func TestHandle_UnmatchedKeyIsNoOp(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		_, e := drawSession(t)
		before := e.Overlays()

		symbol := rapid.StringMatching(`[A-Z0-9]`).Draw(t, "symbol")
		if out, _ := e.Handle(Press(symbol)); out != Continue {
			t.Fatalf("expected Continue, got %v", out)
		}
		if !reflect.DeepEqual(before, e.Overlays()) {
			t.Fatalf("overlays changed after unmatched key %q", symbol)
		}
	})
}

// Property: pressing a symbol shared by several leading chords strips it from
// those and clears everything else.
func TestHandle_NarrowingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		_, e := drawSession(t)
		before := e.Overlays()

		symbol := rapid.SampledFrom(before).Draw(t, "overlay").Remaining[0]
		matching := 0
		for _, o := range before {
			if o.Remaining[0] == symbol {
				matching++
			}
		}
		if matching < 2 {
			t.Skip("unique lead selects instead of narrowing")
		}

		if out, _ := e.Handle(Press(symbol)); out != Continue {
			t.Fatalf("expected Continue, got %v", out)
		}

		after := e.Overlays()
		for i, o := range before {
			if o.Remaining[0] == symbol {
				if !after[i].Remaining.Equal(o.Remaining[1:]) {
					t.Fatalf("%s: remaining %q, want %q", o.Target, after[i].Remaining, o.Remaining[1:])
				}
			} else if after[i].Selectable() {
				t.Fatalf("%s should be ruled out, has %q", o.Target, after[i].Remaining)
			}
		}
	})
}
