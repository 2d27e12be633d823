package target

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/chatter/chordpick/internal/geom"
)

// ErrInvalidTargets is returned when a target list cannot be parsed.
var ErrInvalidTargets = errors.New("invalid target list")

// JSONSource reads targets from a JSON array or from JSON lines, one object
// per target:
//
//	{"id": "0x1a00003", "name": "firefox", "title": "Docs", "screen": 0,
//	 "x": 0, "y": 0, "w": 960, "h": 1080}
//
// Focus writes the chosen id to the output writer, leaving the actual
// activation to the calling script.
type JSONSource struct {
	in  io.Reader
	out io.Writer
}

// NewJSONSource creates a source reading from in and reporting to out.
func NewJSONSource(in io.Reader, out io.Writer) *JSONSource {
	return &JSONSource{in: in, out: out}
}

// Name implements Source.
func (s *JSONSource) Name() string {
	return "json"
}

// Targets implements Source. The input is read once.
func (s *JSONSource) Targets() ([]Target, error) {
	data, err := io.ReadAll(s.in)
	if err != nil {
		return nil, fmt.Errorf("reading target list: %w", err)
	}

	return ParseJSON(data)
}

// Focus implements Source.
func (s *JSONSource) Focus(t Target) error {
	if _, err := fmt.Fprintln(s.out, t.ID); err != nil {
		return fmt.Errorf("writing selection: %w", err)
	}

	return nil
}

// ParseJSON parses a JSON array or JSON lines into targets.
func ParseJSON(data []byte) ([]Target, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var (
		targets  []Target
		parseErr error
	)

	visit := func(v gjson.Result) bool {
		t, err := parseTarget(v, len(targets))
		if err != nil {
			parseErr = err
			return false
		}
		targets = append(targets, t)
		return true
	}

	if trimmed[0] == '[' {
		if !gjson.ValidBytes(trimmed) {
			return nil, fmt.Errorf("%w: malformed JSON array", ErrInvalidTargets)
		}
		gjson.ParseBytes(trimmed).ForEach(func(_, v gjson.Result) bool {
			return visit(v)
		})
	} else {
		sc := bufio.NewScanner(bytes.NewReader(trimmed))
		sc.Buffer(make([]byte, 0, 64*1024), len(trimmed)+1)
		for line := 1; sc.Scan(); line++ {
			raw := bytes.TrimSpace(sc.Bytes())
			if len(raw) == 0 {
				continue
			}
			if !gjson.ValidBytes(raw) {
				return nil, fmt.Errorf("%w: line %d is not valid JSON", ErrInvalidTargets, line)
			}
			if !visit(gjson.ParseBytes(raw)) {
				break
			}
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTargets, err)
		}
	}

	if parseErr != nil {
		return nil, parseErr
	}

	return targets, nil
}

func parseTarget(v gjson.Result, index int) (Target, error) {
	if !v.IsObject() {
		return Target{}, fmt.Errorf("%w: entry %d is not an object", ErrInvalidTargets, index)
	}

	id := v.Get("id")
	if !id.Exists() || id.String() == "" {
		return Target{}, fmt.Errorf("%w: entry %d has no id", ErrInvalidTargets, index)
	}

	t := Target{
		ID:     id.String(),
		Name:   v.Get("name").String(),
		Title:  v.Get("title").String(),
		Screen: v.Get("screen").String(),
		Rect: geom.Rect{
			X: int(v.Get("x").Int()),
			Y: int(v.Get("y").Int()),
			W: int(v.Get("w").Int()),
			H: int(v.Get("h").Int()),
		},
	}

	if t.Rect.Empty() {
		return Target{}, fmt.Errorf("%w: entry %d (%s) has no area", ErrInvalidTargets, index, t.ID)
	}

	return t, nil
}
