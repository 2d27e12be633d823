// Package config loads chordpick's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/chatter/chordpick/internal/geom"
	"github.com/chatter/chordpick/internal/logger"
	"github.com/chatter/chordpick/internal/selection"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// FileName is the config file name looked up in each search directory.
const FileName = "config.toml"

// Config is the full configuration. Zero values are not meaningful; start
// from Default.
type Config struct {
	KeyGroups      [][]string `koanf:"key_groups" toml:"key_groups"`             // One key pool per screen, in screen order
	CancelKey      string     `koanf:"cancel_key" toml:"cancel_key"`             // Ends the session without a selection
	BackspaceKey   string     `koanf:"backspace_key" toml:"backspace_key"`       // Empty disables backspace
	MaxChordLength int        `koanf:"max_chord_length" toml:"max_chord_length"` // 0 = unlimited

	Overlay      string  `koanf:"overlay" toml:"overlay"`             // "full", "proportional", "fixed" or "bar"
	OverlayScale float64 `koanf:"overlay_scale" toml:"overlay_scale"` // Used by "proportional" and "bar"
	TextHeight   int     `koanf:"text_height" toml:"text_height"`     // Label height in rows
	ShowLegend   bool    `koanf:"show_legend" toml:"show_legend"`

	Exclude  []string `koanf:"exclude" toml:"exclude"`     // gitignore-style target patterns
	LogLevel string   `koanf:"log_level" toml:"log_level"` // Empty disables logging

	Colors Colors `koanf:"colors" toml:"colors"`
}

// Colors holds terminal colors as ANSI numbers or hex strings.
type Colors struct {
	Label    string `koanf:"label" toml:"label"`         // Chord text
	Overlay  string `koanf:"overlay" toml:"overlay"`     // Overlay background
	Border   string `koanf:"border" toml:"border"`       // Target outlines
	RuledOut string `koanf:"ruled_out" toml:"ruled_out"` // Outlines of targets no longer selectable
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		KeyGroups:      [][]string{{"a", "s", "d", "f", "g", "h", "j", "k", "l"}},
		CancelKey:      "esc",
		BackspaceKey:   "backspace",
		MaxChordLength: 0,
		Overlay:        geom.NameProportional,
		OverlayScale:   0.5,
		TextHeight:     1,
		ShowLegend:     true,
		Colors: Colors{
			Label:    "230",
			Overlay:  "62",
			Border:   "240",
			RuledOut: "236",
		},
	}
}

// Paths returns the default search path, lowest priority first.
func Paths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "chordpick", FileName),
		"chordpick.toml",
	}
}

// Load reads the given files over the defaults and validates the result.
// Missing files are skipped unless required is set.
func Load(paths []string, required bool) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if required {
				return nil, fmt.Errorf("reading config: %w", err)
			}
			continue
		}

		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	cfg := Default()

	// Lists replace the defaults rather than merging into them.
	if k.Exists("key_groups") {
		cfg.KeyGroups = nil
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Exclude = trimAll(cfg.Exclude)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func trimAll(lines []string) []string {
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Validate checks what the picker relies on and reports every problem.
func (c *Config) Validate() error {
	var errs []error

	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if len(c.KeyGroups) == 0 {
		invalid("key_groups: at least one group is required")
	}

	for i, group := range c.KeyGroups {
		if len(group) < 2 {
			invalid("key_groups[%d]: needs at least 2 keys, has %d", i, len(group))
		}

		seen := make(map[string]bool, len(group))
		for _, key := range group {
			switch {
			case key == "":
				invalid("key_groups[%d]: empty key", i)
			case seen[key]:
				invalid("key_groups[%d]: duplicate key %q", i, key)
			case key == c.CancelKey:
				invalid("key_groups[%d]: %q is the cancel key", i, key)
			case key == c.BackspaceKey:
				invalid("key_groups[%d]: %q is the backspace key", i, key)
			}
			seen[key] = true
		}
	}

	if c.CancelKey == "" {
		invalid("cancel_key: must be set")
	}
	if c.BackspaceKey != "" && c.BackspaceKey == c.CancelKey {
		invalid("backspace_key: must differ from cancel_key")
	}
	if c.MaxChordLength < 0 {
		invalid("max_chord_length: must be 0 (unlimited) or positive, got %d", c.MaxChordLength)
	}
	if !geom.Known(c.Overlay) {
		invalid("overlay: unknown strategy %q (use %s)", c.Overlay, strings.Join(geom.Names(), ", "))
	}
	if c.OverlayScale <= 0 || c.OverlayScale > 1 {
		invalid("overlay_scale: must be in (0, 1], got %g", c.OverlayScale)
	}
	if c.TextHeight < 1 {
		invalid("text_height: must be at least 1, got %d", c.TextHeight)
	}
	if !logger.ValidLevel(c.LogLevel) {
		invalid("log_level: %q (use debug, info, warn, error)", c.LogLevel)
	}

	return errors.Join(errs...)
}

// Warnings reports settings that are valid but probably unintended.
func (c *Config) Warnings() []string {
	var warnings []string

	owner := make(map[string]int)
	for i, group := range c.KeyGroups {
		for _, key := range group {
			if j, ok := owner[key]; ok && j != i {
				warnings = append(warnings, fmt.Sprintf("key %q is in key_groups[%d] and key_groups[%d]; chords may collide across screens", key, j, i))
				continue
			}
			owner[key] = i
		}
	}

	return warnings
}

// SelectionKeys returns the control keys for a selection session.
func (c *Config) SelectionKeys() selection.Keys[string] {
	return selection.Keys[string]{
		Cancel:       c.CancelKey,
		Backspace:    c.BackspaceKey,
		HasBackspace: c.BackspaceKey != "",
	}
}

// Strategy returns the configured overlay strategy.
func (c *Config) Strategy() geom.Strategy {
	s, err := geom.Lookup(c.Overlay, c.OverlayScale)
	if err != nil {
		return geom.FullSize
	}
	return s
}
