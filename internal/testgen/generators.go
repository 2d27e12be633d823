// Package testgen provides rapid generators for key groups, target lists and
// target geometry.
package testgen

import (
	"fmt"
	"strings"

	"pgregory.net/rapid"

	"github.com/chatter/chordpick/internal/geom"
)

// alphabet is the pool single-letter keys are drawn from.
const alphabet = "abcdefghijklmnopqrstuvwxyz"

// KeyGroupOption transforms a KeyGroup generator.
type KeyGroupOption func(*rapid.Generator[[]string]) *rapid.Generator[[]string]

// KeyGroup generates a duplicate-free key group of 2-6 single-letter keys.
//
// Examples:
//
//	KeyGroup()                     // ["d", "a", "q"]
//	KeyGroup(WithUpper)            // ["D", "A", "Q"]
//	KeyGroup(WithSize(9, 9))       // nine keys
func KeyGroup(opts ...KeyGroupOption) *rapid.Generator[[]string] {
	gen := letters(2, 6)
	for _, opt := range opts {
		gen = opt(gen)
	}
	return gen
}

// WithSize replaces the group size range. The range is clamped to the
// alphabet, so WithSize(30, 40) yields 26 keys.
func WithSize(lo, hi int) KeyGroupOption {
	return func(*rapid.Generator[[]string]) *rapid.Generator[[]string] {
		return letters(min(lo, len(alphabet)), min(hi, len(alphabet)))
	}
}

// WithUpper upper-cases every key. Keys stay distinct.
func WithUpper(gen *rapid.Generator[[]string]) *rapid.Generator[[]string] {
	return rapid.Custom(func(t *rapid.T) []string {
		keys := gen.Draw(t, "keys")
		out := make([]string, len(keys))
		for i, k := range keys {
			out[i] = strings.ToUpper(k)
		}
		return out
	})
}

func letters(lo, hi int) *rapid.Generator[[]string] {
	return rapid.Custom(func(t *rapid.T) []string {
		n := rapid.IntRange(lo, hi).Draw(t, "n")
		perm := rapid.Permutation([]byte(alphabet)).Draw(t, "perm")
		out := make([]string, n)
		for i := range n {
			out[i] = string(perm[i])
		}
		return out
	})
}

// DisjointKeyGroups generates n key groups that share no key.
func DisjointKeyGroups(n int) *rapid.Generator[[][]string] {
	return rapid.Custom(func(t *rapid.T) [][]string {
		perm := rapid.Permutation([]byte(alphabet)).Draw(t, "perm")
		per := len(perm) / max(n, 1)
		groups := make([][]string, n)
		for g := range n {
			size := rapid.IntRange(2, max(per, 2)).Draw(t, fmt.Sprintf("size%d", g))
			for _, c := range perm[g*per : g*per+size] {
				groups[g] = append(groups[g], string(c))
			}
		}
		return groups
	})
}

// TargetNames generates between lo and hi unique target names "t1", "t2", ...
func TargetNames(lo, hi int) *rapid.Generator[[]string] {
	return rapid.Custom(func(t *rapid.T) []string {
		n := rapid.IntRange(lo, hi).Draw(t, "targets")
		names := make([]string, n)
		for i := range n {
			names[i] = fmt.Sprintf("t%d", i+1)
		}
		return names
	})
}

// Rect generates a rectangle with its origin in [0, 200) and a size in
// [1, 120].
func Rect() *rapid.Generator[geom.Rect] {
	return rapid.Custom(func(t *rapid.T) geom.Rect {
		return geom.Rect{
			X: rapid.IntRange(0, 199).Draw(t, "x"),
			Y: rapid.IntRange(0, 199).Draw(t, "y"),
			W: rapid.IntRange(1, 120).Draw(t, "w"),
			H: rapid.IntRange(1, 120).Draw(t, "h"),
		}
	})
}
