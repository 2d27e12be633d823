// Package chord assigns fixed-length key chords to selection targets.
//
// Each key group labels its own targets. The chord length for a group is the
// ceiling of targets/keys, capped by an optional maximum, and chords are handed
// out in odometer order over the group's keys: the leftmost position varies
// slowest. Targets beyond the number of available chords get none.
package chord

import (
	"fmt"
	"math"
	"strings"
)

// Chord is the ordered key sequence typed to pick one target.
type Chord[K comparable] []K

// String joins the chord's keys with spaces.
func (c Chord[K]) String() string {
	parts := make([]string, len(c))
	for i, k := range c {
		parts[i] = fmt.Sprint(k)
	}

	return strings.Join(parts, " ")
}

// Equal reports whether two chords hold the same keys in the same order.
func (c Chord[K]) Equal(other Chord[K]) bool {
	if len(c) != len(other) {
		return false
	}

	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}

	return true
}

// Group pairs a pool of keys with the targets it labels.
type Group[K comparable, T any] struct {
	Keys    []K
	Targets []T
}

// Pair is one target and the chord assigned to it.
type Pair[K comparable, T any] struct {
	Target T
	Chord  Chord[K]
}

// Length returns the chord length used for nTargets targets over nKeys keys.
// maxLen <= 0 means unlimited.
//
// The length grows linearly with the number of targets, not logarithmically,
// so it often exceeds the shortest length that would fit.
func Length(nTargets, nKeys, maxLen int) int {
	if nKeys <= 0 || nTargets <= 0 {
		return 0
	}

	n := (nTargets + nKeys - 1) / nKeys
	if maxLen > 0 && n > maxLen {
		n = maxLen
	}

	return n
}

// Capacity returns nKeys^length, saturating at math.MaxInt.
func Capacity(nKeys, length int) int {
	if length <= 0 {
		return 1
	}

	if nKeys <= 0 {
		return 0
	}

	total := 1
	for range length {
		if total > math.MaxInt/nKeys {
			return math.MaxInt
		}
		total *= nKeys
	}

	return total
}

// Sequences returns the first limit sequences of the given length over keys,
// in odometer order.
func Sequences[K comparable](keys []K, length, limit int) []Chord[K] {
	if len(keys) == 0 || length <= 0 || limit <= 0 {
		return nil
	}

	limit = min(limit, Capacity(len(keys), length))

	out := make([]Chord[K], 0, limit)
	idx := make([]int, length)

	for len(out) < limit {
		seq := make(Chord[K], length)
		for i, k := range idx {
			seq[i] = keys[k]
		}
		out = append(out, seq)

		// Rightmost position turns fastest.
		for pos := length - 1; pos >= 0; pos-- {
			idx[pos]++
			if idx[pos] < len(keys) {
				break
			}
			idx[pos] = 0
		}
	}

	return out
}

// Assign computes a chord for every target it can label, group by group.
// Output order follows group order and, within a group, target order.
// Chords are unique within a group only.
func Assign[K comparable, T any](groups []Group[K, T], maxLen int) []Pair[K, T] {
	var pairs []Pair[K, T]

	for _, g := range groups {
		if len(g.Keys) == 0 {
			continue
		}

		n := Length(len(g.Targets), len(g.Keys), maxLen)
		for i, seq := range Sequences(g.Keys, n, len(g.Targets)) {
			pairs = append(pairs, Pair[K, T]{Target: g.Targets[i], Chord: seq})
		}
	}

	return pairs
}

// Unassigned returns how many targets across groups receive no chord.
func Unassigned[K comparable, T any](groups []Group[K, T], maxLen int) int {
	dropped := 0

	for _, g := range groups {
		if len(g.Keys) == 0 {
			dropped += len(g.Targets)
			continue
		}

		n := Length(len(g.Targets), len(g.Keys), maxLen)
		dropped += max(len(g.Targets)-Capacity(len(g.Keys), n), 0)
	}

	return dropped
}
