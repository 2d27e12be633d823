// Package help renders key hints for the picker's status bar.
package help

import (
	"charm.land/bubbles/v2/key"
)

// Category represents a logical grouping of keybindings for help display
type Category string

const (
	CategorySession Category = "Session"
	CategoryChord   Category = "Chord"
)

// HelpBinding contains display information for a keybinding.
type HelpBinding struct {
	Binding  key.Binding
	Category Category
	Order    int  // lower = shown first
	Pinned   bool // if true, always shown in status bar (never truncated)
}
