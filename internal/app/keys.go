package app

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/chatter/chordpick/internal/config"
	"github.com/chatter/chordpick/internal/ui/help"
)

// Action handles a key press instead of forwarding it to the engine.
type Action func(m *Model, msg tea.KeyPressMsg) tea.Cmd

// ActionBinding combines a display binding with its action for dispatch.
type ActionBinding struct {
	help.HelpBinding        // embedded for display (Binding, Category, Order)
	Action           Action // nil = display-only (no action)
}

// dispatchKey runs the action of the first matching binding. It reports
// false if no binding with an action matches.
func dispatchKey(m *Model, msg tea.KeyPressMsg, bindings []ActionBinding) (tea.Cmd, bool) {
	for _, ab := range bindings {
		if key.Matches(msg, ab.Binding) && ab.Action != nil {
			return ab.Action(m, msg), true
		}
	}
	return nil, false
}

// ToHelpBindings extracts display-only bindings from action bindings.
func ToHelpBindings(abs []ActionBinding) []help.HelpBinding {
	result := make([]help.HelpBinding, len(abs))
	for i, ab := range abs {
		result[i] = ab.HelpBinding
	}
	return result
}

// KeyMap defines the key bindings of a picker session.
type KeyMap struct {
	Cancel    key.Binding
	Backspace key.Binding
	Interrupt key.Binding
	Chord     key.Binding
}

// NewKeyMap builds the bindings from the configured keys.
func NewKeyMap(cfg *config.Config) KeyMap {
	km := KeyMap{
		Cancel: key.NewBinding(
			key.WithKeys(cfg.CancelKey),
			key.WithHelp(cfg.CancelKey, "cancel"),
		),
		Backspace: key.NewBinding(
			key.WithKeys(cfg.BackspaceKey),
			key.WithHelp(cfg.BackspaceKey, "back"),
		),
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Chord: key.NewBinding(
			key.WithKeys(allKeys(cfg.KeyGroups)...),
			key.WithHelp(keyRange(cfg.KeyGroups), "type chord"),
		),
	}

	if cfg.BackspaceKey == "" {
		km.Backspace.SetEnabled(false)
	}
	if cfg.CancelKey == "ctrl+c" {
		km.Interrupt.SetEnabled(false)
	}

	return km
}

// Bindings returns the session bindings. Interrupt is mapped to the cancel
// key so ctrl+c always ends the session; everything else is display-only and
// reaches the engine as typed.
func (km KeyMap) Bindings(cancel string) []ActionBinding {
	return []ActionBinding{
		{
			HelpBinding: help.HelpBinding{Binding: km.Chord, Category: help.CategoryChord, Order: 0},
		},
		{
			HelpBinding: help.HelpBinding{Binding: km.Backspace, Category: help.CategoryChord, Order: 1},
		},
		{
			HelpBinding: help.HelpBinding{Binding: km.Cancel, Category: help.CategorySession, Order: 2, Pinned: true},
		},
		{
			HelpBinding: help.HelpBinding{Binding: km.Interrupt, Category: help.CategorySession, Order: 3},
			Action: func(m *Model, _ tea.KeyPressMsg) tea.Cmd {
				m.forward(cancel)
				return nil
			},
		},
	}
}

func allKeys(groups [][]string) []string {
	var keys []string
	for _, g := range groups {
		keys = append(keys, g...)
	}
	return keys
}

// keyRange summarises the chord keys for the status bar, e.g. "asdfghjkl".
func keyRange(groups [][]string) string {
	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = strings.Join(g, "")
	}
	return strings.Join(parts, "/")
}
