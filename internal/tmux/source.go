package tmux

import (
	"fmt"

	"github.com/chatter/chordpick/internal/geom"
	"github.com/chatter/chordpick/internal/logger"
	"github.com/chatter/chordpick/internal/target"
)

// Source offers tmux panes as targets. Each tmux window is its own screen.
type Source struct {
	runner     *Runner
	allWindows bool
	self       string
	panes      map[string]Pane
	log        *logger.Logger
}

// NewSource creates a pane source. self is the pane chordpick runs in (the
// TMUX_PANE environment variable); it is never offered as a target.
func NewSource(runner *Runner, allWindows bool, self string, log *logger.Logger) *Source {
	return &Source{
		runner:     runner,
		allWindows: allWindows,
		self:       self,
		panes:      make(map[string]Pane),
		log:        log,
	}
}

// Name implements target.Source.
func (s *Source) Name() string {
	return "tmux"
}

// Targets implements target.Source.
func (s *Source) Targets() ([]target.Target, error) {
	panes, err := s.runner.ListPanes(s.allWindows)
	if err != nil {
		return nil, fmt.Errorf("listing panes: %w", err)
	}

	targets := make([]target.Target, 0, len(panes))
	for _, p := range panes {
		if p.ID == s.self {
			continue
		}

		s.panes[p.ID] = p
		targets = append(targets, paneTarget(p))
	}

	s.log.Debug("tmux panes listed", "panes", len(panes), "targets", len(targets))

	return targets, nil
}

// Focus implements target.Source.
func (s *Source) Focus(t target.Target) error {
	p, ok := s.panes[t.ID]
	if !ok {
		p = Pane{ID: t.ID}
	}

	if err := s.runner.SelectPane(p); err != nil {
		return fmt.Errorf("focusing pane %s: %w", t.ID, err)
	}

	return nil
}

func paneTarget(p Pane) target.Target {
	return target.Target{
		ID:     p.ID,
		Name:   p.Command,
		Title:  p.Title,
		Screen: p.Screen(),
		Rect:   geom.Rect{X: p.Left, Y: p.Top, W: p.Width, H: p.Height},
	}
}
