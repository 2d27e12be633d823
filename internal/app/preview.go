package app

import (
	"fmt"
	"io"

	"github.com/charmbracelet/colorprofile"

	"github.com/chatter/chordpick/internal/config"
	"github.com/chatter/chordpick/internal/logger"
	"github.com/chatter/chordpick/internal/ui"
)

// Preview renders one frame without taking over the terminal.
type Preview struct {
	Config  *config.Config
	Version string
	Width   int
	Height  int

	// Environ selects the color profile, e.g. os.Environ(). NO_COLOR or a
	// dumb TERM strip colors.
	Environ []string
}

// Write draws overlays to w, downsampled to the detected color profile.
func (p Preview) Write(w io.Writer, overlays []ui.Overlay) error {
	m := NewModel(p.Config, p.Version, nil, logger.Discard())
	m.width = p.Width
	m.height = p.Height

	next, _ := m.Update(frameMsg{overlays: overlays})
	m = next.(Model)

	out := colorprofile.NewWriter(w, p.Environ)
	if _, err := fmt.Fprintln(out, m.render()); err != nil {
		return fmt.Errorf("writing preview: %w", err)
	}

	return nil
}
