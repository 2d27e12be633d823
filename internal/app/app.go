// Package app runs the picker's terminal program. The program owns the
// terminal for the length of a session: it is the input grab, the key source
// and the presenter the selection engine talks to.
package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/chatter/chordpick/internal/config"
	"github.com/chatter/chordpick/internal/logger"
	"github.com/chatter/chordpick/internal/selection"
	"github.com/chatter/chordpick/internal/ui"
	"github.com/chatter/chordpick/internal/ui/help"
)

// minLegendWidth is the narrowest terminal that still gets a legend panel.
const minLegendWidth = 60

// Model is the bubbletea model of one picker session.
type Model struct {
	version  string
	bindings []ActionBinding
	events   chan<- selection.KeyEvent[string]
	log      *logger.Logger

	// Drawing
	screen     *ui.Screen
	legend     *ui.Legend
	statusBar  *help.StatusBar
	showLegend bool

	// Latest frame from the engine
	overlays []ui.Overlay
	total    int
	disposed bool

	// Window size
	width  int
	height int
}

// NewModel creates a model that forwards key events to events.
func NewModel(cfg *config.Config, version string, events chan<- selection.KeyEvent[string], log *logger.Logger) Model {
	styles := ui.NewStyles(cfg.Colors)
	bindings := NewKeyMap(cfg).Bindings(cfg.CancelKey)

	statusBar := help.NewStatusBar("chordpick " + version)
	statusBar.SetBindings(ToHelpBindings(bindings))

	return Model{
		version:    version,
		bindings:   bindings,
		events:     events,
		log:        log,
		screen:     ui.NewScreen(cfg.Strategy(), cfg.TextHeight, styles),
		legend:     ui.NewLegend(styles),
		statusBar:  statusBar,
		showLegend: cfg.ShowLegend,
	}
}

// Message types
type frameMsg struct {
	overlays []ui.Overlay
}

type disposeMsg struct{}

type appearanceMsg struct {
	styles     ui.Styles
	showLegend bool
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if cmd, ok := dispatchKey(&m, msg, m.bindings); ok {
			return m, cmd
		}
		m.forward(msg.String())

	case tea.KeyReleaseMsg:
		m.send(selection.KeyEvent[string]{Symbol: msg.String()})

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case frameMsg:
		m.overlays = msg.overlays
		if m.total == 0 {
			m.total = len(msg.overlays)
		}

	case disposeMsg:
		m.overlays = nil
		m.disposed = true
		return m, tea.Quit

	case appearanceMsg:
		m.screen.SetStyles(msg.styles)
		m.legend.SetStyles(msg.styles)
		m.showLegend = msg.showLegend
	}

	return m, nil
}

// forward passes a key press to the engine.
func (m *Model) forward(symbol string) {
	m.send(selection.Press(symbol))
}

func (m *Model) send(ev selection.KeyEvent[string]) {
	if m.disposed || m.events == nil {
		return
	}

	// Non-blocking send: the event loop must keep drawing even if the
	// engine falls behind.
	select {
	case m.events <- ev:
	default:
		m.log.Warn("key event dropped (engine busy)", "key", ev.Symbol)
	}
}

// View renders the application
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	if m.disposed || m.width <= 0 || m.height <= 1 {
		return ""
	}

	bodyHeight := m.height - 1
	body := m.renderBody(bodyHeight)

	m.statusBar.SetWidth(m.width)
	m.statusBar.SetStatus(m.status())

	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar.View())
}

func (m Model) renderBody(height int) string {
	screenWidth := m.width

	var legend string
	if m.showLegend && m.width >= minLegendWidth {
		legendWidth := m.legend.Width(m.overlays, m.width/3)
		m.legend.SetHeight(height)
		legend = m.legend.View(m.overlays, legendWidth)
		screenWidth = m.width - lipgloss.Width(legend)
	}

	m.screen.SetSize(screenWidth, height)
	screen := m.screen.View(m.overlays)

	if legend == "" {
		return screen
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, screen, legend)
}

func (m Model) status() string {
	candidates := 0
	for _, o := range m.overlays {
		if o.Selectable() {
			candidates++
		}
	}
	return fmt.Sprintf("%d/%d targets", candidates, m.total)
}
