package app

import (
	"errors"
	"fmt"
	"io"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/chatter/chordpick/internal/config"
	"github.com/chatter/chordpick/internal/logger"
	"github.com/chatter/chordpick/internal/selection"
	"github.com/chatter/chordpick/internal/ui"
)

// ErrNotAcquired is returned when the terminal is used outside
// Acquire/Release.
var ErrNotAcquired = errors.New("terminal not acquired")

// eventBuffer is how many key events may queue between the terminal program
// and the engine.
const eventBuffer = 64

// Options configure a Terminal.
type Options struct {
	Config  *config.Config
	Version string

	// Input and Output default to the process's terminal.
	Input  io.Reader
	Output io.Writer

	// ConfigPaths are reloaded when WatchPath changes. Only appearance
	// settings are applied to a running session.
	ConfigPaths []string
	WatchPath   string
}

// Terminal runs the picker's bubbletea program for one session.
type Terminal struct {
	opts Options
	log  *logger.Logger

	program *tea.Program
	events  chan selection.KeyEvent[string]
	exited  chan struct{}
	runErr  error
	watcher *config.Watcher

	releaseOnce sync.Once
	releaseErr  error
}

// NewTerminal creates a terminal for one session.
func NewTerminal(opts Options, log *logger.Logger) *Terminal {
	return &Terminal{opts: opts, log: log}
}

// Acquire starts the terminal program. Until Release, all keyboard input
// goes to the picker.
func (t *Terminal) Acquire() error {
	if t.program != nil {
		return errors.New("terminal already acquired")
	}

	t.events = make(chan selection.KeyEvent[string], eventBuffer)
	t.exited = make(chan struct{})

	var opts []tea.ProgramOption
	if t.opts.Input != nil {
		opts = append(opts, tea.WithInput(&quitOnEOF{r: t.opts.Input, quit: t.quit}))
	}
	if t.opts.Output != nil {
		opts = append(opts, tea.WithOutput(t.opts.Output))
	}

	model := NewModel(t.opts.Config, t.opts.Version, t.events, t.log)
	t.program = tea.NewProgram(model, opts...)

	go func() {
		defer close(t.exited)
		// The model only sends from inside the event loop, which has
		// stopped once Run returns.
		defer close(t.events)

		if _, err := t.program.Run(); err != nil {
			t.runErr = err
		}
	}()

	t.startWatcher()

	t.log.Debug("terminal acquired")

	return nil
}

// Release stops the terminal program and restores the terminal. It is safe
// to call more than once.
func (t *Terminal) Release() error {
	if t.program == nil {
		return ErrNotAcquired
	}

	t.releaseOnce.Do(func() {
		if t.watcher != nil {
			if err := t.watcher.Close(); err != nil {
				t.log.Warn("closing config watcher", "err", err)
			}
		}

		t.program.Quit()
		<-t.exited

		if t.runErr != nil {
			t.releaseErr = fmt.Errorf("terminal program: %w", t.runErr)
		}

		t.log.Debug("terminal released", "err", t.releaseErr)
	})

	return t.releaseErr
}

// NextKeyEvent blocks until the next key event. It returns io.EOF once the
// terminal program has exited.
func (t *Terminal) NextKeyEvent() (selection.KeyEvent[string], error) {
	if t.events == nil {
		return selection.KeyEvent[string]{}, ErrNotAcquired
	}

	ev, ok := <-t.events
	if !ok {
		if t.runErr != nil {
			return ev, fmt.Errorf("terminal program: %w", t.runErr)
		}
		return ev, io.EOF
	}
	return ev, nil
}

// Render draws a frame.
func (t *Terminal) Render(overlays []ui.Overlay) {
	if t.program != nil {
		t.program.Send(frameMsg{overlays: overlays})
	}
}

// Dispose clears the overlays and ends the program's event loop.
func (t *Terminal) Dispose([]ui.Overlay) {
	if t.program != nil {
		t.program.Send(disposeMsg{})
	}
}

// quit ends the program once its input is exhausted. The event loop does not
// stop on its own when the input reader returns io.EOF.
func (t *Terminal) quit() {
	t.log.Debug("terminal input closed")
	t.program.Quit()
}

// quitOnEOF calls quit the first time r reports io.EOF.
type quitOnEOF struct {
	r    io.Reader
	quit func()
	once sync.Once
}

func (q *quitOnEOF) Read(p []byte) (int, error) {
	n, err := q.r.Read(p)
	if errors.Is(err, io.EOF) {
		q.once.Do(q.quit)
	}
	return n, err
}

// startWatcher reloads appearance settings when the config file changes.
// A missing or unwatchable config is not an error.
func (t *Terminal) startWatcher() {
	if t.opts.WatchPath == "" {
		return
	}

	w, err := config.NewWatcher(t.opts.WatchPath, t.log)
	if err != nil {
		t.log.Debug("config watcher disabled", "err", err)
		return
	}
	t.watcher = w

	go func() {
		for range w.Events() {
			cfg, err := config.Load(t.opts.ConfigPaths, false)
			if err != nil {
				t.log.Warn("config reload failed", "err", err)
				continue
			}

			t.log.Info("config reloaded", "path", w.Path())
			t.program.Send(appearanceMsg{
				styles:     ui.NewStyles(cfg.Colors),
				showLegend: cfg.ShowLegend,
			})
		}
	}()
}
