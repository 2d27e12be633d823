package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/chatter/chordpick/internal/logger"
)

// Watcher reports changes to a single config file. It watches the parent
// directory because editors commonly replace files by rename.
type Watcher struct {
	watcher  *fsnotify.Watcher
	filtered chan fsnotify.Event
	done     chan struct{}
	path     string
	log      *logger.Logger
}

// NewWatcher starts watching path. The file itself need not exist yet, but
// its directory must.
func NewWatcher(path string, log *logger.Logger) (*Watcher, error) {
	path = filepath.Clean(path)
	log.Debug("creating config watcher", "path", path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("failed to create fsnotify watcher", "err", err)

		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		log.Error("failed to watch config directory", "path", dir, "err", err)
		watcher.Close()

		return nil, fmt.Errorf("watching config directory: %w", err)
	}

	self := &Watcher{
		watcher:  watcher,
		filtered: make(chan fsnotify.Event, 1),
		done:     make(chan struct{}),
		path:     path,
		log:      log,
	}

	go self.filterEvents()

	return self, nil
}

// Events returns the channel of events for the watched file.
func (w *Watcher) Events() <-chan fsnotify.Event {
	return w.filtered
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("closing fsnotify watcher: %w", err)
	}

	return nil
}

func (w *Watcher) filterEvents() {
	defer close(w.filtered)

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !w.shouldForward(event) {
				continue
			}

			w.log.Debug("config change detected", "path", event.Name, "op", event.Op.String())

			// A pending event already means "reload"; drop the rest.
			select {
			case w.filtered <- event:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.log.Warn("config watcher error", "err", err)
			}
		}
	}
}

func (w *Watcher) shouldForward(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}

	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
