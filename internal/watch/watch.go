// Package watch reports changes to a single data file made outside the
// running process, such as a hand edit or a file-sync tool replacing it.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/habitgrid/internal/logger"
)

// Watcher watches a file's directory and signals, after a quiet period,
// that the file changed. Atomic saves replace the file, so the directory
// is watched rather than the file itself.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	file     string
	debounce time.Duration
	changes  chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// New creates a Watcher for file. Bursts of events closer together than
// debounce produce one signal.
func New(file string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		file:     filepath.Clean(file),
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Changes delivers one value per settled burst of changes. Signals that
// arrive while one is pending are merged.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Start begins watching. It returns immediately.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.watcher.Add(filepath.Dir(w.file)); err != nil {
		return err
	}
	w.running = true
	logger.Debug("Watching data file", "path", w.file)

	go w.run(ctx)
	return nil
}

// Stop ends the watch and waits for the event loop to exit. It is safe to
// call more than once, and before Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		logger.Warn("Failed to close file watcher", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			logger.Debug("Data file event", "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("File watcher error", "error", err)

		case <-timer.C:
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}
