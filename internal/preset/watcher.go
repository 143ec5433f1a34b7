package preset

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const settleDelay = 100 * time.Millisecond

// Watcher signals after the watched file has been written. Bursts of events
// (editors that truncate then write, or save through a rename) produce a
// single signal.
type Watcher struct {
	FilePath string

	inner *fsnotify.Watcher
	path  string

	// out
	signal chan struct{}
	done   chan struct{}
}

// Initialize starts watching. The parent directory is watched so that the
// file can be replaced or recreated.
func (w *Watcher) Initialize() error {
	abs, err := filepath.Abs(w.FilePath)
	if err != nil {
		return err
	}
	w.path = abs

	inner, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err = inner.Add(filepath.Dir(abs)); err != nil {
		inner.Close() //nolint:errcheck
		return fmt.Errorf("watch %s: %w", w.FilePath, err)
	}

	w.inner = inner
	w.signal = make(chan struct{}, 1)
	w.done = make(chan struct{})

	go w.run()
	return nil
}

// Close closes a Watcher.
func (w *Watcher) Close() {
	w.inner.Close() //nolint:errcheck
	<-w.done
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.signal)

	var settle <-chan time.Time

	for {
		select {
		case event, ok := <-w.inner.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				settle = time.After(settleDelay)
			}

		case <-settle:
			settle = nil
			select {
			case w.signal <- struct{}{}:
			default:
			}

		case _, ok := <-w.inner.Errors:
			if !ok {
				return
			}
		}
	}
}

// Watch returns a channel that receives after the file has changed. It is
// closed when the watcher stops.
func (w *Watcher) Watch() <-chan struct{} {
	return w.signal
}
