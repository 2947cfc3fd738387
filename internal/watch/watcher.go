// Package watch notifies the file browser when the directory it is showing
// changes on disk, so a backup finishing in another session appears without
// manual navigation.
package watch

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"srvhelper/internal/log"
)

// Watcher monitors a single directory using fsnotify and coalesces its
// events into refresh signals. Repointing it replaces the watched path.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	refresh   chan string // emits the path of the directory that changed

	mu      sync.Mutex
	current string
	closed  bool
}

// New creates a watcher. Call Point to start watching a directory.
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		refresh:   make(chan string, 1),
	}
	go w.loop()
	return w, nil
}

// Point switches the watcher to dir, dropping the previously watched
// directory. The directory must exist.
func (w *Watcher) Point(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("watcher is closed")
	}
	if w.current == dir {
		return nil
	}
	if w.current != "" {
		// Removal can fail if the directory is already gone; that's fine
		_ = w.fsWatcher.Remove(w.current)
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		w.current = ""
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.current = dir
	log.WithFields(log.Fields{"directory": dir}).Debug("watching directory")
	return nil
}

// Refresh returns the channel that signals the watched directory changed.
// The channel carries the directory path and is closed by Close.
func (w *Watcher) Refresh() <-chan string {
	return w.refresh
}

// Close stops the watcher and closes the refresh channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	defer close(w.refresh)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue // content writes don't change the listing
			}
			w.mu.Lock()
			dir := w.current
			w.mu.Unlock()
			select {
			case w.refresh <- dir:
			default: // a refresh is already pending; coalesce
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warnf("watcher error: %v", err)
		}
	}
}
