package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// PresetWatcher watches a presets file and invokes a callback once per
// debounced change. Watching the containing directory instead of the file
// itself survives the replace-on-save dance most editors do.
type PresetWatcher struct {
	path      string
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	done      chan struct{}
}

// WatchPresets starts watching the presets file at path. onChange runs on
// the watcher goroutine after each debounced change; keep it fast (post a
// message, do not reload inline). Stop releases the watch.
func WatchPresets(path string, debounce time.Duration, onChange func()) (*PresetWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &PresetWatcher{
		path:      path,
		fsWatcher: fsw,
		debouncer: NewDebouncer(debounce),
		done:      make(chan struct{}),
	}
	go w.loop(onChange)
	return w, nil
}

func (w *PresetWatcher) loop(onChange func()) {
	target := filepath.Clean(w.path)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.debouncer.Trigger(onChange)
			}
		case _, ok := <-w.fsWatcher.Errors:
			// Watch errors are not fatal to the viewfinder; the user can
			// still reload manually.
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// Path returns the watched file path.
func (w *PresetWatcher) Path() string {
	return w.path
}

// Stop stops watching and cancels any pending callback.
func (w *PresetWatcher) Stop() error {
	close(w.done)
	w.debouncer.Cancel()
	return w.fsWatcher.Close()
}
