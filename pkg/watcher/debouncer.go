// Package watcher reloads presets when the presets file changes on disk.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounce is the default settle window. Editors tend to fire
// several events per save (write, chmod, rename); one reload per save is
// enough.
const DefaultDebounce = 250 * time.Millisecond

// Debouncer coalesces bursts of triggers into a single callback after the
// settle window elapses.
type Debouncer struct {
	window time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDebouncer creates a Debouncer. A zero window means DefaultDebounce.
func NewDebouncer(window time.Duration) *Debouncer {
	if window == 0 {
		window = DefaultDebounce
	}
	return &Debouncer{window: window}
}

// Trigger schedules fn after the settle window, replacing any pending
// callback from an earlier Trigger.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		// A newer Trigger or a Cancel invalidates this callback even if the
		// timer fired before Stop could catch it.
		stale := gen != d.gen
		if !stale {
			d.timer = nil
		}
		d.mu.Unlock()

		if !stale {
			fn()
		}
	})
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
