package sync

import (
	"sync"
	"time"
)

// DebounceKey identifies one editable field of one entity. Timers are keyed
// here rather than by UI component instance, so a field has exactly one
// in-flight timer no matter how often its editor re-renders.
type DebounceKey struct {
	EntityID string
	Field    string
}

// Debouncer delays a function until a quiet period has passed for its key.
// Scheduling again for the same key cancels and replaces the pending timer.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[DebounceKey]*pendingEdit
}

type pendingEdit struct {
	timer *time.Timer
	fn    func()
}

// NewDebouncer creates a debouncer with the given quiet-period delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[DebounceKey]*pendingEdit),
	}
}

// Schedule arranges for fn to run once the key has been quiet for the full
// delay. A pending timer for the same key is canceled first, so only the
// latest fn ever fires.
func (d *Debouncer) Schedule(key DebounceKey, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}
	p := &pendingEdit{fn: fn}
	p.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.pending, key)
		d.mu.Unlock()
		fn()
	})
	d.pending[key] = p
}

// Cancel drops the pending timer for the key, if any, without running it.
func (d *Debouncer) Cancel(key DebounceKey) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
}

// Pending reports whether a timer is in flight for the key.
func (d *Debouncer) Pending(key DebounceKey) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Flush runs every pending edit immediately instead of waiting out its
// delay. Used at shutdown so edits typed inside the quiet window still land.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	var fns []func()
	for key, p := range d.pending {
		if p.timer.Stop() {
			fns = append(fns, p.fn)
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Stop cancels every pending timer without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, key)
	}
}
