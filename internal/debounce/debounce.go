// Package debounce delays rapidly repeated actions until a quiet period has
// elapsed, keeping only the most recent invocation.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs fn with the arguments of the last Call once delay has passed
// without another Call.
type Debouncer[T any] struct {
	fn    func(T)
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	last    T
	pending bool
	stopped bool
}

// Func returns a debounced wrapper around fn.
func Func[T any](fn func(T), delay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{fn: fn, delay: delay}
}

// Call records v and restarts the quiet-period timer.
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.last = v
	d.pending = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// a timer that lost the race with Stop or a newer Call carries a stale gen
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	v := d.last
	d.pending = false
	d.mu.Unlock()

	d.fn(v)
}

// Flush runs a pending call immediately. It reports whether anything ran.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	v := d.last
	d.pending = false
	d.mu.Unlock()

	d.fn(v)
	return true
}

// Pending reports whether a call is waiting for its quiet period.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop drops any pending call and ignores future ones.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
}

// Value holds a value that only settles after delay without further updates.
type Value[T any] struct {
	mu    sync.RWMutex
	value T
	d     *Debouncer[T]
}

// NewValue returns a debounced value starting at initial.
func NewValue[T any](initial T, delay time.Duration) *Value[T] {
	v := &Value[T]{value: initial}
	v.d = Func(func(next T) {
		v.mu.Lock()
		v.value = next
		v.mu.Unlock()
	}, delay)
	return v
}

// Set schedules next to become the settled value.
func (v *Value[T]) Set(next T) { v.d.Call(next) }

// Get returns the last settled value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Stop discards any unsettled update.
func (v *Value[T]) Stop() { v.d.Stop() }
