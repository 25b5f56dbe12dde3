// Package progress tracks per-slot display progress for the active story and
// fires the auto-advance callback when the running slot completes.
//
// Only one timer is ever armed: the one for the current slot. Slots before it
// read as complete and slots after it as empty, so a story of any length needs
// no per-slot timer objects.
package progress

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Table holds the progress indicators of one story.
type Table struct {
	clock clockwork.Clock

	mu       sync.Mutex
	slots    int
	current  int
	duration time.Duration
	elapsed  time.Duration // accumulated before started
	started  time.Time
	running  bool
	armed    bool // a slot timer exists, running or paused
	timer    clockwork.Timer
	token    uint64
	onDone   func()
}

// NewTable creates an empty table reading time from clock.
func NewTable(clock clockwork.Clock) *Table {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Table{clock: clock}
}

// Reset discards every indicator and creates slots fresh ones, all empty.
// Any running timer is cancelled first.
func (t *Table) Reset(slots int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.slots = max(slots, 0)
	t.current = 0
}

// Select makes slot current without arming a timer. Its progress reads 0
// until Start is called.
func (t *Table) Select(slot int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.current = t.clampLocked(slot)
}

// Start cancels any running timer and arms a new one for slot. onDone runs
// on the clock's goroutine once the full duration has elapsed while running.
func (t *Table) Start(slot int, d time.Duration, onDone func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.current = t.clampLocked(slot)
	t.duration = d
	t.onDone = onDone
	t.armed = true
	t.armLocked(d)
}

// Pause suspends the running timer, keeping the elapsed time.
// Returns false if nothing was running.
func (t *Table) Pause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return false
	}
	t.elapsed += t.clock.Since(t.started)
	t.elapsed = min(t.elapsed, t.duration)
	t.running = false
	t.stopLocked()
	return true
}

// Resume continues a paused timer for the remaining duration of its slot.
// Returns false if no paused timer exists.
func (t *Table) Resume() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.armed || t.running || t.elapsed >= t.duration {
		return false
	}
	t.armLocked(t.duration - t.elapsed)
	return true
}

// Cancel stops the timer. A callback already racing past this point is
// dropped.
func (t *Table) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

// Running reports whether the current slot's timer is advancing.
func (t *Table) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Len returns the number of slots.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.slots
}

// Current returns the current slot index.
func (t *Table) Current() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Remaining returns the time left on the current slot, or 0 if unarmed.
func (t *Table) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.armed {
		return 0
	}
	return max(t.duration-t.elapsedLocked(), 0)
}

// Value returns the progress of slot i in [0, 1].
func (t *Table) Value(i int) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.valueLocked(i)
}

// Values returns the progress of every slot.
func (t *Table) Values() []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]float64, t.slots)
	for i := range out {
		out[i] = t.valueLocked(i)
	}
	return out
}

func (t *Table) valueLocked(i int) float64 {
	switch {
	case i < t.current:
		return 1
	case i > t.current || !t.armed || t.duration <= 0:
		return 0
	}
	v := float64(t.elapsedLocked()) / float64(t.duration)
	return min(max(v, 0), 1)
}

func (t *Table) elapsedLocked() time.Duration {
	if t.running {
		return t.elapsed + t.clock.Since(t.started)
	}
	return t.elapsed
}

func (t *Table) armLocked(d time.Duration) {
	t.token++
	token := t.token
	t.started = t.clock.Now()
	t.running = true
	t.timer = t.clock.AfterFunc(max(d, 0), func() { t.fire(token) })
}

func (t *Table) fire(token uint64) {
	t.mu.Lock()
	if token != t.token || !t.running {
		t.mu.Unlock()
		return
	}
	t.elapsed = t.duration
	t.running = false
	t.timer = nil
	fn := t.onDone
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (t *Table) stopLocked() {
	t.token++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Table) cancelLocked() {
	t.stopLocked()
	t.running = false
	t.armed = false
	t.elapsed = 0
	t.duration = 0
	t.onDone = nil
}

func (t *Table) clampLocked(slot int) int {
	if t.slots == 0 {
		return 0
	}
	return min(max(slot, 0), t.slots-1)
}
