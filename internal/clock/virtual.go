package clock

import (
	"slices"
	"sync"
	"time"
)

// VirtualClock is the simulation clock. The scene driver steps it by a
// fixed number of seconds per simulated frame, so a ten minute session
// records in milliseconds and tests are deterministic. Seconds reports
// the stepped time in the float seconds the recorder works in.
//
// Thread-safe for concurrent use.
type VirtualClock struct {
	mu      sync.RWMutex
	origin  time.Time
	elapsed time.Duration
	timers  []timer // ordered by deadline
}

type timer struct {
	deadline time.Duration // elapsed time at which it fires
	ch       chan time.Time
}

// NewVirtualClock creates a VirtualClock reading start before any step.
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{origin: start}
}

func (c *VirtualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.origin.Add(c.elapsed)
}

func (c *VirtualClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Seconds returns the time stepped since the clock was created.
func (c *VirtualClock) Seconds() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.elapsed.Seconds()
}

// After returns a channel that fires once the clock has moved at least d
// further. Non-positive durations fire immediately.
func (c *VirtualClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.origin.Add(c.elapsed)
		return ch
	}
	t := timer{deadline: c.elapsed + d, ch: ch}
	// Equal deadlines keep creation order.
	i, _ := slices.BinarySearchFunc(c.timers, t.deadline, func(t timer, d time.Duration) int {
		if t.deadline <= d {
			return -1
		}
		return 1
	})
	c.timers = slices.Insert(c.timers, i, t)
	return ch
}

// Step advances the clock by seconds of simulated time.
// Panics if seconds is negative.
func (c *VirtualClock) Step(seconds float64) {
	c.Advance(Duration(seconds))
}

// Advance moves the clock forward by d and fires due timers.
// Panics if d is negative.
func (c *VirtualClock) Advance(d time.Duration) {
	if d < 0 {
		panic("clock: cannot advance by negative duration")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveTo(c.elapsed + d)
}

// Set jumps the clock to t and fires due timers.
// Panics if t is before the current time.
func (c *VirtualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	to := t.Sub(c.origin)
	if to < c.elapsed {
		panic("clock: cannot set time to the past")
	}
	c.moveTo(to)
}

// moveTo must be called with c.mu held.
func (c *VirtualClock) moveTo(elapsed time.Duration) {
	c.elapsed = elapsed
	now := c.origin.Add(elapsed)

	n := 0
	for n < len(c.timers) && c.timers[n].deadline <= elapsed {
		c.timers[n].ch <- now
		n++
	}
	c.timers = slices.Delete(c.timers, 0, n)
}

// Pending returns the number of After timers that have not fired yet.
func (c *VirtualClock) Pending() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.timers)
}
