// Package state owns the single stats aggregator shared by the capture loop
// and the dashboard loop. The aggregator is reachable only through the
// controller, so every read and write is serialized by its mutex.
package state

import (
	"sync"

	"firestige.xyz/netwatch/internal/stats"
)

// Controller wraps one aggregator behind a mutex. Lock hold times are O(1)
// per call (a few field writes and bounded window operations), which keeps
// contention negligible even at high packet rates.
type Controller struct {
	mu  sync.Mutex
	agg *stats.Aggregator
}

// NewController takes ownership of the aggregator. Callers must drop their
// own reference; access after this point goes through WithLock or Snapshot.
func NewController(agg *stats.Aggregator) *Controller {
	return &Controller{agg: agg}
}

// WithLock runs fn with exclusive access to the aggregator. The lock is
// released on every exit path; a panic inside fn unlocks and then propagates
// to the caller rather than being swallowed, so a faulting holder takes the
// process down instead of silently dropping updates.
func (c *Controller) WithLock(fn func(*stats.Aggregator)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.agg)
}

// Snapshot returns a point-in-time copy of the aggregator state for one
// render frame. The copy is taken under the lock; rendering happens after it
// is released.
func (c *Controller) Snapshot() stats.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.agg.Snapshot()
}

// Running reports whether a stop has been requested.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.agg.Running()
}
