// Package resources tracks the process-wide core budget the Scheduler
// admits jobs against. Per spec §4.8 this is a single counter with two
// operations, both expected to be called while the caller already holds the
// Scheduler's mutex; violating the invariants here is a programming error,
// not a user-facing one, so they panic rather than return an error.
package resources

import (
	"fmt"
	"runtime"
)

// Cores is a simple available/max core counter. Not safe for concurrent use
// on its own — callers (the Scheduler) serialize access under their own
// mutex.
type Cores struct {
	available int
	max       int
}

// New returns a Cores budget with the given maximum, fully available.
func New(max int) *Cores {
	if max <= 0 {
		max = DefaultMax()
	}
	return &Cores{available: max, max: max}
}

// DefaultMax returns the platform's reported logical CPU count.
func DefaultMax() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}

// Max returns the total core budget.
func (c *Cores) Max() int {
	return c.max
}

// Available returns the currently unallocated core count.
func (c *Cores) Available() int {
	return c.available
}

// Allocate subtracts n from the available budget. Panics if n exceeds what
// is available: the Scheduler must only call this after checking
// Available() >= n under its admission mutex.
func (c *Cores) Allocate(n int) {
	if n > c.available {
		panic(fmt.Sprintf("resources: allocate(%d) exceeds available %d", n, c.available))
	}
	c.available -= n
}

// Free returns n to the available budget. Panics if doing so would exceed
// the configured maximum, which would indicate a double-free.
func (c *Cores) Free(n int) {
	if c.available+n > c.max {
		panic(fmt.Sprintf("resources: free(%d) would exceed max %d (available %d)", n, c.max, c.available))
	}
	c.available += n
}
