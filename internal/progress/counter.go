// Package progress tracks how many nodes of an analysis run have completed.
package progress

import "sync/atomic"

// Counter counts completed nodes within one analysis run. Many workers
// increment it concurrently while observers poll it; reads are never torn
// and no increment is lost. Between resets the value is monotonically
// non-decreasing, though a polling observer may skip intermediate values.
//
// One counter serves one run at a time; Reset before reuse.
type Counter struct {
	n atomic.Int64
}

// Reset sets the counter back to zero for a fresh run.
func (c *Counter) Reset() {
	c.n.Store(0)
}

// Increment records one completed node.
func (c *Counter) Increment() {
	c.n.Add(1)
}

// Count returns the number of nodes completed so far.
func (c *Counter) Count() int {
	return int(c.n.Load())
}
