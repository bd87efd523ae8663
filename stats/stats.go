// Package stats collects counters for the shared value heap. The collector
// is optional: nothing is recorded until Create installs one, and every
// call site degrades to a no-op when it is absent.
package stats

import (
	"sync/atomic"
)

// Collector accumulates live-block counters. All methods are safe for
// concurrent use and safe on a nil receiver.
type Collector struct {
	liveBlocks atomic.Int64
	liveBytes  atomic.Int64
}

var collector atomic.Pointer[Collector]

// Create installs a fresh process-wide collector and returns it, replacing
// any previous one.
func Create() *Collector {
	c := &Collector{}
	collector.Store(c)
	return c
}

// Created reports whether a process-wide collector is installed.
func Created() bool {
	return collector.Load() != nil
}

// Get returns the process-wide collector, or nil when none is installed.
func Get() *Collector {
	return collector.Load()
}

// Reset removes the process-wide collector.
func Reset() {
	collector.Store(nil)
}

// AddBlock records one live shared-heap block of the given size.
func (c *Collector) AddBlock(bytes int) {
	if c == nil {
		return
	}
	c.liveBlocks.Add(1)
	c.liveBytes.Add(int64(bytes))
}

// RemoveBlock records the release of a block of the given size.
func (c *Collector) RemoveBlock(bytes int) {
	if c == nil {
		return
	}
	c.liveBlocks.Add(-1)
	c.liveBytes.Add(-int64(bytes))
}

// LiveBlocks returns the number of blocks currently live.
func (c *Collector) LiveBlocks() int64 {
	if c == nil {
		return 0
	}
	return c.liveBlocks.Load()
}

// LiveBytes returns the total size of live blocks.
func (c *Collector) LiveBytes() int64 {
	if c == nil {
		return 0
	}
	return c.liveBytes.Load()
}
