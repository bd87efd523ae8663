// Package arena implements the process-wide allocator backing the shared
// value heap. Blocks handed out here outlive any single interpreter thread,
// so the arena groups them into large chunks away from per-thread memory and
// recycles freed blocks through size-classed free lists.
package arena

import (
	"fmt"
	"sync"
	"sync/atomic"
)

const (
	chunkSize    = 256 * 1024
	minBlockSize = 16
)

// Arena is a concurrency-safe block allocator. The zero value is not usable;
// call New, or use the process-wide Default arena.
type Arena struct {
	mu      sync.Mutex
	current []byte
	offset  int
	free    map[int][][]byte // size class -> recycled blocks
	inUse   atomic.Int64
}

func New() *Arena {
	return &Arena{
		current: make([]byte, chunkSize),
		free:    map[int][][]byte{},
	}
}

var defaultArena = New()

// Default returns the shared process-wide arena.
func Default() *Arena {
	return defaultArena
}

// sizeClass rounds n up to the allocation granularity: powers of two from
// minBlockSize upward.
func sizeClass(n int) int {
	c := minBlockSize
	for c < n {
		c <<= 1
	}
	return c
}

// Alloc returns a zeroed block of at least n bytes. The block is valid until
// passed to Free. Out of memory is not a recoverable condition: chunk
// allocation failure panics via the Go runtime.
func (a *Arena) Alloc(n int) []byte {
	if n < 0 {
		panic(fmt.Sprintf("arena: invalid allocation size %d", n))
	}
	class := sizeClass(n)

	a.mu.Lock()
	if blocks := a.free[class]; len(blocks) > 0 {
		block := blocks[len(blocks)-1][:class]
		a.free[class] = blocks[:len(blocks)-1]
		a.mu.Unlock()
		a.inUse.Add(int64(class))
		clear(block)
		return block[:n]
	}
	if class > chunkSize {
		// Oversized blocks get a dedicated chunk.
		a.mu.Unlock()
		a.inUse.Add(int64(class))
		return make([]byte, n, class)
	}
	if a.offset+class > len(a.current) {
		a.current = make([]byte, chunkSize)
		a.offset = 0
	}
	block := a.current[a.offset : a.offset+n : a.offset+class]
	a.offset += class
	a.mu.Unlock()
	a.inUse.Add(int64(class))
	return block
}

// Free returns a block obtained from Alloc to its size-class free list. The
// block must not be used afterward.
func (a *Arena) Free(block []byte) {
	a.FreeSized(block, cap(block))
}

// FreeSized is Free for callers that tracked the allocation size themselves.
func (a *Arena) FreeSized(block []byte, n int) {
	class := sizeClass(n)
	a.inUse.Add(-int64(class))
	if class > chunkSize {
		return // dedicated chunk, dropped to the collector
	}
	block = block[:0:class]
	a.mu.Lock()
	a.free[class] = append(a.free[class], block)
	a.mu.Unlock()
}

// InUse returns the number of bytes currently handed out, rounded up to
// size classes.
func (a *Arena) InUse() int64 {
	return a.inUse.Load()
}
