// Package shared converts runtime values into the uncounted domain and
// releases them again. Conversion deep-copies a value graph out of the
// interpreter's automatic, thread-local refcounting into immutable objects
// that are manually refcounted and safe to publish for concurrent,
// unsynchronized reads. The release path mirrors conversion: it decrements
// the manual count and frees each converted object exactly once when the
// count collapses to zero.
//
// Conversion preserves structural sharing: within one top-level call, two
// references to the same source object convert to two references to the
// same uncounted object. Values already in the uncounted or eternal domain
// pass through with at most a refcount bump, and empty arrays and interned
// strings canonicalize to process-wide singletons.
package shared

import (
	"github.com/cloudcmds/tern/arena"
	"github.com/cloudcmds/tern/stats"
)

// Alloc reserves a block of the shared arena, recording it with the
// process-wide stats collector when one is installed.
func Alloc(n int) []byte {
	if stats.Created() {
		stats.Get().AddBlock(n)
	}
	return arena.Default().Alloc(n)
}

// Free returns a block obtained from Alloc to the arena.
func Free(block []byte) {
	if stats.Created() {
		stats.Get().RemoveBlock(len(block))
	}
	arena.Default().Free(block)
}
