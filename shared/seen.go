package shared

import (
	"github.com/cloudcmds/tern/value"
)

// Seen maps source heap objects to their converted counterparts within one
// top-level conversion call. It is what preserves structural sharing: a
// source object referenced from two places converts once and the second
// reference reuses the first result with a refcount bump.
//
// A Seen is scoped to a single call and a single goroutine; it is never
// shared and needs no synchronization. Keys are address identities of
// source objects, held only for the duration of the call. The two maps are
// typed per converted kind, so a string identity can never resolve to an
// array or the reverse.
type Seen struct {
	strings map[*value.String]*value.String
	arrays  map[*value.Array]*value.Array
}

// NewSeen returns an empty identity map for one conversion call.
func NewSeen() *Seen {
	return &Seen{}
}

func (s *Seen) lookupString(src *value.String) *value.String {
	return s.strings[src]
}

func (s *Seen) recordString(src, converted *value.String) {
	if s.strings == nil {
		s.strings = map[*value.String]*value.String{}
	}
	s.strings[src] = converted
}

func (s *Seen) lookupArray(src *value.Array) *value.Array {
	return s.arrays[src]
}

func (s *Seen) recordArray(src, converted *value.Array) {
	if s.arrays == nil {
		s.arrays = map[*value.Array]*value.Array{}
	}
	s.arrays[src] = converted
}
