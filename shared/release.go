package shared

import (
	"fmt"

	"github.com/cloudcmds/tern/value"
)

// Release drops one manual reference from a converted value's heap payload.
// Values with no heap payload are no-ops; a value still under automatic
// refcounting is an invariant violation, since this path is only valid for
// converted values. Increments and decrements must be paired exactly by
// callers; an over-release is undefined behavior, not a guarded error.
func Release(v value.Value) {
	switch {
	case v.Kind.IsString():
		ReleaseString(v.Str)
	case v.Kind.IsArrayLike():
		ReleaseArray(v.Arr)
	default:
		if v.Kind.IsCounted() {
			panic(fmt.Sprintf("shared: invariant: release of counted %s value", v.Kind))
		}
	}
}

// ReleaseArray drops one manual reference from an array. When the count
// reaches zero the array releases every child through the same path and
// returns its arena block. Eternal arrays, including the canonical empty
// singletons, are never released.
func ReleaseArray(a *value.Array) {
	if a.IsCounted() {
		panic("shared: invariant: uncounted release of counted array")
	}
	if a.IsUncounted() && a.UncountedDecRef() {
		a.FixCountForRelease()
		releaseEntries(a.Entries(), a.Kind())
		if block := a.Block(); block != nil {
			Free(block)
		}
	}
}

// ReleaseString drops one manual reference from a string, returning its
// arena block when the count reaches zero. Eternal strings, including the
// empty singleton and all interned strings, are never released.
func ReleaseString(s *value.String) {
	if s.IsCounted() {
		panic("shared: invariant: uncounted release of counted string")
	}
	if s.IsUncounted() && s.UncountedDecRef() {
		s.FixCountForRelease()
		if block := s.Block(); block != nil {
			Free(block)
		}
	}
}
