package shared

import (
	"github.com/cloudcmds/tern/value"
)

// stringHeaderBytes is the arena reservation for a string beyond its data.
const stringHeaderBytes = 16

// ConvertString produces the uncounted counterpart of a string. Uncounted
// and eternal inputs pass through with at most a refcount bump; empty and
// interned content resolves to the process-wide singletons; everything else
// is copied byte for byte into an arena-backed immutable string.
func ConvertString(in *value.String, seen *Seen) *value.String {
	if in.PersistentIncRef() {
		return in
	}
	if in.Empty() {
		return value.EmptyString()
	}
	if st := value.LookupInterned(in.Bytes()); st != nil {
		return st
	}

	record := seen != nil && in.HasMultipleRefs()
	if record {
		if prev := seen.lookupString(in); prev != nil {
			prev.UncountedIncRef()
			return prev
		}
	}

	block := Alloc(stringHeaderBytes + in.Len())
	data := block[stringHeaderBytes:]
	copy(data, in.Bytes())
	out := value.AdoptUncountedString(data, block)
	if record {
		seen.recordString(in, out)
	}
	return out
}
