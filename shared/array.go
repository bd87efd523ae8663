package shared

import (
	"fmt"

	"github.com/cloudcmds/tern/value"
)

// Arena reservations per converted array. Entries live on the Go heap; the
// reservation keeps the shared-heap accounting honest about what the array
// costs (see arena package docs).
const (
	arrayHeaderBytes = 48
	entryBytes       = 32

	// sharedSlotBytes is reserved additionally when the caller embeds the
	// result directly in a cache slot, so the slot header is charged to the
	// same block.
	sharedSlotBytes = 16
)

// ConvertArray produces the uncounted counterpart of an array. Empty arrays
// resolve to the canonical singleton for their kind and legacy mark;
// uncounted and eternal inputs pass through with a refcount bump; compact
// arrays are normalized to the standard layout first. The hasSharedSlot
// hint only affects arena accounting, never the result.
//
// On failure every object converted along the way is released and the
// source is untouched.
func ConvertArray(in *value.Array, seen *Seen, cfg Config, hasSharedSlot bool) (*value.Array, error) {
	if in.Empty() {
		return value.EmptyArray(in.Kind(), in.Legacy()), nil
	}

	if in.Layout() == value.LayoutStandard {
		// Safe against a release racing to zero: the caller's reference
		// keeps the array alive for the duration of the bump.
		if in.PersistentIncRef() {
			return in, nil
		}
		return convertStandard(in, seen, cfg, hasSharedSlot)
	}

	std := in.ToStandard("shared.ConvertArray")
	if std.PersistentIncRef() {
		return std, nil
	}
	// The normalized copy is a temporary owned reference; drop it on every
	// remaining exit path.
	defer value.NewArrayValue(std).DecRef()
	return convertStandard(std, seen, cfg, hasSharedSlot)
}

// convertStandard deep-converts a non-empty standard-layout counted array.
func convertStandard(in *value.Array, seen *Seen, cfg Config, hasSharedSlot bool) (*value.Array, error) {
	record := seen != nil && in.HasMultipleRefs()
	if record {
		if prev := seen.lookupArray(in); prev != nil {
			prev.UncountedIncRef()
			return prev, nil
		}
	}

	src := in.Entries()
	entries := make([]value.Entry, len(src))
	for i, e := range src {
		entry := e
		if err := convertEntry(&entry, in.Kind(), seen, cfg); err != nil {
			// Discard the partial conversion so no converted state leaks.
			releaseEntries(entries[:i], in.Kind())
			return nil, err
		}
		entries[i] = entry
	}

	n := arrayHeaderBytes + entryBytes*len(entries)
	if hasSharedSlot {
		n += sharedSlotBytes
	}
	block := Alloc(n)
	out := value.AdoptUncountedArray(in.Kind(), in.Legacy(), entries, block)
	if record {
		seen.recordArray(in, out)
	}
	return out, nil
}

// convertEntry converts the populated positions of one entry: values for
// lists, keys for sets, both for maps.
func convertEntry(e *value.Entry, kind value.ArrayKind, seen *Seen, cfg Config) error {
	switch kind {
	case value.ListArray:
		return Convert(&e.Val, seen, cfg)
	case value.SetArray:
		return Convert(&e.Key, seen, cfg)
	case value.MapArray:
		if err := Convert(&e.Key, seen, cfg); err != nil {
			return err
		}
		if err := Convert(&e.Val, seen, cfg); err != nil {
			Release(e.Key)
			return err
		}
		return nil
	}
	panic(fmt.Sprintf("shared: invariant: invalid array kind %d", kind))
}

func releaseEntries(entries []value.Entry, kind value.ArrayKind) {
	for _, e := range entries {
		switch kind {
		case value.ListArray:
			Release(e.Val)
		case value.SetArray:
			Release(e.Key)
		case value.MapArray:
			Release(e.Key)
			Release(e.Val)
		}
	}
}
