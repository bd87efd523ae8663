package value

import (
	"sync/atomic"
)

// Domain identifies the refcount regime a heap object lives under.
type Domain uint8

const (
	// DomainCounted objects belong to the interpreter's automatic,
	// thread-local refcounting.
	DomainCounted Domain = iota

	// DomainUncounted objects are manually refcounted. Once published they
	// may be read concurrently from any thread without synchronization.
	DomainUncounted

	// DomainEternal objects live for the whole process and are never freed.
	// Their count is ignored.
	DomainEternal
)

func (d Domain) String() string {
	switch d {
	case DomainCounted:
		return "counted"
	case DomainUncounted:
		return "uncounted"
	case DomainEternal:
		return "eternal"
	}
	return "unknown"
}

// header is embedded in every heap object. The count is always manipulated
// atomically: uncounted objects are shared across threads, and using the
// same primitives for counted objects keeps the code uniform.
type header struct {
	domain Domain
	count  atomic.Int32
}

func (h *header) Domain() Domain {
	return h.domain
}

func (h *header) IsCounted() bool {
	return h.domain == DomainCounted
}

func (h *header) IsUncounted() bool {
	return h.domain == DomainUncounted
}

func (h *header) IsEternal() bool {
	return h.domain == DomainEternal
}

// RefCount returns the current count. Meaningless for eternal objects.
func (h *header) RefCount() int32 {
	return h.count.Load()
}

// HasMultipleRefs reports whether more than one reference points at this
// object. The automatic refcount is treated as an accurate aliasing signal.
func (h *header) HasMultipleRefs() bool {
	return h.count.Load() > 1
}

// PersistentIncRef bumps the manual count and returns true when the object
// is already outside the counted domain; eternal objects succeed without a
// bump. Returns false for counted objects, which must be deep-converted
// instead. The bump is only valid while some other reference keeps the
// object alive, so it can never race a release past zero.
func (h *header) PersistentIncRef() bool {
	switch h.domain {
	case DomainEternal:
		return true
	case DomainUncounted:
		h.count.Add(1)
		return true
	}
	return false
}

// UncountedIncRef bumps the manual count on an object known to be uncounted.
func (h *header) UncountedIncRef() {
	h.count.Add(1)
}

// UncountedDecRef drops one manual count and returns true when the count
// reaches the release threshold. Callers must pair increments and
// decrements exactly; over-decrementing is undefined.
func (h *header) UncountedDecRef() bool {
	return h.count.Add(-1) == 0
}

// FixCountForRelease folds any outstanding accounting into a consistent
// single-owner count so the free routine sees a fully owned object.
func (h *header) FixCountForRelease() {
	h.count.Store(1)
}

func (h *header) retain() {
	if h.domain == DomainCounted {
		h.count.Add(1)
	}
}

func (h *header) decRef() {
	if h.domain == DomainCounted {
		h.count.Add(-1)
	}
}
