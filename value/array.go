package value

import (
	"fmt"
)

// ArrayKind distinguishes the three array shapes: ordered lists, insertion
// ordered maps, and unique-key sets.
type ArrayKind uint8

const (
	ListArray ArrayKind = iota
	MapArray
	SetArray
)

func (k ArrayKind) String() string {
	switch k {
	case ListArray:
		return "list"
	case MapArray:
		return "map"
	case SetArray:
		return "set"
	}
	return "unknown"
}

func (k ArrayKind) valueKind() Kind {
	switch k {
	case ListArray:
		return KindList
	case MapArray:
		return KindMap
	case SetArray:
		return KindSet
	}
	panic(fmt.Sprintf("value: invalid array kind %d", k))
}

// Layout identifies the physical representation of an array. Only the
// standard layout is convertible to the uncounted domain directly; compact
// arrays are normalized first.
type Layout uint8

const (
	// LayoutStandard stores entries in an ordered slice with a lookup index.
	LayoutStandard Layout = iota

	// LayoutCompact stores homogeneous int lists unboxed. Compact arrays are
	// immutable; mutation goes through ToStandard.
	LayoutCompact
)

// Entry is one element of an array. Lists populate Val only, sets populate
// Key only, maps populate both.
type Entry struct {
	Key Value
	Val Value
}

// mapKey is the lookup form of a map or set key. Keys are ints or strings.
type mapKey struct {
	str   string
	num   int64
	isStr bool
}

func lookupKey(v Value) (mapKey, bool) {
	switch v.Kind {
	case KindInt:
		return mapKey{num: v.Int}, true
	case KindString, KindPersistentString:
		return mapKey{str: v.Str.String(), isStr: true}, true
	}
	return mapKey{}, false
}

// OnEscalate, when set, observes every compact-to-standard normalization.
// The label names the operation that forced the copy.
var OnEscalate func(label string)

// Array is a heap-allocated array of any of the three kinds.
type Array struct {
	header
	kind    ArrayKind
	layout  Layout
	legacy  bool
	entries []Entry
	index   map[mapKey]int
	ints    []int64 // compact layout payload
	block   []byte  // arena accounting block; nil for counted and eternal arrays
}

// NewList allocates an empty counted list.
func NewList() *Array {
	a := &Array{kind: ListArray}
	a.count.Store(1)
	return a
}

// NewListOf allocates a counted list adopting the given values: the list
// takes over the caller's reference to each element.
func NewListOf(vals ...Value) *Array {
	a := NewList()
	for _, v := range vals {
		a.entries = append(a.entries, Entry{Val: v})
	}
	return a
}

// NewMap allocates an empty counted map. Iteration follows insertion order.
func NewMap() *Array {
	a := &Array{kind: MapArray, index: map[mapKey]int{}}
	a.count.Store(1)
	return a
}

// NewSet allocates an empty counted set of unique int or string keys.
func NewSet() *Array {
	a := &Array{kind: SetArray, index: map[mapKey]int{}}
	a.count.Store(1)
	return a
}

// NewCompactList allocates a counted list of ints in the compact layout.
func NewCompactList(ints ...int64) *Array {
	a := &Array{kind: ListArray, layout: LayoutCompact, ints: ints}
	a.count.Store(1)
	return a
}

// AdoptUncountedArray wraps already-converted entries as an uncounted array
// with a manual count of one. The block reserves arena space for the array
// and is returned by Block when the array is released; the entries
// themselves live on the Go heap.
func AdoptUncountedArray(kind ArrayKind, legacy bool, entries []Entry, block []byte) *Array {
	a := &Array{
		header:  header{domain: DomainUncounted},
		kind:    kind,
		legacy:  legacy,
		entries: entries,
		block:   block,
	}
	if kind != ListArray {
		a.index = make(map[mapKey]int, len(entries))
		for i, e := range entries {
			if k, ok := lookupKey(e.Key); ok {
				a.index[k] = i
			}
		}
	}
	a.count.Store(1)
	return a
}

var (
	emptyList       = newEternalEmpty(ListArray, false)
	emptyLegacyList = newEternalEmpty(ListArray, true)
	emptyMap        = newEternalEmpty(MapArray, false)
	emptyLegacyMap  = newEternalEmpty(MapArray, true)
	emptySet        = newEternalEmpty(SetArray, false)
)

func newEternalEmpty(kind ArrayKind, legacy bool) *Array {
	return &Array{
		header: header{domain: DomainEternal},
		kind:   kind,
		legacy: legacy,
	}
}

// EmptyArray returns the process-wide eternal empty array for the given
// kind and legacy mark. Sets carry no legacy mark.
func EmptyArray(kind ArrayKind, legacy bool) *Array {
	switch kind {
	case ListArray:
		if legacy {
			return emptyLegacyList
		}
		return emptyList
	case MapArray:
		if legacy {
			return emptyLegacyMap
		}
		return emptyMap
	case SetArray:
		return emptySet
	}
	panic(fmt.Sprintf("value: invalid array kind %d", kind))
}

func (a *Array) Kind() ArrayKind {
	return a.kind
}

func (a *Array) Layout() Layout {
	return a.layout
}

// Legacy reports the serialization-compatibility mark carried by arrays
// migrated from the legacy collection types.
func (a *Array) Legacy() bool {
	return a.legacy
}

// SetLegacy sets the serialization-compatibility mark on a counted array.
func (a *Array) SetLegacy(mark bool) {
	if a.domain != DomainCounted {
		panic(fmt.Sprintf("value: legacy mark on %s array", a.domain))
	}
	a.legacy = mark
}

func (a *Array) Len() int {
	if a.layout == LayoutCompact {
		return len(a.ints)
	}
	return len(a.entries)
}

func (a *Array) Empty() bool {
	return a.Len() == 0
}

// Block returns the arena block reserved for an uncounted array, or nil.
func (a *Array) Block() []byte {
	return a.block
}

// Each calls fn for every entry in canonical order: index order for lists,
// insertion order for maps and sets. Return false to stop.
func (a *Array) Each(fn func(e Entry) bool) {
	if a.layout == LayoutCompact {
		for _, n := range a.ints {
			if !fn(Entry{Val: NewInt(n)}) {
				return
			}
		}
		return
	}
	for _, e := range a.entries {
		if !fn(e) {
			return
		}
	}
}

// Entries returns the backing entry slice of a standard-layout array.
// Callers must not mutate it.
func (a *Array) Entries() []Entry {
	if a.layout != LayoutStandard {
		panic(fmt.Sprintf("value: Entries on %s layout array", a.layout))
	}
	return a.entries
}

// Append adds a value to the end of a list, retaining it.
func (a *Array) Append(v Value) {
	a.mutableCheck("append")
	if a.kind != ListArray {
		panic(fmt.Sprintf("value: append on %s array", a.kind))
	}
	v.Retain()
	a.entries = append(a.entries, Entry{Val: v})
}

// Set stores key/val in a map, retaining both. Updating an existing key
// keeps its position in the iteration order.
func (a *Array) Set(key, val Value) {
	a.mutableCheck("set")
	if a.kind != MapArray {
		panic(fmt.Sprintf("value: set on %s array", a.kind))
	}
	k, ok := lookupKey(key)
	if !ok {
		panic(fmt.Sprintf("value: invalid map key kind %s", key.Kind))
	}
	if i, exists := a.index[k]; exists {
		old := a.entries[i].Val
		val.Retain()
		a.entries[i].Val = val
		old.DecRef()
		return
	}
	key.Retain()
	val.Retain()
	a.index[k] = len(a.entries)
	a.entries = append(a.entries, Entry{Key: key, Val: val})
}

// Add inserts a key into a set, retaining it. Duplicates are ignored.
func (a *Array) Add(key Value) {
	a.mutableCheck("add")
	if a.kind != SetArray {
		panic(fmt.Sprintf("value: add on %s array", a.kind))
	}
	k, ok := lookupKey(key)
	if !ok {
		panic(fmt.Sprintf("value: invalid set key kind %s", key.Kind))
	}
	if _, exists := a.index[k]; exists {
		return
	}
	key.Retain()
	a.index[k] = len(a.entries)
	a.entries = append(a.entries, Entry{Key: key})
}

// Get looks up a map value or set membership by key.
func (a *Array) Get(key Value) (Value, bool) {
	k, ok := lookupKey(key)
	if !ok || a.index == nil {
		return Value{}, false
	}
	i, exists := a.index[k]
	if !exists {
		return Value{}, false
	}
	if a.kind == SetArray {
		return a.entries[i].Key, true
	}
	return a.entries[i].Val, true
}

// At returns the list element at index i.
func (a *Array) At(i int) Value {
	if a.layout == LayoutCompact {
		return NewInt(a.ints[i])
	}
	if a.kind == SetArray {
		return a.entries[i].Key
	}
	return a.entries[i].Val
}

// ToStandard normalizes a compact array into a fresh counted standard-layout
// copy. The copy starts with a count of one owned by the caller. The label
// names the operation forcing the copy, for escalation diagnostics.
func (a *Array) ToStandard(label string) *Array {
	if a.layout == LayoutStandard {
		a.retain()
		return a
	}
	if OnEscalate != nil {
		OnEscalate(label)
	}
	out := NewList()
	out.legacy = a.legacy
	out.entries = make([]Entry, len(a.ints))
	for i, n := range a.ints {
		out.entries[i] = Entry{Val: NewInt(n)}
	}
	return out
}

func (a *Array) mutableCheck(op string) {
	if a.domain != DomainCounted {
		panic(fmt.Sprintf("value: %s on %s array", op, a.domain))
	}
	if a.layout != LayoutStandard {
		panic(fmt.Sprintf("value: %s on compact array", op))
	}
}

func (l Layout) String() string {
	switch l {
	case LayoutStandard:
		return "standard"
	case LayoutCompact:
		return "compact"
	}
	return "unknown"
}
