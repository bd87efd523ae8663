package value

import (
	"sync"
)

// internTable holds the canonical eternal copy of every interned literal.
// The compiler interns string literals as units load; conversion to the
// uncounted domain consults the table so literal content is never
// re-allocated. Two lookups of the same content return the same *String,
// so pointer comparison can stand in for content comparison.
var internTable sync.Map // string content -> *String

// Intern registers s as an eternal singleton and returns the canonical
// copy. Safe for concurrent use.
func Intern(s string) *String {
	if v, ok := internTable.Load(s); ok {
		return v.(*String)
	}
	str := newEternalString(s)
	if prev, loaded := internTable.LoadOrStore(s, str); loaded {
		return prev.(*String)
	}
	return str
}

// LookupInterned returns the eternal singleton matching b, or nil when the
// content has never been interned.
func LookupInterned(b []byte) *String {
	if v, ok := internTable.Load(string(b)); ok {
		return v.(*String)
	}
	return nil
}
