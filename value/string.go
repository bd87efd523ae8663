package value

import (
	"bytes"
)

// String is a heap-allocated byte string. Strings are immutable once they
// leave the counted domain; uncounted strings keep their bytes in an arena
// block so the shared allocator can account for them.
type String struct {
	header
	data  []byte
	block []byte // arena block backing data; nil for counted and eternal strings
}

// NewString allocates a counted string holding a copy of s.
func NewString(s string) *String {
	str := &String{data: []byte(s)}
	str.count.Store(1)
	return str
}

// NewStringFromBytes allocates a counted string holding a copy of b.
func NewStringFromBytes(b []byte) *String {
	str := &String{data: append([]byte(nil), b...)}
	str.count.Store(1)
	return str
}

// AdoptUncountedString wraps arena-backed bytes as an uncounted string with
// a manual count of one. The data must lie inside block; the caller
// transfers ownership of the block, which is returned by Block when the
// string is released.
func AdoptUncountedString(data, block []byte) *String {
	str := &String{
		header: header{domain: DomainUncounted},
		data:   data,
		block:  block,
	}
	str.count.Store(1)
	return str
}

func newEternalString(s string) *String {
	return &String{
		header: header{domain: DomainEternal},
		data:   []byte(s),
	}
}

// Bytes returns the raw bytes. Callers must not mutate them.
func (s *String) Bytes() []byte {
	return s.data
}

func (s *String) String() string {
	return string(s.data)
}

func (s *String) Len() int {
	return len(s.data)
}

func (s *String) Empty() bool {
	return len(s.data) == 0
}

func (s *String) EqualBytes(b []byte) bool {
	return bytes.Equal(s.data, b)
}

// Block returns the arena block backing an uncounted string, or nil.
func (s *String) Block() []byte {
	return s.block
}

var emptyString = newEternalString("")

// EmptyString returns the process-wide eternal empty string.
func EmptyString() *String {
	return emptyString
}
