// Package value implements the tagged value slots and heap objects used by
// the Tern runtime.
//
// A Value is a small tagged union: a Kind plus a payload. Scalar kinds carry
// their payload inline; string, array, and entity kinds point at heap
// objects. Every heap object records which refcount domain it lives in: the
// automatic, thread-local domain the interpreter manages; the uncounted
// domain, whose objects are manually refcounted and safe for concurrent
// unsynchronized reads; or the eternal domain, whose objects are never freed.
package value

// Kind identifies the type of value stored in a slot.
type Kind uint8

const (
	KindUninit Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindPersistentString
	KindList
	KindPersistentList
	KindMap
	KindPersistentMap
	KindSet
	KindPersistentSet
	KindFunc
	KindClass
	KindLazyClass
	KindClassMethod
	KindObject
	KindResource
	KindClosure
	KindBoundMethod
	KindRecord
)

var kindNames = map[Kind]string{
	KindUninit:           "uninit",
	KindNull:             "null",
	KindBool:             "bool",
	KindInt:              "int",
	KindFloat:            "float",
	KindString:           "string",
	KindPersistentString: "persistent string",
	KindList:             "list",
	KindPersistentList:   "persistent list",
	KindMap:              "map",
	KindPersistentMap:    "persistent map",
	KindSet:              "set",
	KindPersistentSet:    "persistent set",
	KindFunc:             "func",
	KindClass:            "class",
	KindLazyClass:        "lazy class",
	KindClassMethod:      "class method",
	KindObject:           "object",
	KindResource:         "resource",
	KindClosure:          "closure",
	KindBoundMethod:      "bound method",
	KindRecord:           "record",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsString returns true for both the counted and persistent string kinds.
func (k Kind) IsString() bool {
	return k == KindString || k == KindPersistentString
}

// IsArrayLike returns true for the six array kinds.
func (k Kind) IsArrayLike() bool {
	switch k {
	case KindList, KindPersistentList, KindMap, KindPersistentMap,
		KindSet, KindPersistentSet:
		return true
	}
	return false
}

// IsCounted returns true for kinds whose payload may live in the automatic
// refcount domain.
func (k Kind) IsCounted() bool {
	switch k {
	case KindString, KindList, KindMap, KindSet,
		KindObject, KindResource, KindClosure, KindBoundMethod, KindRecord:
		return true
	}
	return false
}

// Persistent maps a counted string or array kind onto its persistent
// variant. Kinds with no persistent variant are returned unchanged.
func (k Kind) Persistent() Kind {
	switch k {
	case KindString:
		return KindPersistentString
	case KindList:
		return KindPersistentList
	case KindMap:
		return KindPersistentMap
	case KindSet:
		return KindPersistentSet
	}
	return k
}

// Value is a tagged value slot. Exactly one payload field is meaningful for
// any given Kind; the rest are zero.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Str   *String
	Arr   *Array
	Fn    *Func
	Cls   *Class
	CM    *ClassMethod

	// Ref carries the payload for object, resource, closure, bound method,
	// and record kinds. This package treats those payloads as opaque.
	Ref any
}

func Null() Value {
	return Value{Kind: KindNull}
}

func NewBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

func NewInt(i int64) Value {
	return Value{Kind: KindInt, Int: i}
}

func NewFloat(f float64) Value {
	return Value{Kind: KindFloat, Float: f}
}

func NewStringValue(s *String) Value {
	kind := KindString
	if !s.IsCounted() {
		kind = KindPersistentString
	}
	return Value{Kind: kind, Str: s}
}

func NewArrayValue(a *Array) Value {
	kind := a.Kind().valueKind()
	if !a.IsCounted() {
		kind = kind.Persistent()
	}
	return Value{Kind: kind, Arr: a}
}

func NewFuncValue(fn *Func) Value {
	return Value{Kind: KindFunc, Fn: fn}
}

func NewClassValue(cls *Class) Value {
	return Value{Kind: KindClass, Cls: cls}
}

// NewLazyClassValue builds a lazy class-name reference. The name string must
// be eternal; lazy references are resolved by name at use sites and carry no
// liveness obligation for the class itself.
func NewLazyClassValue(name *String) Value {
	if name.IsCounted() {
		panic("value: lazy class name must be eternal")
	}
	return Value{Kind: KindLazyClass, Str: name}
}

func NewClassMethodValue(cm *ClassMethod) Value {
	return Value{Kind: KindClassMethod, CM: cm}
}

// Retain bumps the automatic refcount on the value's heap payload, if it has
// one. Containers call this when they take a reference to an element.
func (v Value) Retain() {
	switch {
	case v.Kind.IsString():
		v.Str.retain()
	case v.Kind.IsArrayLike():
		v.Arr.retain()
	}
}

// DecRef drops one automatic refcount from the value's heap payload. The Go
// collector reclaims the memory; the count exists so the runtime can tell
// singly-referenced objects from shared ones.
func (v Value) DecRef() {
	switch {
	case v.Kind.IsString():
		v.Str.decRef()
	case v.Kind.IsArrayLike():
		v.Arr.decRef()
	}
}
