package shared

import (
	"github.com/hashicorp/go-multierror"

	"github.com/cloudcmds/tern/errors"
	"github.com/cloudcmds/tern/value"
)

// Analysis summarizes a value graph ahead of conversion.
type Analysis struct {
	// SharedStructure reports whether any heap object in the graph is
	// referenced more than once. Only such graphs benefit from a Seen map.
	SharedStructure bool
}

// Analyze walks a value graph and reports whether it may be converted.
// Object, resource, closure, and bound-method values cannot cross into the
// uncounted domain, and a value reachable from itself can never be fully
// converted; every such finding is collected rather than stopping at the
// first. Conversion behavior on graphs that fail analysis is undefined.
func Analyze(v value.Value) (Analysis, error) {
	w := &walker{
		arrays:  map[*value.Array]walkState{},
		strings: map[*value.String]bool{},
	}
	w.walk(v)
	return w.analysis, w.err.ErrorOrNil()
}

type walkState uint8

const (
	walkOnPath walkState = iota + 1
	walkDone
)

type walker struct {
	analysis Analysis
	err      *multierror.Error
	arrays   map[*value.Array]walkState
	strings  map[*value.String]bool
}

func (w *walker) walk(v value.Value) {
	switch {
	case v.Kind.IsString():
		if w.strings[v.Str] {
			w.analysis.SharedStructure = true
			return
		}
		w.strings[v.Str] = true

	case v.Kind.IsArrayLike():
		switch w.arrays[v.Arr] {
		case walkOnPath:
			w.err = multierror.Append(w.err,
				errors.TypeErrorf("type error: cannot share cyclic value"))
			return
		case walkDone:
			w.analysis.SharedStructure = true
			return
		}
		w.arrays[v.Arr] = walkOnPath
		v.Arr.Each(func(e value.Entry) bool {
			if e.Key.Kind != value.KindUninit {
				w.walk(e.Key)
			}
			if e.Val.Kind != value.KindUninit {
				w.walk(e.Val)
			}
			return true
		})
		w.arrays[v.Arr] = walkDone

	case v.Kind == value.KindObject, v.Kind == value.KindResource,
		v.Kind == value.KindClosure, v.Kind == value.KindBoundMethod:
		w.err = multierror.Append(w.err,
			errors.TypeErrorf("type error: cannot share %s value", v.Kind))
	}
}
