package shared

import (
	"fmt"

	"github.com/cloudcmds/tern/errors"
	"github.com/cloudcmds/tern/value"
)

// Convert rewrites the slot in place so that it holds only uncounted or
// eternal payloads under persistent tags. The seen map may be nil, in which
// case structural sharing within the value is not preserved. On failure the
// slot is left unmodified and no converted state is visible to the caller.
//
// Object, resource, closure, and bound-method values must be excluded by
// the caller before conversion; see Analyze. Their arrival here is an
// invariant violation, not a recoverable error.
func Convert(slot *value.Value, seen *Seen, cfg Config) error {
	switch slot.Kind {

	case value.KindFunc:
		if cfg.ShareFuncs && slot.Fn.Eternal() {
			return nil
		}
		return errors.TypeErrorf("type error: invalid conversion of bound function to string")

	case value.KindClass:
		if slot.Cls.Eternal() {
			return nil
		}
		// Pinning a non-eternal class inside long-lived shared data would
		// keep it alive past its unit; downgrade to a name reference.
		*slot = value.NewLazyClassValue(slot.Cls.Name())
		return nil

	case value.KindString, value.KindPersistentString:
		slot.Kind = value.KindPersistentString
		slot.Str = ConvertString(slot.Str, seen)
		return nil

	case value.KindList, value.KindMap, value.KindSet,
		value.KindPersistentList, value.KindPersistentMap, value.KindPersistentSet:
		arr, err := ConvertArray(slot.Arr, seen, cfg, false)
		if err != nil {
			return err
		}
		slot.Kind = slot.Kind.Persistent()
		slot.Arr = arr
		return nil

	case value.KindClassMethod:
		if cfg.ShareClassMethods && slot.CM.Class().Eternal() && value.ClassMethodsCompact {
			return nil
		}
		tmp := value.NewArrayValue(slot.CM.ToList())
		arr, err := ConvertArray(tmp.Arr, seen, cfg, false)
		tmp.DecRef()
		if err != nil {
			return err
		}
		*slot = value.Value{Kind: value.KindPersistentList, Arr: arr}
		return nil

	case value.KindUninit:
		slot.Kind = value.KindNull
		return nil

	case value.KindLazyClass, value.KindNull, value.KindBool,
		value.KindInt, value.KindFloat:
		return nil

	case value.KindRecord:
		return errors.Unsupportedf("records are not supported")

	case value.KindObject, value.KindResource, value.KindClosure, value.KindBoundMethod:
		// Analyze excludes these kinds before a graph reaches conversion.
		panic(fmt.Sprintf("shared: invariant: %s value reached conversion", slot.Kind))
	}

	panic(fmt.Sprintf("shared: invariant: unknown kind %d", slot.Kind))
}
