package flatval

import (
	"fmt"
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface representing the closed set of shapes a flat
// detail field can hold after a merge round: Null, Bool, Int, Float, String,
// Array, and Object. Source attributes are always strings, but a merged
// document may hand back any JSON shape, so the union covers all of JSON.
type Value interface {
	flatValue() // Sealed - only these types implement it
}

// Null represents an explicit null field value.
// Using a concrete type (not nil) keeps the sealed interface total.
type Null struct{}

func (Null) flatValue() {}

// Bool represents a boolean field value.
type Bool bool

func (Bool) flatValue() {}

// Int represents an integer field value. Always int64.
// Numbers without a fractional part decode as Int, never Float, so that
// values beyond 2^53 survive a round trip without precision loss.
type Int int64

func (Int) flatValue() {}

// Float represents a non-integral numeric field value.
type Float float64

func (Float) flatValue() {}

// String represents a string field value. Source markup attributes always
// arrive as String.
type String string

func (String) flatValue() {}

// Array represents an ordered list of Values.
type Array []Value

func (Array) flatValue() {}

// Object represents a map of string keys to Values. Every value produced
// from a source record is an Object (attribute bag plus reserved keys).
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) flatValue() {}

// Pair is a key-value pair for literal Object construction in tests.
type Pair struct {
	Key   string
	Value Value
}

// ObjectOf builds an Object from typed pairs.
func ObjectOf(pairs ...Pair) Object {
	obj := make(Object, len(pairs))
	for _, p := range pairs {
		obj[p.Key] = p.Value
	}
	return obj
}

// P is a shorthand for Pair for ergonomic construction.
// Example: ObjectOf(P("type", String("a-f-G")), P("ce", Float(9999999)))
func P(key string, value Value) Pair {
	return Pair{Key: key, Value: value}
}

// FromAny coerces an arbitrary Go value into the closed union. Coercion is
// total: shapes outside the union are converted to their string
// representation rather than rejected, because this codec sits on the
// synchronization hot path and must never fail on upstream surprises.
func FromAny(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null{}
	case Value:
		return val
	case bool:
		return Bool(val)
	case string:
		return String(val)
	case int:
		return Int(val)
	case int32:
		return Int(val)
	case int64:
		return Int(val)
	case uint:
		return Int(val)
	case uint32:
		return Int(val)
	case float32:
		return fromFloat(float64(val))
	case float64:
		return fromFloat(val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			arr[i] = FromAny(elem)
		}
		return arr
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			obj[k] = FromAny(elem)
		}
		return obj
	default:
		return String(fmt.Sprintf("%v", v))
	}
}

// fromFloat maps integral floats (the usual product of generic JSON
// decoding) back to Int so numeric identity survives a round trip.
func fromFloat(f float64) Value {
	if f == float64(int64(f)) {
		return Int(int64(f))
	}
	return Float(f)
}

// SortedKeys returns keys in UTF-16 code unit order (RFC 8785), the ordering
// used by canonical serialization. Go's sort.Strings compares UTF-8 bytes,
// which produces a different order for strings outside the BMP.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)
	return keys
}

// compareKeysUTF16 compares strings by UTF-16 code units as required by
// RFC 8785. Must go through utf16.Encode for correct surrogate handling.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := len(a16)
	if len(b16) < minLen {
		minLen = len(b16)
	}

	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}

// Equal reports deep equality of two Values. Int and Float never compare
// equal, matching the decode rule that keeps them distinct.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !Equal(v, bvv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
