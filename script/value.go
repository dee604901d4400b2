package script

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/ardnew/benv/scope"
)

// Kind is the type tag of a manifest value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

// String returns the string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "null"
	}
}

// Value is the concrete value type fed to the scope engine by this
// evaluator. It satisfies [scope.Value]: kind-tagged, compared by content,
// copied by value. Lists and maps must not be mutated after construction.
type Value struct {
	list []Value
	dict map[string]Value
	s    string
	i    int64
	f    float64
	kind Kind
	b    bool
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List returns a list value.
func List(elems ...Value) Value { return Value{kind: KindList, list: elems} }

// Map returns a map value.
func Map(entries map[string]Value) Value {
	return Value{kind: KindMap, dict: entries}
}

// FromNative converts an expression result into a Value. Integer widths
// collapse to int64 and floats to float64, matching expr-lang arithmetic.
func FromNative(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil

	case bool:
		return Bool(val), nil

	case int:
		return Int(int64(val)), nil

	case int32:
		return Int(int64(val)), nil

	case int64:
		return Int(val), nil

	case uint:
		return Int(int64(val)), nil

	case uint64:
		return Int(int64(val)), nil

	case float32:
		return Float(float64(val)), nil

	case float64:
		return Float(val), nil

	case string:
		return String(val), nil

	case []any:
		elems := make([]Value, len(val))

		for i, e := range val {
			elem, err := FromNative(e)
			if err != nil {
				return Null(), err
			}

			elems[i] = elem
		}

		return List(elems...), nil

	case map[string]any:
		entries := make(map[string]Value, len(val))

		for k, e := range val {
			entry, err := FromNative(e)
			if err != nil {
				return Null(), err
			}

			entries[k] = entry
		}

		return Map(entries), nil

	default:
		return Null(), ErrValueType.
			With(slog.String("type", fmt.Sprintf("%T", v)))
	}
}

// Native converts the Value back to its Go representation for use in
// expression environments and report encoding.
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.b

	case KindInt:
		return v.i

	case KindFloat:
		return v.f

	case KindString:
		return v.s

	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Native()
		}

		return out

	case KindMap:
		out := make(map[string]any, len(v.dict))
		for k, e := range v.dict {
			out[k] = e.Native()
		}

		return out

	default:
		return nil
	}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// Type implements [scope.Value].
func (v Value) Type() string { return v.kind.String() }

// Equal implements [scope.Value] by deep content comparison. Values of a
// different concrete type are never equal.
func (v Value) Equal(other scope.Value) bool {
	w, ok := other.(Value)
	if !ok || v.kind != w.kind {
		return false
	}

	switch v.kind {
	case KindBool:
		return v.b == w.b

	case KindInt:
		return v.i == w.i

	case KindFloat:
		return v.f == w.f

	case KindString:
		return v.s == w.s

	case KindList:
		if len(v.list) != len(w.list) {
			return false
		}

		for i := range v.list {
			if !v.list[i].Equal(w.list[i]) {
				return false
			}
		}

		return true

	case KindMap:
		if len(v.dict) != len(w.dict) {
			return false
		}

		for k, e := range v.dict {
			we, ok := w.dict[k]
			if !ok || !e.Equal(we) {
				return false
			}
		}

		return true

	default: // KindNull
		return true
	}
}

// String renders the value in manifest expression syntax.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)

	case KindInt:
		return strconv.FormatInt(v.i, 10)

	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)

	case KindString:
		return strconv.Quote(v.s)

	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}

		return "[" + strings.Join(parts, ", ") + "]"

	case KindMap:
		keys := make([]string, 0, len(v.dict))
		for k := range v.dict {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.dict[k].String()
		}

		return "{" + strings.Join(parts, ", ") + "}"

	default:
		return "nil"
	}
}
