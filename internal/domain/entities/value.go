// Package entities contains the aggregate roots and domain objects of the
// slicerhub profile repository: manifests, profiles, config documents and
// the tagged value tree they are built from.
package entities

import "sort"

// ValueKind discriminates the three shapes a config value can take.
type ValueKind int

const (
	KindScalar ValueKind = iota
	KindSequence
	KindMapping
)

// Value is a tagged variant over the shapes found in slicer config trees.
// Keeping the shape explicit (rather than passing interface{} around) lets
// the merge rule live in one recursive function over kinds.
//
// A Value is immutable from the caller's point of view: mutating helpers
// return new values or operate on freshly built mappings.
type Value struct {
	kind   ValueKind
	scalar any
	items  []Value
	fields map[string]Value
}

// Scalar wraps a string, number, bool or nil.
func Scalar(v any) Value {
	return Value{kind: KindScalar, scalar: v}
}

// Sequence wraps an ordered list of values.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: items}
}

// NewMapping returns an empty mapping value.
func NewMapping() Value {
	return Value{kind: KindMapping, fields: make(map[string]Value)}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsZero reports whether v is the zero value (an unset scalar).
func (v Value) IsZero() bool {
	return v.kind == KindScalar && v.scalar == nil && v.items == nil && v.fields == nil
}

// ScalarValue returns the wrapped scalar. Only meaningful for KindScalar.
func (v Value) ScalarValue() any {
	return v.scalar
}

// Items returns the sequence elements. Only meaningful for KindSequence.
func (v Value) Items() []Value {
	return v.items
}

// Keys returns the mapping keys in sorted order, for deterministic
// iteration. Only meaningful for KindMapping.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get looks up a mapping entry.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	val, ok := v.fields[key]
	return val, ok
}

// Set stores a mapping entry.
func (v Value) Set(key string, val Value) {
	v.fields[key] = val
}

// Delete removes a mapping entry.
func (v Value) Delete(key string) {
	delete(v.fields, key)
}

// Len returns the number of entries for sequences and mappings.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.fields)
	}
	return 0
}

// Copy returns a deep copy. Merging always starts from a copy of the
// parent's resolved tree so cached resolutions stay immutable.
func (v Value) Copy() Value {
	switch v.kind {
	case KindSequence:
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			items[i] = item.Copy()
		}
		return Value{kind: KindSequence, items: items}
	case KindMapping:
		fields := make(map[string]Value, len(v.fields))
		for k, val := range v.fields {
			fields[k] = val.Copy()
		}
		return Value{kind: KindMapping, fields: fields}
	default:
		return v
	}
}

// FromGo converts a decoded YAML/JSON tree into a tagged Value.
func FromGo(v any) Value {
	switch t := v.(type) {
	case map[string]any:
		m := NewMapping()
		for k, val := range t {
			m.Set(k, FromGo(val))
		}
		return m
	case map[any]any:
		m := NewMapping()
		for k, val := range t {
			if key, ok := k.(string); ok {
				m.Set(key, FromGo(val))
			}
		}
		return m
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromGo(item)
		}
		return Value{kind: KindSequence, items: items}
	default:
		return Scalar(v)
	}
}

// ToGo converts back to plain Go values for JSON/YAML emission.
func (v Value) ToGo() any {
	switch v.kind {
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.ToGo()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.fields))
		for k, val := range v.fields {
			out[k] = val.ToGo()
		}
		return out
	default:
		return v.scalar
	}
}
