package couchmap

import (
	js "github.com/couchmap/couchmap/jsonschema"
)

// Converter performs bidirectional conversion between the raw wire encoding
// of one attribute and its typed value. Conversions are pure, deterministic,
// and total over the stated wire shape; malformed input fails with Issues.
type Converter interface {
	// ToValue converts the raw wire encoding into the typed value.
	ToValue(raw any) (any, error)
	// ToRaw converts a typed value into its raw wire encoding.
	ToRaw(v any) (any, error)
	// JSONSchema projects the wire shape into a JSON Schema fragment.
	JSONSchema() *js.Schema
}

// keyBinder is implemented by converters whose typed view must stay attached
// to the enclosing document key (raw sequences reallocate on append, so the
// view writes the new slice back through the parent).
type keyBinder interface {
	bindKey(doc RawDocument, key string) any
}

// slotBinder is the sequence-element counterpart of keyBinder: the typed
// view of a nested sequence stays attached to its slot in the outer one.
type slotBinder interface {
	bindSlot(list RawList, i int) any
}

// Field binds one raw key to a Converter plus a default policy. A Field with
// an empty name adopts the attribute name it is registered under; one with
// an explicit name keeps it regardless of the registration attribute.
//
// Fields are immutable values; the With* methods return modified copies.
type Field struct {
	name      string
	conv      Converter
	defaultFn func() any
}

// NewField builds a Field over the given converter with no name and no
// default.
func NewField(conv Converter) Field {
	return Field{conv: conv}
}

// WithName returns a copy carrying an explicit raw key name.
func (f Field) WithName(name string) Field {
	f.name = name
	return f
}

// WithDefault returns a copy whose unset reads yield the fixed value v.
func (f Field) WithDefault(v any) Field {
	f.defaultFn = func() any { return v }
	return f
}

// WithDefaultFunc returns a copy whose unset reads invoke fn anew on every
// call. The result is never memoized and never written to the backing store.
func (f Field) WithDefaultFunc(fn func() any) Field {
	f.defaultFn = fn
	return f
}

// Name returns the raw key this field reads and writes. Empty until the
// field is registered or explicitly named.
func (f Field) Name() string { return f.name }

// Converter returns the field's converter.
func (f Field) Converter() Converter { return f.conv }

// HasDefault reports whether an unset read produces a default.
func (f Field) HasDefault() bool { return f.defaultFn != nil }

// Get reads the typed value of this field from doc. A present, non-null raw
// value is converted; otherwise the default (if any) is produced; otherwise
// the result is nil. Conversion happens on every call, never cached.
func (f Field) Get(doc RawDocument) (any, error) {
	if b, ok := f.conv.(keyBinder); ok {
		return b.bindKey(doc, f.name), nil
	}
	raw, ok := doc[f.name]
	if ok && raw != nil {
		v, err := f.conv.ToValue(raw)
		if err != nil {
			return nil, prefixPath(err, "/"+f.name)
		}
		return v, nil
	}
	if f.defaultFn != nil {
		return f.defaultFn(), nil
	}
	return nil, nil
}

// Set writes the typed value v into doc under this field's raw key. A nil
// value is stored as null directly, bypassing conversion.
func (f Field) Set(doc RawDocument, v any) error {
	if v == nil {
		doc[f.name] = nil
		return nil
	}
	raw, err := f.conv.ToRaw(v)
	if err != nil {
		return prefixPath(err, "/"+f.name)
	}
	doc[f.name] = raw
	return nil
}
