package couchmap

import "sort"

// Schema is a typed record wrapping exactly one RawDocument, its backing
// store. Typed access delegates to the descriptor's Fields; raw map-like
// operations act on backing-store keys directly, independent of declared
// fields, so untyped keys round-trip even without a matching Field.
//
// Wrapped instances alias their backing store: two wrappers over the same
// RawDocument observe each other's raw-level mutations. That sharing is the
// documented contract, not an accident.
type Schema struct {
	def  *Definition
	data RawDocument
}

// Definition returns the descriptor this instance was built from.
func (s *Schema) Definition() *Definition { return s.def }

// Unwrap returns the live backing store. Not a copy; mutations through the
// returned map are visible to every wrapper sharing it.
func (s *Schema) Unwrap() RawDocument { return s.data }

// Get converts and returns the field registered under attr. Exactly one
// field conversion runs per call; nothing is cached between accesses.
func (s *Schema) Get(attr string) (any, error) {
	f, ok := s.def.reg.Field(attr)
	if !ok {
		return nil, Issues{{Path: "/" + attr, Code: CodeUnknownField}}
	}
	return f.Get(s.data)
}

// Set converts v and writes it under the field registered under attr.
func (s *Schema) Set(attr string, v any) error {
	f, ok := s.def.reg.Field(attr)
	if !ok {
		return Issues{{Path: "/" + attr, Code: CodeUnknownField}}
	}
	return f.Set(s.data, v)
}

// List returns the lazy typed view over the raw sequence field attr.
func (s *Schema) List(attr string) (*ListProxy, error) {
	v, err := s.Get(attr)
	if err != nil {
		return nil, err
	}
	p, ok := v.(*ListProxy)
	if !ok {
		return nil, Issues{{Path: "/" + attr, Code: CodeInvalidType, Hint: "not a list field"}}
	}
	return p, nil
}

// Dict returns the nested Schema stored under the dict field attr, or nil
// when the key is absent.
func (s *Schema) Dict(attr string) (*Schema, error) {
	v, err := s.Get(attr)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	sub, ok := v.(*Schema)
	if !ok {
		return nil, Issues{{Path: "/" + attr, Code: CodeInvalidType, Hint: "not a dict field"}}
	}
	return sub, nil
}

// As converts the field registered under attr and asserts its typed form.
func As[T any](s *Schema, attr string) (T, error) {
	var zero T
	v, err := s.Get(attr)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, Issues{{Path: "/" + attr, Code: CodeInvalidType}}
	}
	return t, nil
}

// ---- raw map-like access; bypasses Field conversion entirely ----

// Has reports whether the backing store holds the raw key.
func (s *Schema) Has(key string) bool {
	_, ok := s.data[key]
	return ok
}

// Len returns the number of raw keys in the backing store.
func (s *Schema) Len() int { return len(s.data) }

// Lookup returns the raw value stored under key.
func (s *Schema) Lookup(key string) (any, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Put stores a raw value under key without conversion.
func (s *Schema) Put(key string, v any) { s.data[key] = v }

// Delete removes a raw key from the backing store.
func (s *Schema) Delete(key string) { delete(s.data, key) }

// Keys returns every raw key in sorted order.
func (s *Schema) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
