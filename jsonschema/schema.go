// Package jsonschema holds the minimal JSON Schema representation that a
// Definition projects into. Only the vocabulary the mapping layer produces
// is modeled; extend incrementally as codecs grow.
package jsonschema

type Schema struct {
	// Core
	Type    string `json:"type,omitempty"`
	Format  string `json:"format,omitempty"`
	Default any    `json:"default,omitempty"`

	// Object
	Properties map[string]*Schema `json:"properties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`
}
