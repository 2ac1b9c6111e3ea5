// Package dsl provides the fluent builder that declares Definitions, plus a
// YAML manifest loader for declaring them in configuration files.
package dsl

import (
	couchmap "github.com/couchmap/couchmap"
)

type schemaBuilder struct {
	name   string
	parent *couchmap.Definition
	fields couchmap.Fields
	views  map[string]couchmap.ViewBinding
}

type fieldStep struct {
	b    *schemaBuilder
	attr string
}

// Define creates a builder for a named Definition.
func Define(name string) *schemaBuilder {
	return &schemaBuilder{
		name:   name,
		fields: couchmap.Fields{},
		views:  map[string]couchmap.ViewBinding{},
	}
}

// Extend merges an ancestor Definition's fields and views in first; own
// declarations with the same attribute override them.
func (b *schemaBuilder) Extend(parent *couchmap.Definition) *schemaBuilder {
	b.parent = parent
	return b
}

// Field registers a field under the attribute name. A field without an
// explicit raw name adopts the attribute name.
func (b *schemaBuilder) Field(attr string, f couchmap.Field) *fieldStep {
	b.fields[attr] = f
	return &fieldStep{b: b, attr: attr}
}

// Named gives the current field an explicit raw key, kept regardless of the
// attribute it was declared under.
func (f *fieldStep) Named(name string) *schemaBuilder {
	f.b.fields[f.attr] = f.b.fields[f.attr].WithName(name)
	return f.b
}

// Default sets a fixed default for the current field.
func (f *fieldStep) Default(v any) *schemaBuilder {
	f.b.fields[f.attr] = f.b.fields[f.attr].WithDefault(v)
	return f.b
}

// DefaultFunc sets a producer default, invoked fresh on every unset read.
func (f *fieldStep) DefaultFunc(fn func() any) *schemaBuilder {
	f.b.fields[f.attr] = f.b.fields[f.attr].WithDefaultFunc(fn)
	return f.b
}

func (f *fieldStep) Field(attr string, fd couchmap.Field) *fieldStep { return f.b.Field(attr, fd) }
func (f *fieldStep) View(attr string, v couchmap.ViewBinding) *schemaBuilder {
	return f.b.View(attr, v)
}
func (f *fieldStep) Build() (*couchmap.Definition, error) { return f.b.Build() }
func (f *fieldStep) MustBuild() *couchmap.Definition      { return f.b.MustBuild() }

// View registers a view binding under the attribute name.
func (b *schemaBuilder) View(attr string, v couchmap.ViewBinding) *schemaBuilder {
	b.views[attr] = v
	return b
}

// Build validates the declarations and returns the Definition.
func (b *schemaBuilder) Build() (*couchmap.Definition, error) {
	def, err := couchmap.NewDefinition(b.name, b.parent, b.fields)
	if err != nil {
		return nil, err
	}
	for attr, v := range b.views {
		def.BindView(attr, v)
	}
	return def, nil
}

// MustBuild is like Build but panics on error.
func (b *schemaBuilder) MustBuild() *couchmap.Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}
