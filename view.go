package couchmap

import "context"

// ViewBinding binds a named server-side index definition to a descriptor
// attribute. Map and Reduce are opaque to this layer (source strings for a
// server language, function values for a Go-executing store). A binding
// registered without a Name adopts the attribute it is bound under.
type ViewBinding struct {
	Design   string
	Name     string
	Map      any
	Reduce   any
	Language string // defaults to "javascript"
	// Defaults seeds the query options of every Run. Zero-valued call
	// options take the default; boolean defaults are sticky.
	Defaults *QueryOptions
}

// ViewTemplate is the deferred, typed query template a binding produces:
// bound to the owning descriptor's wrap, executed only when invoked with a
// store handle.
type ViewTemplate struct {
	binding ViewBinding
	def     *Definition
}

// Binding returns the underlying view binding.
func (t *ViewTemplate) Binding() ViewBinding { return t.binding }

// FullName returns the store-facing view name, "design/view".
func (t *ViewTemplate) FullName() string {
	return t.binding.Design + "/" + t.binding.Name
}

// Run executes the bound view. Options merge over the binding's defaults;
// rows are wrapped by the owning descriptor exactly like Definition.View.
func (t *ViewTemplate) Run(ctx context.Context, db Store, eager bool, opts QueryOptions) ([]*Document, error) {
	return t.def.View(ctx, db, t.FullName(), eager, opts.mergeDefaults(t.binding.Defaults))
}
