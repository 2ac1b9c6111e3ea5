package couchmap

import "context"

// Row is one result row produced by a store's index facility. Doc is the
// attached full document when the store was asked to include it.
type Row struct {
	ID    string
	Key   any
	Value any
	Doc   RawDocument
}

// QueryOptions carries the query string parameters understood by the store
// contract. The zero value means "no constraint".
type QueryOptions struct {
	Key         any
	StartKey    any
	EndKey      any
	Limit       int
	Skip        int
	Descending  bool
	IncludeDocs bool
	Group       bool
	// NoReduce forces map-only output even when a reduce function exists.
	NoReduce bool
}

// mergeDefaults fills zero-valued options from a binding's defaults.
// Boolean defaults are sticky: false at the call site is indistinguishable
// from unset, so a default of true cannot be switched back off.
func (o QueryOptions) mergeDefaults(def *QueryOptions) QueryOptions {
	if def == nil {
		return o
	}
	if o.Key == nil {
		o.Key = def.Key
	}
	if o.StartKey == nil {
		o.StartKey = def.StartKey
	}
	if o.EndKey == nil {
		o.EndKey = def.EndKey
	}
	if o.Limit == 0 {
		o.Limit = def.Limit
	}
	if o.Skip == 0 {
		o.Skip = def.Skip
	}
	o.Descending = o.Descending || def.Descending
	o.IncludeDocs = o.IncludeDocs || def.IncludeDocs
	o.Group = o.Group || def.Group
	o.NoReduce = o.NoReduce || def.NoReduce
	return o
}

// Store is the narrow contract over the external document store. The
// mapping layer owns no timeout or retry policy; store failures surface
// unchanged. Map and reduce functions are opaque here: a server-backed
// store receives source strings, a Go-executing store receives function
// values, disambiguated by the language tag.
type Store interface {
	// Get fetches the raw value stored under id. The bool result is false
	// when no such record exists; that is never an error.
	Get(ctx context.Context, id string) (RawDocument, bool, error)
	// Create stores a new record and returns its (possibly server-assigned) id.
	Create(ctx context.Context, doc RawDocument) (string, error)
	// Update upserts the raw value at id.
	Update(ctx context.Context, id string, doc RawDocument) error
	// Query executes a temporary index defined by mapFun/reduceFun.
	Query(ctx context.Context, mapFun, reduceFun any, language string, opts QueryOptions) ([]Row, error)
	// View executes the named server-side index ("design/view").
	View(ctx context.Context, name string, opts QueryOptions) ([]Row, error)
}
