package couchmap

import (
	"context"

	js "github.com/couchmap/couchmap/jsonschema"
)

// Definition is a schema descriptor: a named, immutable field registry plus
// any view bindings, built once. It stands in for a nominal record type;
// all typed access goes through the descriptor. An empty name denotes an
// anonymous descriptor synthesized at runtime.
type Definition struct {
	name  string
	reg   *Registry
	views map[string]ViewBinding
}

// NewDefinition composes a descriptor from an optional parent and its own
// field declarations. Parent fields come first; own fields with the same
// attribute replace them. Parent view bindings are inherited the same way.
func NewDefinition(name string, parent *Definition, fields Fields) (*Definition, error) {
	var preg *Registry
	views := map[string]ViewBinding{}
	if parent != nil {
		preg = parent.reg
		for n, b := range parent.views {
			views[n] = b
		}
	}
	reg := newRegistry(preg, fields)
	if err := reg.validate(); err != nil {
		return nil, err
	}
	return &Definition{name: name, reg: reg, views: views}, nil
}

// Build synthesizes an anonymous descriptor from a field table. Used for
// inline nested schemas that do not warrant a named Definition.
func Build(fields Fields) (*Definition, error) {
	return NewDefinition("", nil, fields)
}

// MustBuild is like Build but panics on error.
func MustBuild(fields Fields) *Definition {
	d, err := Build(fields)
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the descriptor name; empty for anonymous descriptors.
func (d *Definition) Name() string { return d.name }

// Registry returns the descriptor's field table.
func (d *Definition) Registry() *Registry { return d.reg }

// BindView registers a view binding under the given attribute name. A
// binding without an explicit view name adopts the attribute name.
func (d *Definition) BindView(attr string, b ViewBinding) *Definition {
	if b.Name == "" {
		b.Name = attr
	}
	if b.Language == "" {
		b.Language = "javascript"
	}
	d.views[attr] = b
	return d
}

// Views returns a copy of the registered view bindings by attribute.
func (d *Definition) Views() map[string]ViewBinding {
	out := make(map[string]ViewBinding, len(d.views))
	for n, b := range d.views {
		out[n] = b
	}
	return out
}

// Template produces the deferred, typed query template bound to this
// descriptor's wrap. Execution happens only when the template is invoked
// with a store handle.
func (d *Definition) Template(attr string) (*ViewTemplate, bool) {
	b, ok := d.views[attr]
	if !ok {
		return nil, false
	}
	return &ViewTemplate{binding: b, def: d}, true
}

// Wrap aliases raw as the backing store of a new Schema instance. No copy
// is made and no defaulting is applied; a partially populated row surfaces
// only the keys it actually has.
func (d *Definition) Wrap(raw RawDocument) *Schema {
	return &Schema{def: d, data: raw}
}

// New constructs a fresh Schema. The backing store starts empty; each
// declared field is set from values when supplied, otherwise its typed
// getter runs once so producer defaults materialize, without persisting
// anything. Keys in values that match no field are rejected.
func (d *Definition) New(values Values) (*Schema, error) {
	s, rest, err := d.construct(values)
	if err != nil {
		return nil, err
	}
	if err := rejectUnknown(rest); err != nil {
		return nil, err
	}
	return s, nil
}

// construct applies declared fields and hands back unconsumed values for a
// specializing constructor (e.g. NewDoc's identity keyword) to claim.
func (d *Definition) construct(values Values) (*Schema, Values, error) {
	s := &Schema{def: d, data: RawDocument{}}
	rest := Values{}
	for k, v := range values {
		rest[k] = v
	}
	for _, attr := range d.reg.attrs {
		if v, ok := rest[attr]; ok {
			delete(rest, attr)
			if err := s.Set(attr, v); err != nil {
				return nil, nil, err
			}
			continue
		}
		// Force default materialization; the result is deliberately not
		// written back, so unset fields stay absent in the raw store.
		if _, err := s.Get(attr); err != nil {
			return nil, nil, err
		}
	}
	return s, rest, nil
}

func rejectUnknown(rest Values) error {
	var iss Issues
	for k := range rest {
		iss = AppendIssues(iss, Issue{Path: "/" + k, Code: CodeUnknownField})
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// WrapDoc aliases raw as the backing store of a Document.
func (d *Definition) WrapDoc(raw RawDocument) *Document {
	return &Document{Schema{def: d, data: raw}}
}

// NewDoc constructs a fresh Document. A non-empty id claims the identity
// key; remaining unrecognized values are rejected.
func (d *Definition) NewDoc(id string, values Values) (*Document, error) {
	s, rest, err := d.construct(values)
	if err != nil {
		return nil, err
	}
	if err := rejectUnknown(rest); err != nil {
		return nil, err
	}
	doc := &Document{*s}
	if id != "" {
		if err := doc.SetID(id); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Load fetches the raw value stored under id and wraps it. The second
// result is false when no such record exists; that is never an error.
func (d *Definition) Load(ctx context.Context, db Store, id string) (*Document, bool, error) {
	raw, ok, err := db.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return d.WrapDoc(raw), true, nil
}

// Query executes a temporary index over the store and maps the resulting
// rows back to Documents of this descriptor. With eager set, each row
// reuses its attached full document when present and is otherwise loaded by
// id; without eager, a minimal raw value is synthesized from the row's
// emitted value plus its id.
func (d *Definition) Query(ctx context.Context, db Store, mapFun, reduceFun any, language string, eager bool, opts QueryOptions) ([]*Document, error) {
	if language == "" {
		language = "javascript"
	}
	rows, err := db.Query(ctx, mapFun, reduceFun, language, opts)
	if err != nil {
		return nil, err
	}
	return d.wrapRows(ctx, db, rows, eager)
}

// View executes the named server-side index and maps the rows like Query.
func (d *Definition) View(ctx context.Context, db Store, name string, eager bool, opts QueryOptions) ([]*Document, error) {
	rows, err := db.View(ctx, name, opts)
	if err != nil {
		return nil, err
	}
	return d.wrapRows(ctx, db, rows, eager)
}

func (d *Definition) wrapRows(ctx context.Context, db Store, rows []Row, eager bool) ([]*Document, error) {
	out := make([]*Document, 0, len(rows))
	for _, row := range rows {
		if eager {
			if row.Doc != nil {
				out = append(out, d.WrapDoc(row.Doc))
				continue
			}
			doc, ok, err := d.Load(ctx, db, row.ID)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, doc)
			}
			continue
		}
		data, _ := row.Value.(RawDocument)
		if data == nil {
			data = RawDocument{}
		}
		data[KeyID] = row.ID
		out = append(out, d.WrapDoc(data))
	}
	return out, nil
}

// JSONSchema projects the descriptor into a JSON Schema object.
func (d *Definition) JSONSchema() *js.Schema {
	props := make(map[string]*js.Schema, d.reg.Len())
	for _, attr := range d.reg.attrs {
		f := d.reg.fields[attr]
		fs := f.conv.JSONSchema()
		if fs == nil {
			fs = &js.Schema{}
		}
		if f.defaultFn != nil {
			fs.Default = f.defaultFn()
		}
		props[f.name] = fs
	}
	return &js.Schema{Type: "object", Properties: props}
}
