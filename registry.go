package couchmap

import "sort"

// Fields is a declaration table mapping attribute names to Fields.
type Fields map[string]Field

// Registry is the immutable attribute→Field table collected once for a
// Definition. Fields without an explicit name adopt the attribute name they
// were declared under; ancestor fields come first and same-named own fields
// replace them.
type Registry struct {
	fields map[string]Field
	attrs  []string // cached sorted attribute names, deterministic iteration
}

func newRegistry(parent *Registry, own Fields) *Registry {
	merged := map[string]Field{}
	if parent != nil {
		for attr, f := range parent.fields {
			merged[attr] = f
		}
	}
	for attr, f := range own {
		if f.name == "" {
			f.name = attr
		}
		merged[attr] = f
	}
	attrs := make([]string, 0, len(merged))
	for attr := range merged {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)
	return &Registry{fields: merged, attrs: attrs}
}

// Field looks up the field registered under the given attribute name.
func (r *Registry) Field(attr string) (Field, bool) {
	f, ok := r.fields[attr]
	return f, ok
}

// Attrs returns the registered attribute names in sorted order.
func (r *Registry) Attrs() []string {
	out := make([]string, len(r.attrs))
	copy(out, r.attrs)
	return out
}

// Len returns the number of registered fields.
func (r *Registry) Len() int { return len(r.fields) }

// validate rejects distinct attributes resolving to the same raw key.
func (r *Registry) validate() error {
	seen := map[string]string{}
	for _, attr := range r.attrs {
		f := r.fields[attr]
		if prev, dup := seen[f.name]; dup {
			return Issues{{
				Path:   "/" + f.name,
				Code:   CodeParseError,
				Hint:   "raw key declared by more than one field",
				Params: map[string]any{"attrs": []string{prev, attr}},
			}}
		}
		seen[f.name] = attr
	}
	return nil
}
