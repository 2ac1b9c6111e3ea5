package couchmap

import (
	"strconv"

	js "github.com/couchmap/couchmap/jsonschema"
)

// DictField declares a nested-schema field. Reading it wraps the nested
// raw document in place (no copy); writing accepts a *Schema, *Document,
// or a Values/raw-map bundle converted through a fresh construction.
func DictField(def *Definition) Field {
	return NewField(dictConverter{def: def})
}

// ListField declares a typed sequence field converting each element through
// elem. Reading yields a ListProxy attached to the enclosing document key;
// the raw sequence is created on first append.
func ListField(elem Field) Field {
	return NewField(listConverter{elem: elem})
}

type dictConverter struct {
	def *Definition
}

func (c dictConverter) ToValue(raw any) (any, error) {
	m, ok := raw.(RawDocument)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Hint: "expected object"}}
	}
	return c.def.Wrap(m), nil
}

func (c dictConverter) ToRaw(v any) (any, error) {
	switch t := v.(type) {
	case *Schema:
		return t.Unwrap(), nil
	case *Document:
		return t.Unwrap(), nil
	case Values:
		s, err := c.def.New(t)
		if err != nil {
			return nil, err
		}
		return s.Unwrap(), nil
	case RawDocument:
		s, err := c.def.New(Values(t))
		if err != nil {
			return nil, err
		}
		return s.Unwrap(), nil
	default:
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Hint: "expected schema instance or value bundle"}}
	}
}

func (c dictConverter) JSONSchema() *js.Schema {
	return c.def.JSONSchema()
}

type listConverter struct {
	elem Field
}

func (c listConverter) bindKey(doc RawDocument, key string) any {
	return &ListProxy{doc: doc, key: key, field: c.elem}
}

func (c listConverter) bindSlot(list RawList, i int) any {
	return &ListProxy{slot: list, idx: i, field: c.elem}
}

func (c listConverter) ToValue(raw any) (any, error) {
	l, ok := raw.(RawList)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Hint: "expected array"}}
	}
	return &ListProxy{list: l, field: c.elem}, nil
}

func (c listConverter) ToRaw(v any) (any, error) {
	switch t := v.(type) {
	case *ListProxy:
		return t.Raw(), nil
	case RawList:
		out := make(RawList, 0, len(t))
		for i := range t {
			raw, err := c.elem.conv.ToRaw(t[i])
			if err != nil {
				return nil, prefixPath(err, "/"+strconv.Itoa(i))
			}
			out = append(out, raw)
		}
		return out, nil
	default:
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Hint: "expected list proxy or slice"}}
	}
}

func (c listConverter) JSONSchema() *js.Schema {
	items := c.elem.conv.JSONSchema()
	if items == nil {
		items = &js.Schema{}
	}
	return &js.Schema{Type: "array", Items: items}
}
