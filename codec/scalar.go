// Package codec provides the scalar wire codecs a Field converts through:
// each constructor returns a couchmap.Field whose converter is total and
// deterministic over its stated raw shape and fails with Issues on
// malformed input.
package codec

import (
	"math"

	couchmap "github.com/couchmap/couchmap"
	"github.com/couchmap/couchmap/i18n"
	js "github.com/couchmap/couchmap/jsonschema"
)

// Text returns a field for string values.
func Text() couchmap.Field { return couchmap.NewField(textConverter{}) }

// Float returns a field for float values.
func Float() couchmap.Field { return couchmap.NewField(floatConverter{}) }

// Integer returns a field for integer values.
func Integer() couchmap.Field { return couchmap.NewField(intConverter{}) }

// Long returns a field for long integer values.
func Long() couchmap.Field { return couchmap.NewField(longConverter{}) }

// Boolean returns a field for boolean values.
func Boolean() couchmap.Field { return couchmap.NewField(boolConverter{}) }

func invalidType(hint string, raw any) error {
	return couchmap.Issues{{
		Path:    "/",
		Code:    couchmap.CodeInvalidType,
		Message: i18n.T(couchmap.CodeInvalidType, nil),
		Hint:    hint,
		Params:  map[string]any{"literal": raw},
	}}
}

type textConverter struct{}

func (textConverter) ToValue(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, invalidType("expected string", raw)
	}
	return s, nil
}

func (textConverter) ToRaw(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, invalidType("expected string", v)
	}
	return s, nil
}

func (textConverter) JSONSchema() *js.Schema { return &js.Schema{Type: "string"} }

type floatConverter struct{}

func (floatConverter) ToValue(raw any) (any, error) {
	f, ok := numeric(raw)
	if !ok {
		return nil, invalidType("expected number", raw)
	}
	return f, nil
}

func (floatConverter) ToRaw(v any) (any, error) {
	f, ok := numeric(v)
	if !ok {
		return nil, invalidType("expected number", v)
	}
	return f, nil
}

func (floatConverter) JSONSchema() *js.Schema { return &js.Schema{Type: "number"} }

type intConverter struct{}

func (intConverter) ToValue(raw any) (any, error) {
	f, ok := numeric(raw)
	if !ok {
		return nil, invalidType("expected number", raw)
	}
	// JSON numbers arrive as float64; conversion truncates toward zero.
	return int(math.Trunc(f)), nil
}

func (intConverter) ToRaw(v any) (any, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		return int(math.Trunc(n)), nil
	default:
		return nil, invalidType("expected integer", v)
	}
}

func (intConverter) JSONSchema() *js.Schema { return &js.Schema{Type: "integer"} }

type longConverter struct{}

func (longConverter) ToValue(raw any) (any, error) {
	switch n := raw.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(math.Trunc(n)), nil
	default:
		return nil, invalidType("expected number", raw)
	}
}

func (longConverter) ToRaw(v any) (any, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		return int64(math.Trunc(n)), nil
	default:
		return nil, invalidType("expected long integer", v)
	}
}

func (longConverter) JSONSchema() *js.Schema { return &js.Schema{Type: "integer", Format: "int64"} }

type boolConverter struct{}

func (boolConverter) ToValue(raw any) (any, error) {
	b, ok := raw.(bool)
	if !ok {
		return nil, invalidType("expected boolean", raw)
	}
	return b, nil
}

func (boolConverter) ToRaw(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, invalidType("expected boolean", v)
	}
	return b, nil
}

func (boolConverter) JSONSchema() *js.Schema { return &js.Schema{Type: "boolean"} }

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
