package codec

import (
	couchmap "github.com/couchmap/couchmap"
	"github.com/couchmap/couchmap/i18n"
	js "github.com/couchmap/couchmap/jsonschema"
	"github.com/shopspring/decimal"
)

// Decimal returns a field for arbitrary-precision decimal values. The wire
// encoding is the canonical numeral string, so precision survives stores
// that would mangle large JSON numbers.
func Decimal() couchmap.Field { return couchmap.NewField(decimalConverter{}) }

type decimalConverter struct{}

func (decimalConverter) ToValue(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, invalidType("expected decimal string", raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, couchmap.Issues{{
			Path:    "/",
			Code:    couchmap.CodeInvalidFormat,
			Message: i18n.T(couchmap.CodeInvalidFormat, nil),
			Hint:    "expected canonical decimal numeral",
			Cause:   err,
			Params:  map[string]any{"literal": s},
		}}
	}
	return d, nil
}

func (decimalConverter) ToRaw(v any) (any, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t.String(), nil
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return nil, couchmap.Issues{{
				Path:    "/",
				Code:    couchmap.CodeInvalidFormat,
				Message: i18n.T(couchmap.CodeInvalidFormat, nil),
				Cause:   err,
				Params:  map[string]any{"literal": t},
			}}
		}
		return d.String(), nil
	default:
		return nil, invalidType("expected decimal", v)
	}
}

func (decimalConverter) JSONSchema() *js.Schema {
	return &js.Schema{Type: "string", Format: "decimal"}
}
