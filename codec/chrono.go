package codec

import (
	"strings"
	"time"

	couchmap "github.com/couchmap/couchmap"
	"github.com/couchmap/couchmap/i18n"
	js "github.com/couchmap/couchmap/jsonschema"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
	timeLayout     = "15:04:05"
)

// Date returns a field for calendar dates, encoded as "YYYY-MM-DD". The
// time portion of an assigned value is dropped.
func Date() couchmap.Field { return couchmap.NewField(dateConverter{}) }

// DateTime returns a field for date/time values, encoded as
// "YYYY-MM-DDTHH:MM:SSZ" in UTC at second resolution. Encoding truncates
// (never rounds) sub-second precision; an epoch-seconds value is normalized
// through time.Unix before formatting.
func DateTime() couchmap.Field { return couchmap.NewField(dateTimeConverter{}) }

// Time returns a field for times of day, encoded as "HH:MM:SS" at second
// resolution. Sub-second precision is truncated.
func Time() couchmap.Field { return couchmap.NewField(timeConverter{}) }

func malformed(literal, hint string, cause error) error {
	return couchmap.Issues{{
		Path:    "/",
		Code:    couchmap.CodeInvalidFormat,
		Message: i18n.T(couchmap.CodeInvalidFormat, nil),
		Hint:    hint,
		Cause:   cause,
		Params:  map[string]any{"literal": literal},
	}}
}

// stripFraction drops a trailing fractional-seconds component so second
// resolution literals with stray precision still parse.
func stripFraction(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}

type dateConverter struct{}

func (dateConverter) ToValue(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, invalidType("expected date string", raw)
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, malformed(s, "expected YYYY-MM-DD", err)
	}
	return t, nil
}

func (dateConverter) ToRaw(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, invalidType("expected time.Time", v)
	}
	return t.UTC().Format(dateLayout), nil
}

func (dateConverter) JSONSchema() *js.Schema {
	return &js.Schema{Type: "string", Format: "date"}
}

type dateTimeConverter struct{}

func (dateTimeConverter) ToValue(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, invalidType("expected date/time string", raw)
	}
	trimmed := strings.TrimSuffix(stripFraction(s), "Z")
	t, err := time.ParseInLocation(dateTimeLayout, trimmed, time.UTC)
	if err != nil {
		return nil, malformed(s, "expected YYYY-MM-DDTHH:MM:SSZ", err)
	}
	return t, nil
}

func (dateTimeConverter) ToRaw(v any) (any, error) {
	var t time.Time
	switch n := v.(type) {
	case time.Time:
		t = n
	case int64:
		// epoch seconds
		t = time.Unix(n, 0)
	case int:
		t = time.Unix(int64(n), 0)
	default:
		return nil, invalidType("expected time.Time or epoch seconds", v)
	}
	return t.UTC().Truncate(time.Second).Format(dateTimeLayout) + "Z", nil
}

func (dateTimeConverter) JSONSchema() *js.Schema {
	return &js.Schema{Type: "string", Format: "date-time"}
}

type timeConverter struct{}

func (timeConverter) ToValue(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, invalidType("expected time string", raw)
	}
	t, err := time.ParseInLocation(timeLayout, stripFraction(s), time.UTC)
	if err != nil {
		return nil, malformed(s, "expected HH:MM:SS", err)
	}
	return t, nil
}

func (timeConverter) ToRaw(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, invalidType("expected time.Time", v)
	}
	return t.Truncate(time.Second).Format(timeLayout), nil
}

func (timeConverter) JSONSchema() *js.Schema {
	return &js.Schema{Type: "string", Format: "time"}
}
