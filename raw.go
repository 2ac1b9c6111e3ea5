package couchmap

import (
	json "github.com/goccy/go-json"
)

// RawDocument is the untyped mapping form a store persists and transmits.
// Wrapping a RawDocument never copies it; two wrappers over the same value
// observe each other's raw-level mutations.
type RawDocument = map[string]any

// RawList is the untyped sequence form inside a raw tree.
type RawList = []any

// Values carries construct-time field values keyed by attribute name.
type Values map[string]any

// Reserved top-level keys on document-shaped values.
const (
	KeyID  = "_id"
	KeyRev = "_rev"
)

// DeepCopy returns a structurally independent copy of a raw document.
// Scalars are shared (they are immutable at the wire level).
func DeepCopy(doc RawDocument) RawDocument {
	if doc == nil {
		return nil
	}
	out := make(RawDocument, len(doc))
	for k, v := range doc {
		out[k] = copyRawValue(v)
	}
	return out
}

func copyRawValue(v any) any {
	switch t := v.(type) {
	case RawDocument:
		return DeepCopy(t)
	case RawList:
		out := make(RawList, len(t))
		for i := range t {
			out[i] = copyRawValue(t[i])
		}
		return out
	default:
		return v
	}
}

// MarshalRaw renders a raw value as JSON.
func MarshalRaw(v any) ([]byte, error) {
	return json.Marshal(v)
}

// UnmarshalRaw parses JSON into a raw document.
func UnmarshalRaw(data []byte) (RawDocument, error) {
	var doc RawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return doc, nil
}
