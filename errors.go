package couchmap

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeInvalidFormat = "invalid_format"
	CodeInvalidState  = "invalid_state"
	CodeUnknownField  = "unknown_field"
	CodeUnknownKind   = "unknown_kind"
	CodeConflict      = "conflict"
	CodeNotFound      = "not_found"
	CodeParseError    = "parse_error"
)

// Issue represents a single mapping error entry.
type Issue struct {
	Path    string // JSON Pointer into the raw document (for example: /comments/2/time).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: expected format, remediation hints.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters, e.g. {"literal": "2007-13-40"}
	// for malformed raw literals.
	Params map[string]any
}

// Issues is a collection of mapping errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_format at /added
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// prefixPath rebases every issue path under the given raw key. Scalar codecs
// report at "/"; composition rebases onto the enclosing document.
func prefixPath(err error, base string) error {
	iss, ok := AsIssues(err)
	if !ok {
		return err
	}
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}
