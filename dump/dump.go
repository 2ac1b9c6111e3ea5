// Package dump reads and writes multipart snapshots of raw documents: each
// part carries one document as a JSON body with its id in the Content-ID
// header, so a whole database can round-trip through a single stream.
package dump

import (
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	couchmap "github.com/couchmap/couchmap"
	json "github.com/goccy/go-json"
)

// Write streams every document into w as a multipart body and returns the
// boundary needed to read it back.
func Write(w io.Writer, docs []couchmap.RawDocument) (string, error) {
	mw := multipart.NewWriter(w)
	for _, doc := range docs {
		id, _ := doc[couchmap.KeyID].(string)
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-ID", "<"+id+">")
		hdr.Set("Content-Type", "application/json")
		part, err := mw.CreatePart(hdr)
		if err != nil {
			return "", err
		}
		body, err := couchmap.MarshalRaw(doc)
		if err != nil {
			return "", err
		}
		if _, err := part.Write(body); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	return mw.Boundary(), nil
}

// Read parses a multipart snapshot back into raw documents. Each part must
// hold a JSON object; the Content-ID header restores the id when the body
// carries none.
func Read(r io.Reader, boundary string) ([]couchmap.RawDocument, error) {
	mr := multipart.NewReader(r, boundary)
	var out []couchmap.RawDocument
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(part)
		if err != nil {
			return nil, err
		}
		var doc couchmap.RawDocument
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, couchmap.Issues{{Path: "/", Code: couchmap.CodeParseError, Message: err.Error(), Cause: err}}
		}
		// "null" unmarshals without error but leaves the map nil
		if doc == nil {
			return nil, couchmap.Issues{{Path: "/", Code: couchmap.CodeParseError, Hint: "part body must be a JSON object"}}
		}
		if _, ok := doc[couchmap.KeyID]; !ok {
			if id := contentID(part.Header.Get("Content-ID")); id != "" {
				doc[couchmap.KeyID] = id
			}
		}
		out = append(out, doc)
	}
}

func contentID(h string) string {
	return strings.TrimSuffix(strings.TrimPrefix(h, "<"), ">")
}
