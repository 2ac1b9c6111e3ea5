package dsl_test

import (
	"testing"

	couchmap "github.com/couchmap/couchmap"
	"github.com/couchmap/couchmap/dsl"
)

const postManifest = `
name: Post
fields:
  - attr: title
    kind: text
  - attr: score
    kind: integer
    default: 0
  - attr: mail
    kind: text
    name: email_address
  - attr: author
    kind: dict
    fields:
      - {attr: name, kind: text}
      - {attr: email, kind: text}
  - attr: tags
    kind: list
    of: {kind: text}
views:
  - attr: by_title
    design: posts
    map: "function(doc) { emit(doc.title, null); }"
`

func TestParseManifest(t *testing.T) {
	def, err := dsl.ParseManifest([]byte(postManifest))
	if err != nil {
		t.Fatalf("parse err=%v", err)
	}
	if def.Name() != "Post" {
		t.Fatalf("name=%q", def.Name())
	}
	if def.Registry().Len() != 5 {
		t.Fatalf("attrs=%v", def.Registry().Attrs())
	}
	f, _ := def.Registry().Field("mail")
	if f.Name() != "email_address" {
		t.Fatalf("raw name=%q", f.Name())
	}
	if _, ok := def.Template("by_title"); !ok {
		t.Fatalf("view not bound")
	}

	p, err := def.New(couchmap.Values{
		"title":  "Foo bar",
		"author": couchmap.Values{"name": "John Doe", "email": "john@doe.com"},
	})
	if err != nil {
		t.Fatalf("new err=%v", err)
	}
	if v, _ := p.Get("score"); v != 0 {
		t.Fatalf("score default=%v", v)
	}
	sub, err := p.Dict("author")
	if err != nil || sub == nil {
		t.Fatalf("dict err=%v", err)
	}
	if v, _ := sub.Get("name"); v != "John Doe" {
		t.Fatalf("name=%v", v)
	}
	tags, err := p.List("tags")
	if err != nil {
		t.Fatalf("list err=%v", err)
	}
	if err := tags.Append("go"); err != nil {
		t.Fatalf("append err=%v", err)
	}
}

func TestParseManifest_UnknownKind(t *testing.T) {
	_, err := dsl.ParseManifest([]byte("name: X\nfields:\n  - {attr: a, kind: blob}\n"))
	iss, ok := couchmap.AsIssues(err)
	if !ok || iss[0].Code != couchmap.CodeUnknownKind {
		t.Fatalf("expected unknown_kind, got %v", err)
	}
	if iss[0].Params["kind"] != "blob" {
		t.Fatalf("params=%v", iss[0].Params)
	}
}

func TestParseManifest_ListWithoutElement(t *testing.T) {
	_, err := dsl.ParseManifest([]byte("name: X\nfields:\n  - {attr: a, kind: list}\n"))
	iss, ok := couchmap.AsIssues(err)
	if !ok || iss[0].Code != couchmap.CodeParseError {
		t.Fatalf("expected parse_error, got %v", err)
	}
}

func TestParseManifest_BadYAML(t *testing.T) {
	_, err := dsl.ParseManifest([]byte(":\n - ]["))
	iss, ok := couchmap.AsIssues(err)
	if !ok || iss[0].Code != couchmap.CodeParseError {
		t.Fatalf("expected parse_error, got %v", err)
	}
}
