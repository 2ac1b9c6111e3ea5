package couchmap_test

import (
	"testing"

	couchmap "github.com/couchmap/couchmap"
	"github.com/couchmap/couchmap/codec"
	"github.com/couchmap/couchmap/dsl"
)

func TestRegistry_NameInference(t *testing.T) {
	def := dsl.Define("Thing").
		Field("plain", codec.Text()).
		Field("aliased", codec.Text().WithName("wire_key")).
		MustBuild()

	f, ok := def.Registry().Field("plain")
	if !ok || f.Name() != "plain" {
		t.Fatalf("inferred name=%q", f.Name())
	}
	// an explicit name survives regardless of the declaring attribute
	f, ok = def.Registry().Field("aliased")
	if !ok || f.Name() != "wire_key" {
		t.Fatalf("explicit name=%q", f.Name())
	}

	r := def.Wrap(couchmap.RawDocument{"wire_key": "x"})
	if v, _ := r.Get("aliased"); v != "x" {
		t.Fatalf("aliased=%v", v)
	}
	if err := r.Set("aliased", "y"); err != nil {
		t.Fatalf("set err=%v", err)
	}
	if r.Unwrap()["wire_key"] != "y" {
		t.Fatalf("raw=%v", r.Unwrap())
	}
}

func TestRegistry_AncestorMergeAndOverride(t *testing.T) {
	parent := dsl.Define("Base").
		Field("kind", codec.Text()).Default("base").
		Field("size", codec.Integer()).
		MustBuild()
	child := dsl.Define("Derived").
		Extend(parent).
		Field("kind", codec.Text()).Default("derived").
		Field("extra", codec.Boolean()).
		MustBuild()

	if child.Registry().Len() != 3 {
		t.Fatalf("attrs=%v", child.Registry().Attrs())
	}
	// non-overridden ancestor fields are inherited
	r := child.Wrap(couchmap.RawDocument{"size": 4})
	if v, _ := r.Get("size"); v != 4 {
		t.Fatalf("size=%v", v)
	}
	// same-named own field replaces the inherited one
	if v, _ := r.Get("kind"); v != "derived" {
		t.Fatalf("kind=%v", v)
	}
	// the parent registry is untouched
	p := parent.Wrap(couchmap.RawDocument{})
	if v, _ := p.Get("kind"); v != "base" {
		t.Fatalf("parent kind=%v", v)
	}
	if _, ok := parent.Registry().Field("extra"); ok {
		t.Fatalf("parent registry leaked child field")
	}
}

func TestRegistry_DuplicateRawKeyRejected(t *testing.T) {
	_, err := dsl.Define("Broken").
		Field("a", codec.Text().WithName("same")).
		Field("b", codec.Text().WithName("same")).
		Build()
	if err == nil {
		t.Fatalf("expected duplicate raw key error")
	}
}

func TestBuild_AnonymousDescriptor(t *testing.T) {
	def, err := couchmap.Build(couchmap.Fields{
		"name":  codec.Text(),
		"email": codec.Text().WithName("mail"),
	})
	if err != nil {
		t.Fatalf("build err=%v", err)
	}
	if def.Name() != "" {
		t.Fatalf("anonymous descriptor has name %q", def.Name())
	}
	r := def.Wrap(couchmap.RawDocument{"mail": "a@b.c"})
	if v, _ := r.Get("email"); v != "a@b.c" {
		t.Fatalf("email=%v", v)
	}
}
