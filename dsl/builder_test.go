package dsl_test

import (
	"testing"

	couchmap "github.com/couchmap/couchmap"
	"github.com/couchmap/couchmap/codec"
	"github.com/couchmap/couchmap/dsl"
)

func TestBuilder_FluentChain(t *testing.T) {
	def := dsl.Define("Person").
		Field("name", codec.Text()).
		Field("age", codec.Integer()).Default(0).
		Field("mail", codec.Text()).Named("email_address").
		View("by_name", couchmap.ViewBinding{
			Design: "people",
			Map:    "function(doc) { emit(doc.name, null); }",
		}).
		MustBuild()

	if def.Name() != "Person" {
		t.Fatalf("name=%q", def.Name())
	}
	if def.Registry().Len() != 3 {
		t.Fatalf("attrs=%v", def.Registry().Attrs())
	}
	f, _ := def.Registry().Field("mail")
	if f.Name() != "email_address" {
		t.Fatalf("raw name=%q", f.Name())
	}
	if _, ok := def.Template("by_name"); !ok {
		t.Fatalf("view not bound")
	}

	r, err := def.New(nil)
	if err != nil {
		t.Fatalf("new err=%v", err)
	}
	if v, _ := r.Get("age"); v != 0 {
		t.Fatalf("age=%v", v)
	}
}

func TestBuilder_BuildReportsRegistryErrors(t *testing.T) {
	_, err := dsl.Define("Broken").
		Field("a", codec.Text()).Named("k").
		Field("b", codec.Text()).Named("k").
		Build()
	if err == nil {
		t.Fatalf("expected error for colliding raw keys")
	}
}

func TestBuilder_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	dsl.Define("Broken").
		Field("a", codec.Text()).Named("k").
		Field("b", codec.Text()).Named("k").
		MustBuild()
}
