package couchmap_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	couchmap "github.com/couchmap/couchmap"
)

// fakeStore is a scripted Store used by the document and view tests. It
// records the arguments of the last index call and serves canned rows.
type fakeStore struct {
	docs    map[string]couchmap.RawDocument
	seq     int
	rows    []couchmap.Row
	failGet error

	lastView string
	lastMap  any
	lastLang string
	lastOpts couchmap.QueryOptions
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string]couchmap.RawDocument{}}
}

func (s *fakeStore) Get(_ context.Context, id string) (couchmap.RawDocument, bool, error) {
	if s.failGet != nil {
		return nil, false, s.failGet
	}
	doc, ok := s.docs[id]
	return doc, ok, nil
}

func (s *fakeStore) Create(_ context.Context, doc couchmap.RawDocument) (string, error) {
	s.seq++
	id := fmt.Sprintf("doc-%d", s.seq)
	stored := couchmap.DeepCopy(doc)
	stored[couchmap.KeyID] = id
	stored[couchmap.KeyRev] = "1-abc"
	s.docs[id] = stored
	return id, nil
}

func (s *fakeStore) Update(_ context.Context, id string, doc couchmap.RawDocument) error {
	s.docs[id] = couchmap.DeepCopy(doc)
	return nil
}

func (s *fakeStore) Query(_ context.Context, mapFun, _ any, language string, opts couchmap.QueryOptions) ([]couchmap.Row, error) {
	s.lastMap = mapFun
	s.lastLang = language
	s.lastOpts = opts
	return s.rows, nil
}

func (s *fakeStore) View(_ context.Context, name string, opts couchmap.QueryOptions) ([]couchmap.Row, error) {
	s.lastView = name
	s.lastOpts = opts
	return s.rows, nil
}

func TestDocument_IDWriteOnce(t *testing.T) {
	def := personDef(t)

	d, err := def.NewDoc("", nil)
	if err != nil {
		t.Fatalf("newdoc err=%v", err)
	}
	if d.ID() != "" {
		t.Fatalf("fresh id=%q", d.ID())
	}
	if err := d.SetID("john"); err != nil {
		t.Fatalf("first assign err=%v", err)
	}
	// reassignment fails even with the identical value
	err = d.SetID("john")
	iss, ok := couchmap.AsIssues(err)
	if !ok || iss[0].Code != couchmap.CodeInvalidState {
		t.Fatalf("expected invalid_state, got %v", err)
	}
	if d.ID() != "john" {
		t.Fatalf("id=%q", d.ID())
	}
}

func TestDocument_NewDocClaimsID(t *testing.T) {
	def := personDef(t)

	d, err := def.NewDoc("ann", couchmap.Values{"name": "Ann"})
	if err != nil {
		t.Fatalf("newdoc err=%v", err)
	}
	if d.ID() != "ann" {
		t.Fatalf("id=%q", d.ID())
	}
	if d.Rev() != "" {
		t.Fatalf("unsaved rev=%q", d.Rev())
	}
}

func TestDocument_ItemsOrdering(t *testing.T) {
	def := personDef(t)
	d := def.WrapDoc(couchmap.RawDocument{
		"_id":  "x1",
		"_rev": "1-a",
		"zeta": 1,
		"able": 2,
	})

	items := d.Items()
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Key
	}
	want := []string{"_id", "_rev", "able", "zeta"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys=%v", keys)
		}
	}
}

func TestDocument_ItemsSkipsRevWithoutID(t *testing.T) {
	def := personDef(t)
	d := def.WrapDoc(couchmap.RawDocument{"_rev": "1-a", "name": "Ann"})

	for _, it := range d.Items() {
		if it.Key == couchmap.KeyRev {
			t.Fatalf("rev listed without id: %v", d.Items())
		}
	}
}

func TestDocument_StoreCreateResyncs(t *testing.T) {
	def := personDef(t)
	db := newFakeStore()

	d, err := def.NewDoc("", couchmap.Values{"name": "Ann"})
	if err != nil {
		t.Fatalf("newdoc err=%v", err)
	}
	if _, err := d.Store(context.Background(), db); err != nil {
		t.Fatalf("store err=%v", err)
	}
	if d.ID() == "" || d.Rev() == "" {
		t.Fatalf("resync missed id/rev: id=%q rev=%q", d.ID(), d.Rev())
	}
	if v, _ := d.Get("name"); v != "Ann" {
		t.Fatalf("name lost on resync: %v", v)
	}
}

func TestDocument_StoreUpsertsWithID(t *testing.T) {
	def := personDef(t)
	db := newFakeStore()

	d, err := def.NewDoc("ann", couchmap.Values{"name": "Ann"})
	if err != nil {
		t.Fatalf("newdoc err=%v", err)
	}
	if _, err := d.Store(context.Background(), db); err != nil {
		t.Fatalf("store err=%v", err)
	}
	stored, ok := db.docs["ann"]
	if !ok || stored["name"] != "Ann" {
		t.Fatalf("upsert missing: %v", db.docs)
	}
}

func TestLoad_AbsentIsNotAnError(t *testing.T) {
	def := personDef(t)
	db := newFakeStore()

	_, ok, err := def.Load(context.Background(), db, "missing")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if ok {
		t.Fatalf("phantom document")
	}
}

func TestLoad_StoreFailurePropagates(t *testing.T) {
	def := personDef(t)
	db := newFakeStore()
	db.failGet = errors.New("connection refused")

	_, _, err := def.Load(context.Background(), db, "any")
	if !errors.Is(err, db.failGet) {
		t.Fatalf("err=%v", err)
	}
}

func TestQuery_EagerUsesAttachedDoc(t *testing.T) {
	def := personDef(t)
	db := newFakeStore()
	db.rows = []couchmap.Row{
		{ID: "a", Key: "Ann", Doc: couchmap.RawDocument{"_id": "a", "name": "Ann"}},
	}

	docs, err := def.Query(context.Background(), db, "function(doc){}", nil, "", true, couchmap.QueryOptions{})
	if err != nil {
		t.Fatalf("query err=%v", err)
	}
	if len(docs) != 1 || docs[0].ID() != "a" {
		t.Fatalf("docs=%v", docs)
	}
	if v, _ := docs[0].Get("name"); v != "Ann" {
		t.Fatalf("name=%v", v)
	}
	if db.lastLang != "javascript" {
		t.Fatalf("language default=%q", db.lastLang)
	}
}

func TestQuery_EagerLoadsByIDAndSkipsAbsent(t *testing.T) {
	def := personDef(t)
	db := newFakeStore()
	db.docs["a"] = couchmap.RawDocument{"_id": "a", "name": "Ann"}
	db.rows = []couchmap.Row{
		{ID: "a", Key: "Ann"},
		{ID: "gone", Key: "Ghost"}, // deleted between index and fetch
	}

	docs, err := def.Query(context.Background(), db, "src", nil, "javascript", true, couchmap.QueryOptions{})
	if err != nil {
		t.Fatalf("query err=%v", err)
	}
	if len(docs) != 1 || docs[0].ID() != "a" {
		t.Fatalf("docs=%v", docs)
	}
}

func TestQuery_NonEagerSynthesizesFromRowValue(t *testing.T) {
	def := personDef(t)
	db := newFakeStore()
	db.rows = []couchmap.Row{
		{ID: "a", Key: "Ann", Value: couchmap.RawDocument{"name": "Ann"}},
		{ID: "b", Key: "Bob", Value: nil}, // scalar or missing emitted value
	}

	docs, err := def.Query(context.Background(), db, "src", nil, "javascript", false, couchmap.QueryOptions{})
	if err != nil {
		t.Fatalf("query err=%v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("docs=%v", docs)
	}
	if v, _ := docs[0].Get("name"); v != "Ann" || docs[0].ID() != "a" {
		t.Fatalf("row 0: name=%v id=%q", v, docs[0].ID())
	}
	// even without an emitted map value the id is still surfaced
	if docs[1].ID() != "b" {
		t.Fatalf("row 1 id=%q", docs[1].ID())
	}
}

func TestJSONSchema_Projection(t *testing.T) {
	def := personDef(t)

	schema := def.JSONSchema()
	if schema.Type != "object" {
		t.Fatalf("type=%q", schema.Type)
	}
	age, ok := schema.Properties["age"]
	if !ok || age.Type != "integer" {
		t.Fatalf("age=%+v", age)
	}
	if age.Default != 0 {
		t.Fatalf("age default=%v", age.Default)
	}
	if _, ok := schema.Properties["name"]; !ok {
		t.Fatalf("name missing: %v", schema.Properties)
	}
}
