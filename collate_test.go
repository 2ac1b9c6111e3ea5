package couchmap_test

import (
	"sort"
	"testing"

	couchmap "github.com/couchmap/couchmap"
)

func TestCollate_TypeRanks(t *testing.T) {
	ordered := []any{
		nil,
		false,
		true,
		-7,
		1.5,
		42,
		"",
		"a",
		"aa",
		couchmap.RawList{},
		couchmap.RawList{"a"},
		couchmap.RawList{"a", "b"},
		couchmap.RawList{"b"},
		couchmap.RawDocument{},
		couchmap.RawDocument{"a": 1},
		couchmap.RawDocument{"a": 2},
		couchmap.RawDocument{"b": 1},
	}
	for i := 0; i < len(ordered)-1; i++ {
		if c := couchmap.Collate(ordered[i], ordered[i+1]); c != -1 {
			t.Fatalf("Collate(%v, %v)=%d", ordered[i], ordered[i+1], c)
		}
		if c := couchmap.Collate(ordered[i+1], ordered[i]); c != 1 {
			t.Fatalf("Collate(%v, %v)=%d", ordered[i+1], ordered[i], c)
		}
	}
}

func TestCollate_Equality(t *testing.T) {
	pairs := [][2]any{
		{nil, nil},
		{true, true},
		{2, 2.0}, // numeric comparison crosses Go types
		{"x", "x"},
		{couchmap.RawList{1, "a"}, couchmap.RawList{1.0, "a"}},
		{couchmap.RawDocument{"k": 1}, couchmap.RawDocument{"k": 1.0}},
	}
	for _, p := range pairs {
		if c := couchmap.Collate(p[0], p[1]); c != 0 {
			t.Fatalf("Collate(%v, %v)=%d", p[0], p[1], c)
		}
	}
}

func TestCollate_SortsMixedKeys(t *testing.T) {
	keys := []any{"b", couchmap.RawList{0}, 3, nil, true, "a", 1}
	sort.Slice(keys, func(i, j int) bool {
		return couchmap.Collate(keys[i], keys[j]) < 0
	})

	want := []any{nil, true, 1, 3, "a", "b"}
	for i := range want {
		if couchmap.Collate(keys[i], want[i]) != 0 {
			t.Fatalf("sorted=%v", keys)
		}
	}
	if _, ok := keys[len(keys)-1].(couchmap.RawList); !ok {
		t.Fatalf("array not last: %v", keys)
	}
}
