// Package memstore provides an in-memory implementation of the couchmap
// Store contract: uuid-assigned ids, revision tokens with conflict
// detection, and view execution over registered Go map/reduce functions.
// Reads hand out deep copies, the way a server-backed store would; wrapper
// aliasing therefore happens between wrappers of one fetched value, never
// through the store's internal state.
package memstore

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	couchmap "github.com/couchmap/couchmap"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LanguageGo tags queries whose map/reduce arguments are Go function values.
const LanguageGo = "go"

// MapFunc emits zero or more key/value rows for one document.
type MapFunc func(doc couchmap.RawDocument, emit func(key, value any))

// ReduceFunc folds mapped values. With rereduce set, keys is nil and values
// holds prior reduce outputs.
type ReduceFunc func(keys []any, values []any, rereduce bool) any

type view struct {
	mapFn    MapFunc
	reduceFn ReduceFunc
}

// Store is an in-memory document store.
type Store struct {
	mu    sync.RWMutex
	docs  map[string]couchmap.RawDocument
	views map[string]view
	log   zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		docs:  map[string]couchmap.RawDocument{},
		views: map[string]view{},
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefineView registers a named view under "design/name".
func (s *Store) DefineView(design, name string, mapFn MapFunc, reduceFn ReduceFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[design+"/"+name] = view{mapFn: mapFn, reduceFn: reduceFn}
}

// DefineViews registers every view binding held by a Definition whose map
// function is a Go MapFunc; bindings carrying server-language sources are
// skipped.
func (s *Store) DefineViews(def *couchmap.Definition) {
	for _, b := range def.Views() {
		mapFn, ok := b.Map.(MapFunc)
		if !ok {
			if plain, okPlain := b.Map.(func(couchmap.RawDocument, func(key, value any))); okPlain {
				mapFn = plain
			} else {
				continue
			}
		}
		var reduceFn ReduceFunc
		if rf, okR := b.Reduce.(ReduceFunc); okR {
			reduceFn = rf
		} else if plain, okPlain := b.Reduce.(func([]any, []any, bool) any); okPlain {
			reduceFn = plain
		}
		s.DefineView(b.Design, b.Name, mapFn, reduceFn)
	}
}

// Get returns a deep copy of the document stored under id.
func (s *Store) Get(ctx context.Context, id string) (couchmap.RawDocument, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, false, nil
	}
	return couchmap.DeepCopy(doc), true, nil
}

// Create stores a new document, assigning a uuid id when the value carries
// none, and stamps the initial revision. The id is returned; the caller's
// map is left untouched (re-read to pick up server-assigned keys).
func (s *Store) Create(ctx context.Context, doc couchmap.RawDocument) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := doc[couchmap.KeyID].(string)
	if id == "" {
		id = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	if _, exists := s.docs[id]; exists {
		return "", conflict(id)
	}
	stored := couchmap.DeepCopy(doc)
	stored[couchmap.KeyID] = id
	stored[couchmap.KeyRev] = nextRev("")
	s.docs[id] = stored
	s.log.Debug().Str("id", id).Msg("document created")
	return id, nil
}

// Update upserts the document at id. When a stored revision exists, the
// incoming value must carry the matching "_rev" or the update conflicts.
// On success the new revision is written into the caller's map, the way a
// server client reports the revision back.
func (s *Store) Update(ctx context.Context, id string, doc couchmap.RawDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, exists := s.docs[id]
	if exists {
		cur, _ := existing[couchmap.KeyRev].(string)
		got, _ := doc[couchmap.KeyRev].(string)
		if cur != "" && got != cur {
			return conflict(id)
		}
	}
	rev := ""
	if exists {
		rev, _ = existing[couchmap.KeyRev].(string)
	}
	newRev := nextRev(rev)
	stored := couchmap.DeepCopy(doc)
	stored[couchmap.KeyID] = id
	stored[couchmap.KeyRev] = newRev
	s.docs[id] = stored
	doc[couchmap.KeyRev] = newRev
	s.log.Debug().Str("id", id).Str("rev", newRev).Msg("document updated")
	return nil
}

// Delete removes the document stored under id.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[id]
	delete(s.docs, id)
	return ok
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// AllDocs returns deep copies of every document, ordered by id.
func (s *Store) AllDocs(ctx context.Context) []couchmap.RawDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]couchmap.RawDocument, 0, len(ids))
	for _, id := range ids {
		out = append(out, couchmap.DeepCopy(s.docs[id]))
	}
	return out
}

// Query executes a temporary view. mapFun must be a MapFunc and reduceFun,
// when given, a ReduceFunc; the language tag must be "go".
func (s *Store) Query(ctx context.Context, mapFun, reduceFun any, language string, opts couchmap.QueryOptions) ([]couchmap.Row, error) {
	if language != LanguageGo {
		return nil, couchmap.Issues{{
			Path: "/", Code: couchmap.CodeInvalidType,
			Hint:   "memstore executes Go functions only",
			Params: map[string]any{"language": language},
		}}
	}
	mapFn, ok := mapFun.(MapFunc)
	if !ok {
		if plain, okPlain := mapFun.(func(couchmap.RawDocument, func(key, value any))); okPlain {
			mapFn = plain
		} else {
			return nil, couchmap.Issues{{Path: "/", Code: couchmap.CodeInvalidType, Hint: "map function must be a memstore.MapFunc"}}
		}
	}
	var reduceFn ReduceFunc
	if reduceFun != nil {
		rf, okR := reduceFun.(ReduceFunc)
		if !okR {
			plain, okPlain := reduceFun.(func([]any, []any, bool) any)
			if !okPlain {
				return nil, couchmap.Issues{{Path: "/", Code: couchmap.CodeInvalidType, Hint: "reduce function must be a memstore.ReduceFunc"}}
			}
			rf = plain
		}
		reduceFn = rf
	}
	return s.run(view{mapFn: mapFn, reduceFn: reduceFn}, opts)
}

// View executes the registered view under name ("design/view").
func (s *Store) View(ctx context.Context, name string, opts couchmap.QueryOptions) ([]couchmap.Row, error) {
	s.mu.RLock()
	v, ok := s.views[name]
	s.mu.RUnlock()
	if !ok {
		return nil, couchmap.Issues{{
			Path: "/", Code: couchmap.CodeNotFound,
			Params: map[string]any{"view": name},
		}}
	}
	return s.run(v, opts)
}

func (s *Store) run(v view, opts couchmap.QueryOptions) ([]couchmap.Row, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var rows []couchmap.Row
	for _, id := range ids {
		doc := couchmap.DeepCopy(s.docs[id])
		docID := id
		v.mapFn(doc, func(key, value any) {
			rows = append(rows, couchmap.Row{ID: docID, Key: key, Value: value})
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool {
		return couchmap.Collate(rows[i].Key, rows[j].Key) < 0
	})
	rows = filterRows(rows, opts)
	if opts.Descending {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	if opts.Skip > 0 {
		if opts.Skip >= len(rows) {
			rows = nil
		} else {
			rows = rows[opts.Skip:]
		}
	}
	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}

	if v.reduceFn != nil && !opts.NoReduce {
		return reduceRows(rows, v.reduceFn, opts.Group), nil
	}
	if opts.IncludeDocs {
		s.mu.RLock()
		for i := range rows {
			if doc, ok := s.docs[rows[i].ID]; ok {
				rows[i].Doc = couchmap.DeepCopy(doc)
			}
		}
		s.mu.RUnlock()
	}
	return rows, nil
}

func filterRows(rows []couchmap.Row, opts couchmap.QueryOptions) []couchmap.Row {
	out := rows[:0]
	for _, r := range rows {
		if opts.Key != nil && couchmap.Collate(r.Key, opts.Key) != 0 {
			continue
		}
		if opts.StartKey != nil && couchmap.Collate(r.Key, opts.StartKey) < 0 {
			continue
		}
		if opts.EndKey != nil && couchmap.Collate(r.Key, opts.EndKey) > 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}

func reduceRows(rows []couchmap.Row, fn ReduceFunc, group bool) []couchmap.Row {
	if !group {
		keys := make([]any, len(rows))
		values := make([]any, len(rows))
		for i, r := range rows {
			keys[i] = r.Key
			values[i] = r.Value
		}
		return []couchmap.Row{{Value: fn(keys, values, false)}}
	}
	var out []couchmap.Row
	for i := 0; i < len(rows); {
		j := i
		for j < len(rows) && couchmap.Collate(rows[j].Key, rows[i].Key) == 0 {
			j++
		}
		keys := make([]any, 0, j-i)
		values := make([]any, 0, j-i)
		for _, r := range rows[i:j] {
			keys = append(keys, r.Key)
			values = append(values, r.Value)
		}
		out = append(out, couchmap.Row{Key: rows[i].Key, Value: fn(keys, values, false)})
		i = j
	}
	return out
}

func conflict(id string) error {
	return couchmap.Issues{{
		Path:   "/" + id,
		Code:   couchmap.CodeConflict,
		Params: map[string]any{"id": id},
	}}
}

// nextRev produces the successor revision token, "N-<uuid>".
func nextRev(rev string) string {
	seq := 0
	if i := strings.IndexByte(rev, '-'); i > 0 {
		if n, err := strconv.Atoi(rev[:i]); err == nil {
			seq = n
		}
	}
	return strconv.Itoa(seq+1) + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
