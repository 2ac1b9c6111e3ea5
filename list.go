package couchmap

import (
	"iter"
	"reflect"
	"strconv"

	json "github.com/goccy/go-json"
)

// ListProxy is a lazy, index-addressed view over a raw sequence. Every
// access converts the element through the bound Field anew; nothing is
// cached, so raw-level mutations are always observed. A proxy obtained
// through a Schema stays attached to the enclosing document key, and a
// nested list element is attached to its slot in the outer sequence, so
// append writes the re-sliced sequence back where it came from (Go slices
// reallocate, unlike the list object the raw tree would share in place).
// A slot binding holds the outer sequence value from bind time; it goes
// stale once the outer sequence itself is re-sliced.
type ListProxy struct {
	doc   RawDocument // parent document when key-bound
	key   string
	slot  RawList // outer sequence when slot-bound
	idx   int
	list  RawList // detached sequence otherwise
	field Field
}

func (p *ListProxy) current() RawList {
	switch {
	case p.doc != nil:
		l, _ := p.doc[p.key].(RawList)
		return l
	case p.slot != nil:
		l, _ := p.slot[p.idx].(RawList)
		return l
	default:
		return p.list
	}
}

func (p *ListProxy) store(l RawList) {
	switch {
	case p.doc != nil:
		p.doc[p.key] = l
	case p.slot != nil:
		p.slot[p.idx] = l
	default:
		p.list = l
	}
}

// Len returns the raw sequence length.
func (p *ListProxy) Len() int { return len(p.current()) }

// Get converts and returns the element at i. Reconverted on every call.
// A list-of-list element comes back as a proxy bound to its slot.
func (p *ListProxy) Get(i int) (any, error) {
	if b, ok := p.field.conv.(slotBinder); ok {
		return b.bindSlot(p.current(), i), nil
	}
	v, err := p.field.conv.ToValue(p.current()[i])
	if err != nil {
		return nil, prefixPath(err, "/"+strconv.Itoa(i))
	}
	return v, nil
}

// Set converts v and stores it at i.
func (p *ListProxy) Set(i int, v any) error {
	raw, err := p.field.conv.ToRaw(v)
	if err != nil {
		return prefixPath(err, "/"+strconv.Itoa(i))
	}
	p.current()[i] = raw
	return nil
}

// Append converts v and appends it to the raw sequence.
func (p *ListProxy) Append(v any) error {
	raw, err := p.field.conv.ToRaw(v)
	if err != nil {
		return err
	}
	p.store(append(p.current(), raw))
	return nil
}

// AppendValues appends a nested-schema element assembled inline from a
// bundle of named field values, without pre-constructing an instance.
func (p *ListProxy) AppendValues(values Values) error {
	return p.Append(values)
}

// Delete removes the element at i.
func (p *ListProxy) Delete(i int) {
	l := p.current()
	p.store(append(l[:i:i], l[i+1:]...))
}

// All yields each converted element in order. The sequence is finite and
// restartable; conversion runs per element on every pass.
func (p *ListProxy) All() iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for i := range p.current() {
			if !yield(p.Get(i)) {
				return
			}
		}
	}
}

// Raw returns the live raw sequence backing the proxy.
func (p *ListProxy) Raw() RawList { return p.current() }

// Equal compares by the raw sequence's value; converted views are never
// consulted. The other side may be a *ListProxy or a RawList.
func (p *ListProxy) Equal(other any) bool {
	switch o := other.(type) {
	case *ListProxy:
		return reflect.DeepEqual(p.current(), o.current())
	case RawList:
		return reflect.DeepEqual(p.current(), o)
	default:
		return false
	}
}

// Compare orders by the raw sequence's value using store collation.
func (p *ListProxy) Compare(other *ListProxy) int {
	return Collate(p.current(), other.current())
}

// String renders the raw sequence.
func (p *ListProxy) String() string {
	b, err := json.Marshal(p.current())
	if err != nil {
		return "[]"
	}
	return string(b)
}
