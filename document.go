package couchmap

import (
	"context"
	"fmt"
)

// Document is a Schema specialized with an immutable identity and a
// read-only revision, held under the reserved keys "_id" and "_rev".
type Document struct {
	Schema
}

// ID returns the document identity, or "" while unset.
func (d *Document) ID() string {
	if v, ok := d.data[KeyID].(string); ok {
		return v
	}
	return ""
}

// SetID assigns the identity. Identity is write-once: assigning while
// already set fails invalid-state, even when the value is unchanged.
func (d *Document) SetID(id string) error {
	if v, ok := d.data[KeyID]; ok && v != nil {
		return Issues{{
			Path: "/" + KeyID,
			Code: CodeInvalidState,
			Hint: "id can only be set on new documents",
		}}
	}
	d.data[KeyID] = id
	return nil
}

// Rev returns the revision assigned by the store, or "" until the document
// has been persisted.
func (d *Document) Rev() string {
	if v, ok := d.data[KeyRev].(string); ok {
		return v
	}
	return ""
}

// Item is one raw key/value pair produced by Items.
type Item struct {
	Key   string
	Value any
}

// Items lists the raw pairs: identity first, then the revision when both id
// and rev are set, then every other key in sorted order. The reserved keys
// are skipped in the generic sweep.
func (d *Document) Items() []Item {
	var out []Item
	if id := d.ID(); id != "" {
		out = append(out, Item{Key: KeyID, Value: id})
		if rev := d.Rev(); rev != "" {
			out = append(out, Item{Key: KeyRev, Value: rev})
		}
	}
	for _, k := range d.Keys() {
		if k == KeyID || k == KeyRev {
			continue
		}
		out = append(out, Item{Key: k, Value: d.data[k]})
	}
	return out
}

func (d *Document) String() string {
	return fmt.Sprintf("<%s %q@%q>", d.def.name, d.ID(), d.Rev())
}

// Store persists the document. Without an id the store creates a new record
// and the backing store is replaced wholesale by re-reading the created
// record, picking up the server-assigned id, revision, and any server-side
// defaults. With an id the raw value is upserted as-is. Returns the
// document for chaining; store failures surface unchanged.
func (d *Document) Store(ctx context.Context, db Store) (*Document, error) {
	if d.ID() == "" {
		id, err := db.Create(ctx, d.data)
		if err != nil {
			return nil, err
		}
		fetched, ok, err := db.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, Issues{{Path: "/" + KeyID, Code: CodeNotFound, Hint: "created document vanished before resync", Params: map[string]any{"id": id}}}
		}
		d.data = fetched
		return d, nil
	}
	if err := db.Update(ctx, d.ID(), d.data); err != nil {
		return nil, err
	}
	return d, nil
}
