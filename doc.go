package couchmap

// Package couchmap maps between raw, schemaless document trees and typed
// records declared by an application. It provides:
//
// - Per-field bidirectional conversion between wire encodings and typed
//   values (codec/ holds the scalar codecs)
// - Static field registries composed once per Definition, with ancestor
//   merge and subclass-style override
// - Schema/Document wrappers that alias a raw backing document instead of
//   copying it, plus lazy typed views over raw sequences
// - A narrow Store contract for fetch/create/upsert and index queries
//
// Design policy:
// - Keep only public APIs in the root package.
// - Place the Definition builder and YAML manifests under dsl/, scalar
//   codecs under codec/, and collaborators (memstore/, dump/) in their own
//   packages.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	person := dsl.Define("Person").
//		Field("name", codec.Text()).
//		Field("age", codec.Integer()).Default(0).
//		MustBuild()
//
//	doc, err := person.NewDoc("", couchmap.Values{"name": "John Doe"})
//	doc, err = doc.Store(ctx, db)
//	loaded, ok, err := person.Load(ctx, db, doc.ID())
