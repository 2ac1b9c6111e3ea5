package dsl

import (
	couchmap "github.com/couchmap/couchmap"
	"github.com/couchmap/couchmap/codec"
	"github.com/couchmap/couchmap/i18n"
	"gopkg.in/yaml.v3"
)

// Manifest is the YAML form of a Definition, for declaring schemas in
// configuration files rather than code:
//
//	name: Post
//	fields:
//	  - attr: title
//	    kind: text
//	  - attr: age
//	    kind: integer
//	    default: 0
//	  - attr: author
//	    kind: dict
//	    fields:
//	      - {attr: name, kind: text}
//	  - attr: comments
//	    kind: list
//	    of: {kind: text}
//	views:
//	  - attr: by_title
//	    design: posts
//	    map: "function(doc) { emit(doc.title, null); }"
type Manifest struct {
	Name   string          `yaml:"name"`
	Fields []ManifestField `yaml:"fields"`
	Views  []ManifestView  `yaml:"views"`
}

// ManifestField declares one field. Name overrides the raw key when it
// differs from the attribute. Fields nests a dict schema; Of gives the
// element of a list kind.
type ManifestField struct {
	Attr    string          `yaml:"attr"`
	Kind    string          `yaml:"kind"`
	Name    string          `yaml:"name"`
	Default any             `yaml:"default"`
	Fields  []ManifestField `yaml:"fields"`
	Of      *ManifestField  `yaml:"of"`
}

// ManifestView declares one view binding.
type ManifestView struct {
	Attr     string `yaml:"attr"`
	Design   string `yaml:"design"`
	Name     string `yaml:"name"`
	Map      string `yaml:"map"`
	Reduce   string `yaml:"reduce"`
	Language string `yaml:"language"`
}

// ParseManifest builds a Definition from a YAML manifest document.
func ParseManifest(data []byte) (*couchmap.Definition, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, couchmap.Issues{{Path: "/", Code: couchmap.CodeParseError, Message: err.Error(), Cause: err}}
	}
	return m.Definition()
}

// Definition materializes the manifest.
func (m Manifest) Definition() (*couchmap.Definition, error) {
	b := Define(m.Name)
	for _, mf := range m.Fields {
		f, err := mf.field()
		if err != nil {
			return nil, err
		}
		b.Field(mf.Attr, f)
	}
	for _, mv := range m.Views {
		var reduce any
		if mv.Reduce != "" {
			reduce = mv.Reduce
		}
		b.View(mv.Attr, couchmap.ViewBinding{
			Design:   mv.Design,
			Name:     mv.Name,
			Map:      mv.Map,
			Reduce:   reduce,
			Language: mv.Language,
		})
	}
	return b.Build()
}

func (mf ManifestField) field() (couchmap.Field, error) {
	var f couchmap.Field
	switch mf.Kind {
	case "text":
		f = codec.Text()
	case "float":
		f = codec.Float()
	case "integer":
		f = codec.Integer()
	case "long":
		f = codec.Long()
	case "boolean":
		f = codec.Boolean()
	case "decimal":
		f = codec.Decimal()
	case "date":
		f = codec.Date()
	case "datetime":
		f = codec.DateTime()
	case "time":
		f = codec.Time()
	case "dict":
		sub := couchmap.Fields{}
		for _, nf := range mf.Fields {
			built, err := nf.field()
			if err != nil {
				return couchmap.Field{}, err
			}
			sub[nf.Attr] = built
		}
		def, err := couchmap.Build(sub)
		if err != nil {
			return couchmap.Field{}, err
		}
		f = couchmap.DictField(def)
	case "list":
		if mf.Of == nil {
			return couchmap.Field{}, couchmap.Issues{{
				Path: "/" + mf.Attr, Code: couchmap.CodeParseError,
				Hint: "list kind requires an 'of' element",
			}}
		}
		elem, err := mf.Of.field()
		if err != nil {
			return couchmap.Field{}, err
		}
		f = couchmap.ListField(elem)
	default:
		return couchmap.Field{}, couchmap.Issues{{
			Path:    "/" + mf.Attr,
			Code:    couchmap.CodeUnknownKind,
			Message: i18n.T(couchmap.CodeUnknownKind, nil),
			Params:  map[string]any{"kind": mf.Kind},
		}}
	}
	if mf.Name != "" {
		f = f.WithName(mf.Name)
	}
	if mf.Default != nil {
		f = f.WithDefault(mf.Default)
	}
	return f, nil
}
