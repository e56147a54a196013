package analyzer

import (
	log "github.com/sirupsen/logrus"

	"github.com/otfgen/otfgen/pkg/schema"
)

// Resolved is the frozen, analyzed form of a schema.Document. Nothing after
// Analyze mutates the tree again; Lookup is the sole mechanism lowerers use
// to follow a cross-item reference, by name, never by a cached pointer.
type Resolved struct {
	Doc    *schema.Document
	lookup map[string]schema.Item
}

// Lookup returns the item with the given name, or nil.
func (r *Resolved) Lookup(name string) schema.Item {
	return r.lookup[name]
}

// Analyze runs Phase P (post-parse sanity and per-field bookkeeping) and
// Phase A (cross-item reference resolution) over doc, mutating its Field
// values in place to fill in InputFields/ReadAtParseTime and FormatVariant
// values to fill in FormatValue, and returns every diagnostic found across
// both phases.
func Analyze(doc *schema.Document) (*Resolved, []*Error) {
	log.Debug("analyzer: phase P (post-parse sanity)")

	var errs []*Error

	lookup := make(map[string]schema.Item, len(doc.Items))
	for _, it := range doc.Items {
		lookup[it.ItemName()] = it
	}

	for _, it := range doc.Items {
		errs = append(errs, phaseP(it)...)
	}

	log.Debug("analyzer: phase A (cross-item resolution)")

	for _, it := range doc.Items {
		errs = append(errs, phaseA(it, lookup)...)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &Resolved{Doc: doc, lookup: lookup}, nil
}

func fieldsOf(it schema.Item) []schema.Field {
	switch v := it.(type) {
	case *schema.Record:
		return v.Fields
	case *schema.Table:
		return v.Fields
	case *schema.GenericGroup:
		return v.HeaderFields
	default:
		return nil
	}
}
