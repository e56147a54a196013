package compilelower

import (
	"github.com/otfgen/otfgen/pkg/analyzer"
	"github.com/otfgen/otfgen/pkg/lower/shared"
	"github.com/otfgen/otfgen/pkg/schema"
)

// emitTable lowers a Table's owned representation. The compile module does
// not preserve the parse module's borrowed-bytes Shape at all: a Table and
// a Record become the same kind of owned value, differing only in which
// fields may be absent, which planOwnedFields already encodes via
// pointer-typed offset fields.
func emitTable(tbl *schema.Table, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	return emitOwnedStruct(tbl.Name_, tbl.Docs_, tbl.Fields, r)
}
