// Package compilelower implements the compile lowerer: it turns
// a frozen, analyzed schema.Document into the Go source of a mutable,
// owned module capable of writing itself back out as big-endian bytes and
// validating its own structural invariants.
package compilelower

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/otfgen/otfgen/pkg/analyzer"
	"github.com/otfgen/otfgen/pkg/lower/shared"
	"github.com/otfgen/otfgen/pkg/schema"
)

// Lower emits the complete compile-module source for r. parseImportPath is
// the import path of the sibling parse module this package re-exports
// RawEnum/Flags types from.
func Lower(r *analyzer.Resolved, packageName, parseImportPath, generatorName, sourceName string) (string, []*shared.LoweringError) {
	log.Debug("compilelower: lowering ", len(r.Doc.Items), " items")

	var errs []*shared.LoweringError
	var bodies []string

	needsParseImport := false

	for _, it := range r.Doc.Items {
		if _, ok := reexportName(it); ok {
			needsParseImport = true
		}

		body, itErrs := lowerItem(it, r)
		errs = append(errs, itErrs...)
		bodies = append(bodies, body)
	}

	var out strings.Builder

	out.WriteString(shared.Banner(generatorName, sourceName))
	fmt.Fprintf(&out, "\npackage %s\n\n", packageName)

	out.WriteString("import (\n\t\"github.com/otfgen/otfgen/pkg/otfrt\"\n")

	if needsParseImport {
		fmt.Fprintf(&out, "\n\tparse %q\n", parseImportPath)
	}

	out.WriteString(")\n\n")

	for _, body := range bodies {
		out.WriteString(body)
	}

	return out.String(), errs
}

func lowerItem(it schema.Item, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	if name, ok := reexportName(it); ok {
		return emitEnumReexport(name, "parse"), nil
	}

	switch v := it.(type) {
	case *schema.Record:
		return emitRecord(v, r)
	case *schema.Table:
		return emitTable(v, r)
	case *schema.GenericGroup:
		return emitGroup(v, r)
	case *schema.Format:
		return emitFormat(v, r)
	case *schema.Extern:
		return "", nil
	default:
		return "", []*shared.LoweringError{{Item: it.ItemName(), Msg: "unrecognized item kind"}}
	}
}
