// Package parselower implements the parse lowerer: it turns a
// frozen, analyzed schema.Document into the Go source of a zero-copy parse
// module, where every Table reads lazily off a borrowed byte slice and
// every Record is a small eagerly-read value type.
package parselower

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/otfgen/otfgen/pkg/analyzer"
	"github.com/otfgen/otfgen/pkg/lower/shared"
	"github.com/otfgen/otfgen/pkg/schema"
)

// Lower emits the complete parse-module source for r. generatorName and
// sourceName feed the header banner; packageName names the
// emitted package.
func Lower(r *analyzer.Resolved, packageName, generatorName, sourceName string) (string, []*shared.LoweringError) {
	log.Debug("parselower: lowering ", len(r.Doc.Items), " items")

	var errs []*shared.LoweringError
	var bodies []string

	for _, it := range r.Doc.Items {
		body, itErrs := lowerItem(it, r)
		errs = append(errs, itErrs...)
		bodies = append(bodies, body)
	}

	var out strings.Builder

	out.WriteString(shared.Banner(generatorName, sourceName))
	fmt.Fprintf(&out, "\npackage %s\n\n", packageName)
	out.WriteString("import (\n\t\"github.com/otfgen/otfgen/pkg/otfrt\"\n)\n\n")

	for _, body := range bodies {
		out.WriteString(body)
	}

	return out.String(), errs
}

func lowerItem(it schema.Item, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	switch v := it.(type) {
	case *schema.Record:
		return emitRecord(v, r)
	case *schema.Table:
		return emitTable(v, r)
	case *schema.GenericGroup:
		return emitGroup(v, r)
	case *schema.Format:
		return emitFormat(v, r)
	case *schema.RawEnum:
		return emitRawEnum(v), nil
	case *schema.Flags:
		return emitFlags(v), nil
	case *schema.Extern:
		// Externs name a type the runtime library already defines;
		// the parse module references it by name but emits nothing for it.
		return "", nil
	default:
		return "", []*shared.LoweringError{{Item: it.ItemName(), Msg: "unrecognized item kind"}}
	}
}
