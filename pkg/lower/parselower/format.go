package parselower

import (
	"fmt"
	"strings"

	"github.com/otfgen/otfgen/pkg/analyzer"
	"github.com/otfgen/otfgen/pkg/lower/shared"
	"github.com/otfgen/otfgen/pkg/schema"
)

// emitFormat lowers a Format discriminated union: an
// interface implemented by every variant table, plus a Read<Name> that
// peeks the leading discriminant without consuming it and constructs
// whichever variant's format literal matches.
func emitFormat(f *schema.Format, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	name := shared.ExportedName(f.Name_)

	var b strings.Builder

	b.WriteString(shared.DocComment("", f.Docs_))
	fmt.Fprintf(&b, "type %s interface {\n\tis%s()\n}\n\n", name, name)

	method := shared.CursorReadMethod(f.Discriminant)

	fmt.Fprintf(&b, "// Read%s peeks %s's leading discriminant and constructs the\n// matching variant without consuming input on failure.\n", name, name)
	fmt.Fprintf(&b, "func Read%s(data []byte) (%s, error) {\n", name, name)
	fmt.Fprintf(&b, "\tc := otfrt.NewCursor(data)\n\n\tdisc, err := c.%s()\n\tif err != nil {\n\t\treturn nil, err\n\t}\n\n", method)
	fmt.Fprintf(&b, "\tswitch uint64(disc) {\n")

	for _, v := range f.Variants {
		vname := shared.ExportedName(v.TableName)
		fmt.Fprintf(&b, "\tcase %d:\n\t\treturn New%s(data)\n", v.FormatValue, vname)
	}

	fmt.Fprintf(&b, "\tdefault:\n\t\treturn nil, &otfrt.ParseError{Kind: otfrt.InvalidFormat, Msg: \"unrecognized %s format\"}\n\t}\n}\n\n", f.Name_)

	for _, v := range f.Variants {
		vname := shared.ExportedName(v.TableName)
		fmt.Fprintf(&b, "func (t *%s) is%s() {}\n\n", vname, name)
	}

	return b.String(), nil
}
