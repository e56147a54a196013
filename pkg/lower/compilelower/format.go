package compilelower

import (
	"fmt"
	"strings"

	"github.com/otfgen/otfgen/pkg/analyzer"
	"github.com/otfgen/otfgen/pkg/lower/shared"
	"github.com/otfgen/otfgen/pkg/schema"
)

// emitFormat lowers a Format discriminated union's owned side: an
// interface satisfied by every variant's already-emitted owned table type
// (each of which implements otfrt.Sizer and otfrt.Writer), plus an
// is<Name>() marker method on each variant type so that only those types
// satisfy the interface.
func emitFormat(f *schema.Format, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	name := shared.ExportedName(f.Name_)

	var b strings.Builder

	b.WriteString(shared.DocComment("", f.Docs_))
	fmt.Fprintf(&b, "type %s interface {\n\totfrt.Sizer\n\totfrt.Writer\n\tValidate(ctx *otfrt.Context)\n\tis%s()\n}\n\n", name, name)

	for _, v := range f.Variants {
		vname := shared.ExportedName(v.TableName)
		fmt.Fprintf(&b, "func (v *%s) is%s() {}\n\n", vname, name)
	}

	return b.String(), nil
}
