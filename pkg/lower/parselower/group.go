package parselower

import (
	"fmt"
	"strings"

	"github.com/otfgen/otfgen/pkg/analyzer"
	"github.com/otfgen/otfgen/pkg/lower/shared"
	"github.com/otfgen/otfgen/pkg/schema"
)

// emitGroup lowers a GenericGroup: several tables sharing one common
// header, with the caller (not the header itself) choosing which variant
// applies — the header is read the same way a Table's fixed-position
// fields are, and one As<Variant> method per declared variant hands the
// group's whole byte span to that variant's own reader.
func emitGroup(g *schema.GenericGroup, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	name := shared.ExportedName(g.Name_)

	var b strings.Builder
	var errs []*shared.LoweringError

	versionField := findVersionField(g.HeaderFields)

	b.WriteString(shared.DocComment("", g.Docs_))
	fmt.Fprintf(&b, "type %s struct {\n\tdata []byte\n\n", name)

	for i := range g.HeaderFields {
		f := &g.HeaderFields[i]
		storeType, fErrs := tableShapeFieldType(f, r)
		errs = append(errs, fErrs...)

		if isArrayLike(f.Type.Kind) {
			fmt.Fprintf(&b, "\t%sStart int\n\t%sCount int\n", shared.UnexportedName(f.Name), shared.UnexportedName(f.Name))
		} else {
			fmt.Fprintf(&b, "\t%s %s\n", shared.UnexportedName(f.Name), storeType)
		}
	}

	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "// New%s reads %s's shared header; use the As* methods to\n// reinterpret the underlying data as one of its declared variants.\n", name, name)
	fmt.Fprintf(&b, "func New%s(data []byte) (*%s, error) {\n", name, name)
	fmt.Fprintf(&b, "\tg := &%s{data: data}\n\tc := otfrt.NewCursor(data)\n\tvar err error\n\n", name)

	for i := range g.HeaderFields {
		f := &g.HeaderFields[i]
		errs = append(errs, emitGroupHeaderFieldRead(&b, name, f, versionField, r)...)
	}

	b.WriteString("\n\treturn g, nil\n}\n\n")

	for i := range g.HeaderFields {
		f := &g.HeaderFields[i]
		errs = append(errs, emitGroupHeaderAccessor(&b, name, f)...)
	}

	for _, variant := range g.Variants {
		vname := shared.ExportedName(variant)
		fmt.Fprintf(&b, "func (g *%s) As%s() (*%s, error) { return New%s(g.data) }\n\n", name, vname, vname, vname)
	}

	return b.String(), errs
}

func emitGroupHeaderFieldRead(b *strings.Builder, itemName string, f *schema.Field, versionField string, r *analyzer.Resolved) []*shared.LoweringError {
	if f.Attrs.Available != nil {
		if versionField == "" {
			return []*shared.LoweringError{{Item: itemName, Msg: "header field '" + f.Name + "' is #[available(...)] gated but the group has no leading version field"}}
		}

		fmt.Fprintf(b, "\tif uint64(g.%s) >= %d {\n", shared.UnexportedName(versionField), f.Attrs.Available.Min)
		errs := emitGroupHeaderFieldReadBody(b, itemName, f, "\t\t", r)
		b.WriteString("\t}\n")

		return errs
	}

	return emitGroupHeaderFieldReadBody(b, itemName, f, "\t", r)
}

func emitGroupHeaderFieldReadBody(b *strings.Builder, itemName string, f *schema.Field, indent string, r *analyzer.Resolved) []*shared.LoweringError {
	exported := shared.UnexportedName(f.Name)

	switch f.Type.Kind {
	case schema.KindScalar:
		fmt.Fprintf(b, "%sif g.%s, err = c.%s(); err != nil {\n%s\treturn nil, err\n%s}\n", indent, exported, shared.CursorReadMethod(f.Type.Scalar), indent, indent)
		return nil
	case schema.KindOffset:
		method := shared.OffsetReadMethod(f.Type.OffsetWidth)
		goType := shared.OffsetGoType(f.Type.OffsetWidth)
		fmt.Fprintf(b, "%s{\n%s\traw, rerr := c.%s()\n%s\tif rerr != nil {\n%s\t\treturn nil, rerr\n%s\t}\n%s\tg.%s = %s(raw)\n%s}\n",
			indent, indent, method, indent, indent, indent, indent, exported, goType, indent)
		return nil
	default:
		return []*shared.LoweringError{{Item: itemName, Msg: "header field '" + f.Name + "': only scalar and offset fields are supported in a group header"}}
	}
}

func emitGroupHeaderAccessor(b *strings.Builder, itemName string, f *schema.Field) []*shared.LoweringError {
	if f.Attrs.SkipGetter {
		return nil
	}

	exported := shared.ExportedName(f.Name)
	private := shared.UnexportedName(f.Name)

	switch f.Type.Kind {
	case schema.KindScalar:
		fmt.Fprintf(b, "func (g *%s) %s() %s { return g.%s }\n\n", itemName, exported, shared.GoScalarType(f.Type.Scalar), private)
	case schema.KindOffset:
		fmt.Fprintf(b, "func (g *%s) %s() %s { return g.%s }\n\n", itemName, exported, shared.OffsetGoType(f.Type.OffsetWidth), private)
	}

	return nil
}
