package compilelower

import (
	"fmt"
	"strings"

	"github.com/otfgen/otfgen/pkg/analyzer"
	"github.com/otfgen/otfgen/pkg/lower/shared"
	"github.com/otfgen/otfgen/pkg/schema"
)

// emitGroup lowers a GenericGroup's owned representation: the shared header
// fields plus a oneof-shaped payload field holding exactly one variant's
// owned value, the owned-side counterpart of the parse module's As<Variant>
// dispatch.
func emitGroup(g *schema.GenericGroup, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	name := shared.ExportedName(g.Name_)

	owned, errs := planOwnedFields(g.HeaderFields, r)

	var b strings.Builder

	b.WriteString(shared.DocComment("", g.Docs_))
	fmt.Fprintf(&b, "type %s struct {\n", name)

	for _, of := range owned {
		if of.computed {
			continue
		}

		fmt.Fprintf(&b, "\t%s %s\n", shared.ExportedName(of.field.Name), of.goType)
	}

	fmt.Fprintf(&b, "\n\t// Exactly one of the following is set, selecting which variant this\n\t// group holds.\n")

	for _, variant := range g.Variants {
		fmt.Fprintf(&b, "\t%s *%s\n", shared.ExportedName(variant), shared.ExportedName(variant))
	}

	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func (v *%s) ComputeSize() int {\n\tn := 0\n", name)

	for _, of := range owned {
		errs = append(errs, emitSizeTerm(&b, name, of, r)...)
	}

	for _, variant := range g.Variants {
		vname := shared.ExportedName(variant)
		fmt.Fprintf(&b, "\tif v.%s != nil {\n\t\tn += v.%s.ComputeSize()\n\t}\n", vname, vname)
	}

	b.WriteString("\treturn n\n}\n\n")

	fmt.Fprintf(&b, "func (v *%s) AppendTo(dst []byte) []byte {\n", name)

	if hasOffsetTarget(owned) {
		b.WriteString("\tbase := len(dst)\n")
	}

	for _, of := range owned {
		errs = append(errs, emitAppendField(&b, name, of, r)...)
	}

	for _, variant := range g.Variants {
		vname := shared.ExportedName(variant)
		fmt.Fprintf(&b, "\tif v.%s != nil {\n\t\tdst = v.%s.AppendTo(dst)\n\t}\n", vname, vname)
	}

	b.WriteString("\treturn dst\n}\n\n")

	fmt.Fprintf(&b, "func (v *%s) Validate(ctx *otfrt.Context) {\n", name)

	present := 0

	for _, variant := range g.Variants {
		vname := shared.ExportedName(variant)
		fmt.Fprintf(&b, "\tif v.%s != nil {\n\t\tctx.InField(%q, func(ctx *otfrt.Context) { v.%s.Validate(ctx) })\n\t}\n", vname, variant, vname)
		present++
	}

	if present > 0 {
		fmt.Fprintf(&b, "\n\tset := 0\n")

		for _, variant := range g.Variants {
			fmt.Fprintf(&b, "\tif v.%s != nil {\n\t\tset++\n\t}\n", shared.ExportedName(variant))
		}

		b.WriteString("\tif set != 1 {\n\t\tctx.Report(\"exactly one variant must be set, got %d\", set)\n\t}\n")
	}

	b.WriteString("}\n\n")

	return b.String(), errs
}
