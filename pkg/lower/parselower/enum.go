package parselower

import (
	"fmt"
	"strings"

	"github.com/otfgen/otfgen/pkg/lower/shared"
	"github.com/otfgen/otfgen/pkg/schema"
)

// emitRawEnum lowers a RawEnum into a named scalar type with one constant
// per value and a String method, the Go idiom the whole ecosystem uses in
// place of a closed sum type.
func emitRawEnum(e *schema.RawEnum) string {
	name := shared.ExportedName(e.Name_)
	goType := shared.GoScalarType(e.Backing)

	var b strings.Builder

	b.WriteString(shared.DocComment("", e.Docs_))
	fmt.Fprintf(&b, "type %s %s\n\n", name, goType)

	b.WriteString("const (\n")

	for _, v := range e.Values {
		b.WriteString(shared.DocComment("\t", v.Docs))
		fmt.Fprintf(&b, "\t%s%s %s = %d\n", name, shared.ExportedName(v.Name), name, v.Value)
	}

	b.WriteString(")\n\n")

	fmt.Fprintf(&b, "func (v %s) String() string {\n\tswitch v {\n", name)

	for _, v := range e.Values {
		fmt.Fprintf(&b, "\tcase %s%s:\n\t\treturn %q\n", name, shared.ExportedName(v.Name), v.Name)
	}

	b.WriteString("\tdefault:\n\t\treturn \"unknown\"\n\t}\n}\n\n")

	return b.String()
}

// emitFlags lowers a Flags bitset into a named scalar type with one
// constant per declared flag, holding its literal mask value, and a Has
// helper, matching the bit-test
// idiom generated code throughout the ecosystem uses for OpenType flag
// fields (e.g. head's macStyle, OS/2's fsSelection).
func emitFlags(fl *schema.Flags) string {
	name := shared.ExportedName(fl.Name_)
	goType := shared.GoScalarType(fl.Backing)

	var b strings.Builder

	b.WriteString(shared.DocComment("", fl.Docs_))
	fmt.Fprintf(&b, "type %s %s\n\n", name, goType)

	b.WriteString("const (\n")

	for _, bit := range fl.Bits {
		b.WriteString(shared.DocComment("\t", bit.Docs))
		fmt.Fprintf(&b, "\t%s%s %s = 0x%x\n", name, shared.ExportedName(bit.Name), name, bit.Value)
	}

	b.WriteString(")\n\n")

	fmt.Fprintf(&b, "// Has reports whether every bit in mask is set.\n")
	fmt.Fprintf(&b, "func (v %s) Has(mask %s) bool { return v&mask == mask }\n\n", name, name)

	return b.String()
}
