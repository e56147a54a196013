package compilelower

import (
	"fmt"
	"strings"

	"github.com/otfgen/otfgen/pkg/analyzer"
	"github.com/otfgen/otfgen/pkg/lower/shared"
	"github.com/otfgen/otfgen/pkg/schema"
)

// ownedField describes one schema field's owned-representation shape: its
// Go storage type, and whether it is re-materialized at write time instead
// of stored.
type ownedField struct {
	field    *schema.Field
	goType   string
	computed bool
}

func planOwnedFields(fields []schema.Field, r *analyzer.Resolved) ([]ownedField, []*shared.LoweringError) {
	var out []ownedField
	var errs []*shared.LoweringError

	for i := range fields {
		f := &fields[i]

		if f.Attrs.Format != nil || f.Attrs.Compile != nil {
			out = append(out, ownedField{field: f, computed: true})
			continue
		}

		goType, fErrs := ownedGoType(f, r)
		errs = append(errs, fErrs...)
		out = append(out, ownedField{field: f, goType: goType})
	}

	return out, errs
}

func ownedGoType(f *schema.Field, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	switch f.Type.Kind {
	case schema.KindScalar:
		return shared.GoScalarType(f.Type.Scalar), nil
	case schema.KindOffset:
		if f.Type.Target == "" {
			return shared.OffsetGoType(f.Type.OffsetWidth), nil
		}

		return offsetTargetGoType(f.Type.Target, r), nil
	case schema.KindOther:
		return shared.ExportedName(f.Type.Other), nil
	case schema.KindArray, schema.KindComputedArray:
		elemType, errs := ownedElemGoType(f, r)
		return "[]" + elemType, errs
	default:
		return "any", []*shared.LoweringError{{Item: f.Name, Msg: "unsupported field kind"}}
	}
}

// offsetTargetGoType returns the owned storage type for an offset's pointee:
// a Format union is already an interface value on the compile side, so it
// is stored directly; anything else is stored behind a pointer, uniformly
// standing in for "may be absent".
func offsetTargetGoType(targetName string, r *analyzer.Resolved) string {
	name := shared.ExportedName(targetName)
	if _, ok := r.Lookup(targetName).(*schema.Format); ok {
		return name
	}

	return "*" + name
}

func ownedElemGoType(f *schema.Field, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	switch f.Type.Inner.Kind {
	case schema.KindScalar:
		return shared.GoScalarType(f.Type.Inner.Scalar), nil
	case schema.KindOffset:
		if f.Type.Inner.Target == "" {
			return shared.OffsetGoType(f.Type.Inner.OffsetWidth), nil
		}

		return offsetTargetGoType(f.Type.Inner.Target, r), nil
	case schema.KindOther:
		return shared.ExportedName(f.Type.Inner.Other), nil
	default:
		return "any", []*shared.LoweringError{{Item: f.Name, Msg: "unsupported array element kind"}}
	}
}

// emitRecord lowers a Record's owned representation: a plain value struct,
// always fully present (a Record never holds an offset out to other data),
// with AppendTo and Validate methods.
func emitRecord(rec *schema.Record, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	return emitOwnedStruct(rec.Name_, rec.Docs_, rec.Fields, r)
}

// emitOwnedStruct lowers any item carrying a flat field list (Record or
// Table) into its owned mutable representation plus ComputeSize, AppendTo,
// and Validate methods. A Table's owned form differs from a
// Record's only in that some of its offset fields may be absent (nil).
func emitOwnedStruct(itemName string, docs []string, fields []schema.Field, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	name := shared.ExportedName(itemName)

	owned, errs := planOwnedFields(fields, r)

	var b strings.Builder

	b.WriteString(shared.DocComment("", docs))
	fmt.Fprintf(&b, "type %s struct {\n", name)

	for _, of := range owned {
		if of.computed {
			continue
		}

		b.WriteString(shared.DocComment("\t", of.field.Attrs.Docs))
		fmt.Fprintf(&b, "\t%s %s\n", shared.ExportedName(of.field.Name), of.goType)
	}

	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func (v *%s) ComputeSize() int {\n\tn := 0\n", name)

	for _, of := range owned {
		errs = append(errs, emitSizeTerm(&b, name, of, r)...)
	}

	b.WriteString("\treturn n\n}\n\n")

	fmt.Fprintf(&b, "func (v *%s) AppendTo(dst []byte) []byte {\n", name)

	if hasOffsetTarget(owned) {
		b.WriteString("\tbase := len(dst)\n")
	}

	for _, of := range owned {
		errs = append(errs, emitAppendField(&b, name, of, r)...)
	}

	b.WriteString("\treturn dst\n}\n\n")

	fmt.Fprintf(&b, "func (v *%s) Validate(ctx *otfrt.Context) {\n", name)

	for _, of := range owned {
		emitValidateField(&b, of, owned, r)
	}

	b.WriteString("}\n\n")

	return b.String(), errs
}

// hasOffsetTarget reports whether any owned field (directly, or as an array
// element) is an offset with a resolvable target, i.e. whether AppendTo
// needs to compute byte positions relative to the start of the struct.
func hasOffsetTarget(owned []ownedField) bool {
	for _, of := range owned {
		f := of.field

		if f.Type.Kind == schema.KindOffset && f.Type.Target != "" {
			return true
		}

		if (f.Type.Kind == schema.KindArray || f.Type.Kind == schema.KindComputedArray) &&
			f.Type.Inner.Kind == schema.KindOffset && f.Type.Inner.Target != "" {
			return true
		}
	}

	return false
}

func emitSizeTerm(b *strings.Builder, itemName string, of ownedField, r *analyzer.Resolved) []*shared.LoweringError {
	f := of.field
	exported := shared.ExportedName(f.Name)

	if of.computed {
		fmt.Fprintf(b, "\tn += %d\n", f.Type.Scalar.ByteWidth())
		return nil
	}

	switch f.Type.Kind {
	case schema.KindScalar:
		fmt.Fprintf(b, "\tn += %d\n", f.Type.Scalar.ByteWidth())
	case schema.KindOffset:
		fmt.Fprintf(b, "\tn += %d\n", f.Type.OffsetWidth/8)
		if f.Type.Target != "" {
			fmt.Fprintf(b, "\tif v.%s != nil {\n\t\tn += v.%s.ComputeSize()\n\t}\n", exported, exported)
		}
	case schema.KindOther:
		if backing, ok := shared.AliasBacking(f.Type.Other, r); ok {
			fmt.Fprintf(b, "\tn += %d\n", backing.ByteWidth())
		} else {
			fmt.Fprintf(b, "\tn += v.%s.ComputeSize()\n", exported)
		}
	case schema.KindArray, schema.KindComputedArray:
		fmt.Fprintf(b, "\tfor _, e := range v.%s {\n\t\tn += %s\n\t}\n", exported, elemSizeExpr(f, r))
	default:
		return []*shared.LoweringError{{Item: itemName, Msg: "field '" + f.Name + "': unsupported kind for size computation"}}
	}

	return nil
}

func elemSizeExpr(f *schema.Field, r *analyzer.Resolved) string {
	switch f.Type.Inner.Kind {
	case schema.KindScalar:
		return fmt.Sprintf("%d", f.Type.Inner.Scalar.ByteWidth())
	case schema.KindOffset:
		if f.Type.Inner.Target == "" {
			return fmt.Sprintf("%d", f.Type.Inner.OffsetWidth/8)
		}

		return fmt.Sprintf("%d + e.ComputeSize()", f.Type.Inner.OffsetWidth/8)
	case schema.KindOther:
		if backing, ok := shared.AliasBacking(f.Type.Inner.Other, r); ok {
			return fmt.Sprintf("%d", backing.ByteWidth())
		}

		return "e.ComputeSize()"
	default:
		return "e.ComputeSize()"
	}
}

func emitAppendField(b *strings.Builder, itemName string, of ownedField, r *analyzer.Resolved) []*shared.LoweringError {
	f := of.field
	exported := shared.ExportedName(f.Name)

	if f.Attrs.Format != nil {
		fmt.Fprintf(b, "\tdst = %s(dst, %s(%d))\n", shared.EncodeFunc(f.Type.Scalar), shared.GoScalarType(f.Type.Scalar), *f.Attrs.Format)
		return nil
	}

	if f.Attrs.Compile != nil {
		fmt.Fprintf(b, "\tdst = %s(dst, %s(%s))\n", shared.EncodeFunc(f.Type.Scalar), shared.GoScalarType(f.Type.Scalar), compileExprToGo(f.Attrs.Compile))
		return nil
	}

	switch f.Type.Kind {
	case schema.KindScalar:
		fmt.Fprintf(b, "\tdst = %s(dst, v.%s)\n", shared.EncodeFunc(f.Type.Scalar), exported)
	case schema.KindOffset:
		goType := shared.OffsetGoType(f.Type.OffsetWidth)
		if f.Type.Target == "" {
			encodeOffset(b, "\t", goType, "v."+exported)
		} else {
			// The target immediately follows its own offset scalar, so the
			// offset value is just the distance from the start of this
			// struct to right after the scalar we're about to write.
			fmt.Fprintf(b, "\tif v.%s == nil {\n", exported)
			encodeOffset(b, "\t\t", goType, "0")
			b.WriteString("\t} else {\n")
			fmt.Fprintf(b, "\t\toff := len(dst) - base + %d\n", f.Type.OffsetWidth/8)
			encodeOffset(b, "\t\t", goType, "off")
			fmt.Fprintf(b, "\t\tdst = v.%s.AppendTo(dst)\n", exported)
			b.WriteString("\t}\n")
		}
	case schema.KindOther:
		if backing, ok := shared.AliasBacking(f.Type.Other, r); ok {
			fmt.Fprintf(b, "\tdst = %s(dst, %s(v.%s))\n", shared.EncodeFunc(backing), shared.GoScalarType(backing), exported)
		} else {
			fmt.Fprintf(b, "\tdst = v.%s.AppendTo(dst)\n", exported)
		}
	case schema.KindArray, schema.KindComputedArray:
		fmt.Fprintf(b, "\tfor _, e := range v.%s {\n", exported)
		emitElemAppend(b, f, r)
		b.WriteString("\t}\n")
	default:
		return []*shared.LoweringError{{Item: itemName, Msg: "field '" + f.Name + "': unsupported kind for write-out"}}
	}

	return nil
}

func encodeOffset(b *strings.Builder, indent, goType, expr string) {
	switch goType {
	case "otfrt.Offset16":
		fmt.Fprintf(b, "%sdst = otfrt.EncodeUint16(dst, uint16(%s))\n", indent, expr)
	case "otfrt.Offset24":
		fmt.Fprintf(b, "%sdst = otfrt.EncodeUint24(dst, otfrt.Uint24(%s))\n", indent, expr)
	default:
		fmt.Fprintf(b, "%sdst = otfrt.EncodeUint32(dst, uint32(%s))\n", indent, expr)
	}
}

func emitElemAppend(b *strings.Builder, f *schema.Field, r *analyzer.Resolved) {
	switch f.Type.Inner.Kind {
	case schema.KindScalar:
		fmt.Fprintf(b, "\t\tdst = %s(dst, e)\n", shared.EncodeFunc(f.Type.Inner.Scalar))
	case schema.KindOffset:
		goType := shared.OffsetGoType(f.Type.Inner.OffsetWidth)
		if f.Type.Inner.Target == "" {
			encodeOffset(b, "\t\t", goType, "e")
		} else {
			// Same immediately-follows-its-offset layout as the top-level
			// offset-with-target case, scoped to one array element.
			b.WriteString("\t\tif e == nil {\n")
			encodeOffset(b, "\t\t\t", goType, "0")
			b.WriteString("\t\t} else {\n")
			fmt.Fprintf(b, "\t\t\toff := len(dst) - base + %d\n", f.Type.Inner.OffsetWidth/8)
			encodeOffset(b, "\t\t\t", goType, "off")
			b.WriteString("\t\t\tdst = e.AppendTo(dst)\n")
			b.WriteString("\t\t}\n")
		}
	case schema.KindOther:
		if backing, ok := shared.AliasBacking(f.Type.Inner.Other, r); ok {
			fmt.Fprintf(b, "\t\tdst = %s(dst, %s(e))\n", shared.EncodeFunc(backing), shared.GoScalarType(backing))
		} else {
			b.WriteString("\t\tdst = e.AppendTo(dst)\n")
		}
	default:
		b.WriteString("\t\tdst = e.AppendTo(dst)\n")
	}
}

func emitValidateField(b *strings.Builder, of ownedField, all []ownedField, r *analyzer.Resolved) {
	f := of.field
	exported := shared.ExportedName(f.Name)

	if of.computed {
		return
	}

	switch f.Type.Kind {
	case schema.KindOffset:
		if f.Type.Target != "" {
			fmt.Fprintf(b, "\tif v.%s != nil {\n\t\tctx.InField(%q, func(ctx *otfrt.Context) { v.%s.Validate(ctx) })\n\t}\n", exported, f.Name, exported)
		}
	case schema.KindOther:
		if _, ok := shared.AliasBacking(f.Type.Other, r); !ok {
			fmt.Fprintf(b, "\tctx.InField(%q, func(ctx *otfrt.Context) { v.%s.Validate(ctx) })\n", f.Name, exported)
		}
	case schema.KindArray, schema.KindComputedArray:
		if f.Attrs.Count != nil && f.Attrs.Count.Kind == schema.CountField {
			fmt.Fprintf(b, "\tctx.InField(%q, func(ctx *otfrt.Context) { ctx.CheckArrayLen(%q, len(v.%s), %s) })\n", f.Name, f.Name, exported, maxOfField(f.Attrs.Count.Field, all))
		}

		isAlias := false
		if f.Type.Inner.Kind == schema.KindOther {
			_, isAlias = shared.AliasBacking(f.Type.Inner.Other, r)
		}

		if (f.Type.Inner.Kind == schema.KindOther && !isAlias) || (f.Type.Inner.Kind == schema.KindOffset && f.Type.Inner.Target != "") {
			fmt.Fprintf(b, "\tfor i, e := range v.%s {\n\t\t_ = i\n\t\tctx.InField(%q, func(ctx *otfrt.Context) {\n", exported, f.Name)

			if f.Type.Inner.Kind == schema.KindOffset {
				b.WriteString("\t\t\tif e != nil {\n\t\t\t\te.Validate(ctx)\n\t\t\t}\n")
			} else {
				b.WriteString("\t\t\te.Validate(ctx)\n")
			}

			b.WriteString("\t\t})\n\t}\n")
		}
	}
}

// maxOfField returns the maximum value representable by the named count
// source field's scalar type, e.g. 65535 for a uint16.
func maxOfField(name string, all []ownedField) string {
	for _, of := range all {
		if of.field.Name == name && of.field.Type.Kind == schema.KindScalar {
			width := of.field.Type.Scalar.ByteWidth()
			if width > 0 && width < 8 {
				return fmt.Sprintf("%d", (uint64(1)<<(uint(width)*8))-1)
			}
		}
	}

	return "0xFFFFFFFF"
}

func compileExprToGo(e *schema.Expr) string {
	if e.IsLeaf() {
		if e.IsLiteral {
			return fmt.Sprintf("%d", e.Literal)
		}

		return "v." + shared.ExportedName(e.Ident)
	}

	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = compileExprToGo(a)
	}

	switch e.Op {
	case "add":
		return "(" + strings.Join(parts, " + ") + ")"
	case "sub":
		return "(" + strings.Join(parts, " - ") + ")"
	case "mul":
		return "(" + strings.Join(parts, " * ") + ")"
	default:
		return "0"
	}
}
