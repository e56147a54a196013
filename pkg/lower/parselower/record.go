package parselower

import (
	"fmt"
	"strings"

	"github.com/otfgen/otfgen/pkg/analyzer"
	"github.com/otfgen/otfgen/pkg/lower/shared"
	"github.com/otfgen/otfgen/pkg/schema"
)

// emitRecord lowers a Record: a value type whose
// fields are in their raw, wrapped representation, read eagerly and
// sequentially off a Cursor with no storage of its own besides its fields.
func emitRecord(rec *schema.Record, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	name := shared.ExportedName(rec.Name_)

	var b strings.Builder
	var errs []*shared.LoweringError

	b.WriteString(shared.DocComment("", rec.Docs_))
	fmt.Fprintf(&b, "type %s struct {\n", name)

	for i := range rec.Fields {
		f := &rec.Fields[i]

		goType, fErrs := recordFieldGoType(f, r)
		errs = append(errs, fErrs...)

		b.WriteString(shared.DocComment("\t", f.Attrs.Docs))
		fmt.Fprintf(&b, "\t%s %s\n", shared.ExportedName(f.Name), goType)
	}

	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func read%s(c *otfrt.Cursor) (%s, error) {\n", name, name)
	b.WriteString("\tvar v " + name + "\n")
	b.WriteString("\tvar err error\n\n")

	for i := range rec.Fields {
		f := &rec.Fields[i]
		errs = append(errs, emitRecordFieldRead(&b, name, f, rec.Fields[:i], r)...)
	}

	b.WriteString("\n\treturn v, nil\n}\n\n")

	return b.String(), errs
}

func recordFieldGoType(f *schema.Field, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	switch f.Type.Kind {
	case schema.KindScalar:
		return shared.GoScalarType(f.Type.Scalar), nil
	case schema.KindOffset:
		return shared.OffsetGoType(f.Type.OffsetWidth), nil
	case schema.KindOther:
		return shared.ExportedName(f.Type.Other), nil
	case schema.KindArray:
		elemType, errs := recordElemGoType(f, r)
		return "[]" + elemType, errs
	default:
		return "any", []*shared.LoweringError{{
			Item: f.Name, Msg: "computed arrays are not supported inside a fixed-shape record",
		}}
	}
}

func recordElemGoType(f *schema.Field, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	switch f.Type.Inner.Kind {
	case schema.KindScalar:
		return shared.GoScalarType(f.Type.Inner.Scalar), nil
	case schema.KindOffset:
		return shared.OffsetGoType(f.Type.Inner.OffsetWidth), nil
	case schema.KindOther:
		return shared.ExportedName(f.Type.Inner.Other), nil
	default:
		return "any", []*shared.LoweringError{{
			Item: f.Name, Msg: "array element type is not supported inside a record",
		}}
	}
}

func emitRecordFieldRead(b *strings.Builder, itemName string, f *schema.Field, preceding []schema.Field, r *analyzer.Resolved) []*shared.LoweringError {
	exported := shared.ExportedName(f.Name)

	switch f.Type.Kind {
	case schema.KindScalar:
		fmt.Fprintf(b, "\tif v.%s, err = c.%s(); err != nil {\n\t\treturn v, err\n\t}\n", exported, shared.CursorReadMethod(f.Type.Scalar))
		return nil
	case schema.KindOffset:
		method := shared.OffsetReadMethod(f.Type.OffsetWidth)
		goType := shared.OffsetGoType(f.Type.OffsetWidth)
		fmt.Fprintf(b, "\t{\n\t\traw, rerr := c.%s()\n\t\tif rerr != nil {\n\t\t\treturn v, rerr\n\t\t}\n\t\tv.%s = %s(raw)\n\t}\n", method, exported, goType)
		return nil
	case schema.KindOther:
		emitOtherFieldRead(b, f.Type.Other, "v."+exported, "c", "\t", "v", r)
		return nil
	case schema.KindArray:
		return emitRecordArrayRead(b, itemName, f, r)
	default:
		return []*shared.LoweringError{{Item: itemName, Msg: "field '" + f.Name + "': unsupported field kind in record"}}
	}
}

func emitRecordArrayRead(b *strings.Builder, itemName string, f *schema.Field, r *analyzer.Resolved) []*shared.LoweringError {
	exported := shared.ExportedName(f.Name)
	elemType, errs := recordElemGoType(f, r)

	countExpr, cErrs := countGoExpr(f)
	errs = append(errs, cErrs...)

	if len(errs) > 0 {
		return errs
	}

	fmt.Fprintf(b, "\tv.%s = make([]%s, %s)\n", exported, elemType, countExpr)
	fmt.Fprintf(b, "\tfor i := range v.%s {\n", exported)

	switch f.Type.Inner.Kind {
	case schema.KindScalar:
		fmt.Fprintf(b, "\t\tif v.%s[i], err = c.%s(); err != nil {\n\t\t\treturn v, err\n\t\t}\n", exported, shared.CursorReadMethod(f.Type.Inner.Scalar))
	case schema.KindOffset:
		method := shared.OffsetReadMethod(f.Type.Inner.OffsetWidth)
		goType := shared.OffsetGoType(f.Type.Inner.OffsetWidth)
		fmt.Fprintf(b, "\t\traw, rerr := c.%s()\n\t\tif rerr != nil {\n\t\t\treturn v, rerr\n\t\t}\n\t\tv.%s[i] = %s(raw)\n", method, exported, goType)
	case schema.KindOther:
		emitOtherFieldRead(b, f.Type.Inner.Other, fmt.Sprintf("v.%s[i]", exported), "c", "\t\t", "v", r)
	}

	b.WriteString("\t}\n")

	return nil
}

// countGoExpr renders a field's #[count(...)] attribute as a Go expression
// valid at the point the field is read, i.e. referencing already-assigned
// v.<Field> locals for a field-name count.
func countGoExpr(f *schema.Field) (string, []*shared.LoweringError) {
	if f.Attrs.Count == nil {
		return "", []*shared.LoweringError{{Item: f.Name, Msg: "array field has no #[count(...)] attribute"}}
	}

	switch f.Attrs.Count.Kind {
	case schema.CountLiteral:
		return fmt.Sprintf("%d", f.Attrs.Count.Literal), nil
	case schema.CountField:
		return "int(v." + shared.ExportedName(f.Attrs.Count.Field) + ")", nil
	case schema.CountExpr:
		return exprToGo(f.Attrs.Count.Expr), nil
	default:
		return "", []*shared.LoweringError{{Item: f.Name, Msg: "ellipsis-counted arrays need an enclosing table's remaining-bytes context"}}
	}
}

// exprToGo renders the small count/len arithmetic sublanguage as
// a Go int expression referencing decoded field locals.
func exprToGo(e *schema.Expr) string {
	if e.IsLeaf() {
		if e.IsLiteral {
			return fmt.Sprintf("%d", e.Literal)
		}

		return "int(v." + shared.ExportedName(e.Ident) + ")"
	}

	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = exprToGo(a)
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
