package parselower

import (
	"fmt"
	"strings"

	"github.com/otfgen/otfgen/pkg/analyzer"
	"github.com/otfgen/otfgen/pkg/lower/shared"
	"github.com/otfgen/otfgen/pkg/schema"
)

// emitTable lowers a Table into its three coupled
// artifacts: 1. a Shape descriptor (the struct's private fields) computed by
// a single left-to-right Cursor walk over the table's own fields; 2. the
// table reader (NewXxx) that performs that walk, bounds-checking every field
// as it advances and gating version-conditional fields; 3. per-field
// accessor methods that either return an already-decoded value or resolve a
// stored byte range/offset on demand, keeping array and offset access
// zero-copy.
//
// Every reader accepts a trailing args ...uint64, which the generated body
// discards; it is there so that #[read_with_args] offset and computed-array
// call sites can pass arguments to any table — a uniform constructor shape
// is simpler than generating a second, args-only variant per table.
func emitTable(tbl *schema.Table, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	name := shared.ExportedName(tbl.Name_)

	var b strings.Builder
	var errs []*shared.LoweringError

	versionField := findVersionField(tbl.Fields)

	b.WriteString(shared.DocComment("", tbl.Docs_))
	fmt.Fprintf(&b, "type %s struct {\n\tdata    []byte\n\tselfLen int\n\n", name)

	for i := range tbl.Fields {
		f := &tbl.Fields[i]
		storeType, fErrs := tableShapeFieldType(f, r)
		errs = append(errs, fErrs...)

		switch {
		case isArrayLike(f.Type.Kind):
			fmt.Fprintf(&b, "\t%sStart int\n\t%sCount int\n", shared.UnexportedName(f.Name), shared.UnexportedName(f.Name))
		default:
			fmt.Fprintf(&b, "\t%s %s\n", shared.UnexportedName(f.Name), storeType)
		}
	}

	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "// New%s constructs a %s reader over data, bounds-checking every\n// fixed-position field as it walks the table once.\n", name, name)
	fmt.Fprintf(&b, "func New%s(data []byte, args ...uint64) (*%s, error) {\n", name, name)
	fmt.Fprintf(&b, "\t_ = args\n\tt := &%s{data: data}\n\tc := otfrt.NewCursor(data)\n\tvar err error\n\n", name)

	for i := range tbl.Fields {
		f := &tbl.Fields[i]
		errs = append(errs, emitTableFieldRead(&b, name, f, versionField, r)...)
	}

	b.WriteString("\n\tt.selfLen = c.Position()\n\n\treturn t, nil\n}\n\n")

	fmt.Fprintf(&b, "// SelfByteLen returns the number of bytes New%s consumed for this\n// table's own fields, used to locate the next element of an enclosing\n// computed array.\n", name)
	fmt.Fprintf(&b, "func (t *%s) SelfByteLen() int { return t.selfLen }\n\n", name)

	for i := range tbl.Fields {
		f := &tbl.Fields[i]
		errs = append(errs, emitTableAccessor(&b, name, f, r, versionField)...)
	}

	return b.String(), errs
}

func isArrayLike(k schema.Kind) bool { return k == schema.KindArray || k == schema.KindComputedArray }

func tableShapeFieldType(f *schema.Field, r *analyzer.Resolved) (string, []*shared.LoweringError) {
	switch f.Type.Kind {
	case schema.KindScalar:
		return shared.GoScalarType(f.Type.Scalar), nil
	case schema.KindOffset:
		return shared.OffsetGoType(f.Type.OffsetWidth), nil
	case schema.KindOther:
		return shared.ExportedName(f.Type.Other), nil
	default:
		return "", nil
	}
}

// findVersionField applies the convention a version-gated field's predicate
// is checked against: the table's own leading "version" or "majorVersion"
// field, the only shape every sample schema's #[available(...)] gate uses.
func findVersionField(fields []schema.Field) string {
	for i := range fields {
		n := strings.ToLower(strings.ReplaceAll(fields[i].Name, "_", ""))
		if n == "version" || n == "majorversion" {
			return fields[i].Name
		}
	}

	return ""
}

func emitTableFieldRead(b *strings.Builder, itemName string, f *schema.Field, versionField string, r *analyzer.Resolved) []*shared.LoweringError {
	if f.Attrs.Available != nil {
		if versionField == "" {
			return []*shared.LoweringError{{Item: itemName, Msg: "field '" + f.Name + "' is #[available(...)] gated but the table has no leading version field"}}
		}

		fmt.Fprintf(b, "\tif uint64(t.%s) >= %d {\n", shared.UnexportedName(versionField), f.Attrs.Available.Min)

		errs := emitTableFieldReadBody(b, itemName, f, "\t\t", r)

		b.WriteString("\t}\n")

		return errs
	}

	return emitTableFieldReadBody(b, itemName, f, "\t", r)
}

func emitTableFieldReadBody(b *strings.Builder, itemName string, f *schema.Field, indent string, r *analyzer.Resolved) []*shared.LoweringError {
	exported := shared.UnexportedName(f.Name)

	switch f.Type.Kind {
	case schema.KindScalar:
		fmt.Fprintf(b, "%sif t.%s, err = c.%s(); err != nil {\n%s\treturn nil, err\n%s}\n", indent, exported, shared.CursorReadMethod(f.Type.Scalar), indent, indent)
		return nil
	case schema.KindOffset:
		method := shared.OffsetReadMethod(f.Type.OffsetWidth)
		goType := shared.OffsetGoType(f.Type.OffsetWidth)
		fmt.Fprintf(b, "%s{\n%s\traw, rerr := c.%s()\n%s\tif rerr != nil {\n%s\t\treturn nil, rerr\n%s\t}\n%s\tt.%s = %s(raw)\n%s}\n",
			indent, indent, method, indent, indent, indent, indent, exported, goType, indent)
		return nil
	case schema.KindOther:
		emitOtherFieldRead(b, f.Type.Other, "t."+exported, "c", indent, "nil", r)
		return nil
	case schema.KindArray, schema.KindComputedArray:
		return emitTableArrayRead(b, itemName, f, indent, r)
	default:
		return []*shared.LoweringError{{Item: itemName, Msg: "field '" + f.Name + "': unsupported field kind"}}
	}
}

// emitOtherFieldRead reads a field whose type names another item. A RawEnum
// or Flags target is a scalar newtype with no read<Name> function of its
// own, so its backing scalar is read and cast directly instead; anything
// else (Record, Table) is read through its generated read<Name>/New<Name>.
// zeroVal is the value returned alongside the error on a failed read (a bare
// "nil" in a Table's *T-returning constructor, "v" in a Record's reader).
func emitOtherFieldRead(b *strings.Builder, target, dst, cursor, indent, zeroVal string, r *analyzer.Resolved) {
	if backing, ok := shared.AliasBacking(target, r); ok {
		method := shared.CursorReadMethod(backing)
		name := shared.ExportedName(target)
		fmt.Fprintf(b, "%s{\n%s\traw, rerr := %s.%s()\n%s\tif rerr != nil {\n%s\t\treturn %s, rerr\n%s\t}\n%s\t%s = %s(raw)\n%s}\n",
			indent, indent, cursor, method, indent, indent, zeroVal, indent, indent, dst, name, indent)
		return
	}

	readFn := "read" + shared.ExportedName(target)
	fmt.Fprintf(b, "%sif %s, err = %s(%s); err != nil {\n%s\treturn %s, err\n%s}\n", indent, dst, readFn, cursor, indent, zeroVal, indent)
}

func emitTableArrayRead(b *strings.Builder, itemName string, f *schema.Field, indent string, r *analyzer.Resolved) []*shared.LoweringError {
	exported := shared.UnexportedName(f.Name)

	if f.Type.Kind == schema.KindComputedArray {
		if f.Type.Inner == nil || f.Type.Inner.Kind != schema.KindOther {
			return []*shared.LoweringError{{Item: itemName, Msg: "field '" + f.Name + "': computed array element must be a table type"}}
		}

		countExpr, errs := tableCountGoExpr(f)
		if len(errs) > 0 {
			return errs
		}

		elem := shared.ExportedName(f.Type.Inner.Other)
		args := argVals(f)

		fmt.Fprintf(b, "%st.%sStart = c.Position()\n", indent, exported)
		fmt.Fprintf(b, "%st.%sCount = %s\n", indent, exported, countExpr)
		fmt.Fprintf(b, "%sfor i := 0; i < t.%sCount; i++ {\n", indent, exported)
		fmt.Fprintf(b, "%s\tv, eerr := New%s(data[c.Position():]%s)\n%s\tif eerr != nil {\n%s\t\treturn nil, eerr\n%s\t}\n", indent, elem, args, indent, indent, indent)
		fmt.Fprintf(b, "%s\tif err = c.Advance(v.SelfByteLen()); err != nil {\n%s\t\treturn nil, err\n%s\t}\n%s}\n", indent, indent, indent, indent)

		return nil
	}

	elemWidth, ok := shared.FixedByteWidth(*f.Type.Inner, r)
	if !ok {
		return []*shared.LoweringError{{Item: itemName, Msg: "field '" + f.Name + "': array element type has no statically known byte width"}}
	}

	if f.Attrs.Count != nil && f.Attrs.Count.Kind == schema.CountEllipsis {
		// count(..): the field consumes however many whole elements remain in
		// the table's data. Nothing checks that it is the last field; any
		// field declared after it is read from the bytes left over.
		fmt.Fprintf(b, "%st.%sStart = c.Position()\n", indent, exported)
		fmt.Fprintf(b, "%st.%sCount = c.Remaining() / %d\n", indent, exported, elemWidth)
		fmt.Fprintf(b, "%sif err = c.Advance(t.%sCount * %d); err != nil {\n%s\treturn nil, err\n%s}\n", indent, exported, elemWidth, indent, indent)

		return nil
	}

	countExpr, errs := tableCountGoExpr(f)
	if len(errs) > 0 {
		return errs
	}

	fmt.Fprintf(b, "%st.%sStart = c.Position()\n", indent, exported)
	fmt.Fprintf(b, "%st.%sCount = %s\n", indent, exported, countExpr)
	fmt.Fprintf(b, "%sif err = c.Advance(t.%sCount * %d); err != nil {\n%s\treturn nil, err\n%s}\n", indent, exported, elemWidth, indent, indent)

	return nil
}

func tableCountGoExpr(f *schema.Field) (string, []*shared.LoweringError) {
	if f.Attrs.Count == nil {
		return "", []*shared.LoweringError{{Item: f.Name, Msg: "array field has no #[count(...)] attribute"}}
	}

	switch f.Attrs.Count.Kind {
	case schema.CountLiteral:
		return fmt.Sprintf("%d", f.Attrs.Count.Literal), nil
	case schema.CountField:
		return "int(t." + shared.UnexportedName(f.Attrs.Count.Field) + ")", nil
	case schema.CountExpr:
		return tableExprToGo(f.Attrs.Count.Expr), nil
	default:
		return "", []*shared.LoweringError{{Item: f.Name, Msg: "field '" + f.Name + "': #[count(..)] is only valid on a fixed-width array, whose per-element width bounds how many whole elements remain"}}
	}
}

func tableExprToGo(e *schema.Expr) string {
	if e.IsLeaf() {
		if e.IsLiteral {
			return fmt.Sprintf("%d", e.Literal)
		}

		return "int(t." + shared.UnexportedName(e.Ident) + ")"
	}

	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = tableExprToGo(a)
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

func argVals(f *schema.Field) string {
	if len(f.Attrs.ReadWithArgs) == 0 {
		return ""
	}

	parts := make([]string, len(f.Attrs.ReadWithArgs))
	for i, a := range f.Attrs.ReadWithArgs {
		parts[i] = "uint64(t." + shared.UnexportedName(a) + ")"
	}

	return ", " + strings.Join(parts, ", ")
}

func emitTableAccessor(b *strings.Builder, itemName string, f *schema.Field, r *analyzer.Resolved, versionField string) []*shared.LoweringError {
	if f.Attrs.SkipGetter {
		return nil
	}

	exported := shared.ExportedName(f.Name)
	private := shared.UnexportedName(f.Name)
	recv := "t"

	switch f.Type.Kind {
	case schema.KindScalar:
		goType := shared.GoScalarType(f.Type.Scalar)
		if f.Attrs.Available != nil {
			emitAvailableAccessor(b, itemName, recv, exported, private, goType, versionField, f.Attrs.Available.Min)
			return nil
		}

		fmt.Fprintf(b, "func (%s *%s) %s() %s { return %s.%s }\n\n", recv, itemName, exported, goType, recv, private)
		return nil
	case schema.KindOffset:
		return emitOffsetAccessor(b, itemName, f, recv, exported, private, r, versionField)
	case schema.KindOther:
		fmt.Fprintf(b, "func (%s *%s) %s() %s { return %s.%s }\n\n", recv, itemName, exported, shared.ExportedName(f.Type.Other), recv, private)
		return nil
	case schema.KindArray:
		return emitArrayAccessor(b, itemName, f, recv, exported, private, r)
	case schema.KindComputedArray:
		return emitComputedArrayAccessor(b, itemName, f, recv, exported, private)
	default:
		return nil
	}
}

// emitAvailableAccessor emits the getter for a scalar or untargeted-offset
// field gated by #[available(min)]: it stacks a present/absent outcome atop
// the version predicate NewXxx already read-gates, rather than exposing the
// field's Go zero value as if it had actually been read off the wire.
func emitAvailableAccessor(b *strings.Builder, itemName, recv, exported, private, goType, versionField string, min uint64) {
	fmt.Fprintf(b, "func (%s *%s) %s() (%s, bool) {\n", recv, itemName, exported, goType)
	fmt.Fprintf(b, "\tif uint64(%s.%s) < %d {\n\t\tvar zero %s\n\t\treturn zero, false\n\t}\n", recv, shared.UnexportedName(versionField), min, goType)
	fmt.Fprintf(b, "\treturn %s.%s, true\n}\n\n", recv, private)
}

// emitOffsetAccessor emits the getter that resolves an Offset field's target
// bytes and constructs the pointee, dispatching on the target item's own
// kind: a Format union is read by value through its Read<Name> function
// (it carries no args and returns an interface, not a pointer), everything
// else is constructed through its New<Name>: New<Name>(data, args...) for a
// Table, New<Name>(data) for a GenericGroup.
// A field gated by #[available(min)] stacks a present/absent outcome atop
// the version predicate, the same shape nullable offsets already use.
func emitOffsetAccessor(b *strings.Builder, itemName string, f *schema.Field, recv, exported, private string, r *analyzer.Resolved, versionField string) []*shared.LoweringError {
	if f.Type.Target == "" {
		goType := shared.OffsetGoType(f.Type.OffsetWidth)
		if f.Attrs.Available != nil {
			emitAvailableAccessor(b, itemName, recv, exported, private, goType, versionField, f.Attrs.Available.Min)
			return nil
		}

		fmt.Fprintf(b, "func (%s *%s) %s() %s { return %s.%s }\n\n", recv, itemName, exported, goType, recv, private)
		return nil
	}

	target := shared.ExportedName(f.Type.Target)
	_, isFormat := r.Lookup(f.Type.Target).(*schema.Format)

	var construct, returnType string

	switch {
	case isFormat:
		construct = fmt.Sprintf("Read%s(data)", target)
		returnType = target
	default:
		construct = fmt.Sprintf("New%s(data%s)", target, argVals(f))
		returnType = "*" + target
	}

	var guard string
	if f.Attrs.Available != nil {
		guard = fmt.Sprintf("\tif uint64(%s.%s) < %d {\n\t\tvar zero %s\n\t\treturn zero, false, nil\n\t}\n", recv, shared.UnexportedName(versionField), f.Attrs.Available.Min, returnType)
	}

	if f.Attrs.Nullable {
		fmt.Fprintf(b, "func (%s *%s) %s() (%s, bool, error) {\n", recv, itemName, exported, returnType)
		b.WriteString(guard)
		fmt.Fprintf(b, "\tdata, ok, err := %s.%s.ResolveNullable(%s.data)\n\tif err != nil || !ok {\n\t\tvar zero %s\n\t\treturn zero, ok, err\n\t}\n", recv, private, recv, returnType)
		fmt.Fprintf(b, "\tv, err := %s\n\treturn v, true, err\n}\n\n", construct)
		return nil
	}

	if f.Attrs.Available != nil {
		fmt.Fprintf(b, "func (%s *%s) %s() (%s, bool, error) {\n", recv, itemName, exported, returnType)
		b.WriteString(guard)
		fmt.Fprintf(b, "\tdata, err := %s.%s.Resolve(%s.data)\n\tif err != nil {\n\t\tvar zero %s\n\t\treturn zero, false, err\n\t}\n", recv, private, recv, returnType)
		fmt.Fprintf(b, "\tv, err := %s\n\treturn v, true, err\n}\n\n", construct)
		return nil
	}

	fmt.Fprintf(b, "func (%s *%s) %s() (%s, error) {\n", recv, itemName, exported, returnType)
	fmt.Fprintf(b, "\tdata, err := %s.%s.Resolve(%s.data)\n\tif err != nil {\n\t\tvar zero %s\n\t\treturn zero, err\n\t}\n", recv, private, recv, returnType)
	fmt.Fprintf(b, "\treturn %s\n}\n\n", construct)

	return nil
}

func emitArrayAccessor(b *strings.Builder, itemName string, f *schema.Field, recv, exported, private string, r *analyzer.Resolved) []*shared.LoweringError {
	switch f.Type.Inner.Kind {
	case schema.KindScalar:
		goType := shared.GoScalarType(f.Type.Inner.Scalar)
		fmt.Fprintf(b, "func (%s *%s) %s() ([]%s, error) {\n", recv, itemName, exported, goType)
		fmt.Fprintf(b, "\tc := otfrt.NewCursor(%s.data[%s.%sStart:])\n\tout := make([]%s, %s.%sCount)\n\tfor i := range out {\n\t\tvar err error\n\t\tif out[i], err = c.%s(); err != nil {\n\t\t\treturn nil, err\n\t\t}\n\t}\n\treturn out, nil\n}\n\n",
			recv, recv, private, goType, recv, private, shared.CursorReadMethod(f.Type.Inner.Scalar))
		return nil
	case schema.KindOffset:
		goType := shared.OffsetGoType(f.Type.Inner.OffsetWidth)
		fmt.Fprintf(b, "func (%s *%s) %s() ([]%s, error) {\n", recv, itemName, exported, goType)
		fmt.Fprintf(b, "\tc := otfrt.NewCursor(%s.data[%s.%sStart:])\n\tout := make([]%s, %s.%sCount)\n\tfor i := range out {\n\t\traw, err := c.%s()\n\t\tif err != nil {\n\t\t\treturn nil, err\n\t\t}\n\t\tout[i] = %s(raw)\n\t}\n\treturn out, nil\n}\n\n",
			recv, recv, private, goType, recv, private, shared.OffsetReadMethod(f.Type.Inner.OffsetWidth), goType)
		return nil
	case schema.KindOther:
		goType := shared.ExportedName(f.Type.Inner.Other)
		fmt.Fprintf(b, "func (%s *%s) %s() ([]%s, error) {\n", recv, itemName, exported, goType)
		fmt.Fprintf(b, "\tc := otfrt.NewCursor(%s.data[%s.%sStart:])\n\tout := make([]%s, %s.%sCount)\n\tfor i := range out {\n",
			recv, recv, private, goType, recv, private)

		if backing, ok := shared.AliasBacking(f.Type.Inner.Other, r); ok {
			fmt.Fprintf(b, "\t\traw, err := c.%s()\n\t\tif err != nil {\n\t\t\treturn nil, err\n\t\t}\n\t\tout[i] = %s(raw)\n",
				shared.CursorReadMethod(backing), goType)
		} else {
			fmt.Fprintf(b, "\t\tvar err error\n\t\tif out[i], err = read%s(c); err != nil {\n\t\t\treturn nil, err\n\t\t}\n", goType)
		}

		b.WriteString("\t}\n\treturn out, nil\n}\n\n")
		return nil
	default:
		return []*shared.LoweringError{{Item: itemName, Msg: "field '" + f.Name + "': unsupported array element kind"}}
	}
}

// emitComputedArrayAccessor emits a lazy view over a variable-per-element
// array: each element is constructed
// fresh from the stored byte span and asked its own SelfByteLen to locate
// the next one, rather than the table precomputing every offset up front.
func emitComputedArrayAccessor(b *strings.Builder, itemName string, f *schema.Field, recv, exported, private string) []*shared.LoweringError {
	if f.Type.Inner.Kind != schema.KindOther {
		return []*shared.LoweringError{{Item: itemName, Msg: "field '" + f.Name + "': computed array element must be a table type"}}
	}

	elem := shared.ExportedName(f.Type.Inner.Other)
	args := argVals(f)

	fmt.Fprintf(b, "// %s returns the decoded elements of the %s computed array, each\n// constructed fresh from the stored byte span since successive elements'\n// offsets depend on each other's variable width.\n", exported, f.Name)
	fmt.Fprintf(b, "func (%s *%s) %s() ([]*%s, error) {\n", recv, itemName, exported, elem)
	fmt.Fprintf(b, "\tout := make([]*%s, 0, %s.%sCount)\n\toffset := %s.%sStart\n\n", elem, recv, private, recv, private)
	fmt.Fprintf(b, "\tfor i := 0; i < %s.%sCount; i++ {\n", recv, private)
	fmt.Fprintf(b, "\t\tv, err := New%s(%s.data[offset:]%s)\n\t\tif err != nil {\n\t\t\treturn nil, err\n\t\t}\n", elem, recv, args)
	fmt.Fprintf(b, "\t\tout = append(out, v)\n\t\toffset += v.SelfByteLen()\n\t}\n\n")
	fmt.Fprintf(b, "\treturn out, nil\n}\n\n")

	return nil
}
