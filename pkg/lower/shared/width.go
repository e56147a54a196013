package shared

import (
	"github.com/otfgen/otfgen/pkg/analyzer"
	"github.com/otfgen/otfgen/pkg/schema"
)

// FixedByteWidth returns the wire byte width of a field type when it is
// statically known at lowering time, i.e. it does not depend on any value
// only available at read time. Offsets contribute their own wire width (the
// pointer, not the pointee). Arrays of every kind report not fixed here,
// including literal-counted ones (LiteralArrayByteWidth covers those), as
// does a field typed Other as a Table rather than a Record.
func FixedByteWidth(ft schema.FieldType, r *analyzer.Resolved) (int, bool) {
	switch ft.Kind {
	case schema.KindScalar:
		return ft.Scalar.ByteWidth(), true
	case schema.KindOffset:
		return ft.OffsetWidth / 8, true
	case schema.KindOther:
		if backing, ok := AliasBacking(ft.Other, r); ok {
			return backing.ByteWidth(), true
		}

		rec, ok := r.Lookup(ft.Other).(*schema.Record)
		if !ok {
			return 0, false
		}

		return recordByteWidth(rec, r)
	case schema.KindArray:
		if ft.Inner == nil {
			return 0, false
		}

		return 0, false
	default:
		return 0, false
	}
}

// LiteralArrayByteWidth returns the total byte width of an array field whose
// count is a compile-time literal, or ok=false if either the count isn't a
// literal or the element width isn't fixed.
func LiteralArrayByteWidth(f *schema.Field, r *analyzer.Resolved) (width int, ok bool) {
	if f.Type.Kind != schema.KindArray || f.Attrs.Count == nil || f.Attrs.Count.Kind != schema.CountLiteral {
		return 0, false
	}

	elemWidth, ok := FixedByteWidth(*f.Type.Inner, r)
	if !ok {
		return 0, false
	}

	return elemWidth * int(f.Attrs.Count.Literal), true
}

// AliasBacking returns the backing scalar type if name resolves to a RawEnum
// or Flags item — a named scalar newtype with no constructor or struct
// methods of its own, unlike a Record or Table — and ok=false otherwise.
func AliasBacking(name string, r *analyzer.Resolved) (schema.ScalarType, bool) {
	switch v := r.Lookup(name).(type) {
	case *schema.RawEnum:
		return v.Backing, true
	case *schema.Flags:
		return v.Backing, true
	default:
		return "", false
	}
}

func recordByteWidth(rec *schema.Record, r *analyzer.Resolved) (int, bool) {
	total := 0

	for i := range rec.Fields {
		w, ok := FixedByteWidth(rec.Fields[i].Type, r)
		if !ok {
			return 0, false
		}

		total += w
	}

	return total, true
}
