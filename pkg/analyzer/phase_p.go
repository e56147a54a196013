package analyzer

import "github.com/otfgen/otfgen/pkg/schema"

// phaseP runs the post-parse sanity invariants against a single item's
// field list, and computes each field's InputFields / ReadAtParseTime by
// mutating the Field values in place.
func phaseP(it schema.Item) []*Error {
	fields := fieldsOf(it)
	if fields == nil {
		return nil
	}

	var errs []*Error

	name := it.ItemName()

	// Promote Array<Other> fields that carry read_with_args into
	// ComputedArray: its element's size is delegated to ComputeSize rather
	// than known up front, but syntactically both start life as "[Inner]".
	for i := range fields {
		f := &fields[i]
		if f.Type.Kind == schema.KindArray && f.Type.Inner != nil &&
			f.Type.Inner.Kind == schema.KindOther && len(f.Attrs.ReadWithArgs) > 0 {
			f.Type.Kind = schema.KindComputedArray
		}
	}

	for i := range fields {
		f := &fields[i]
		errs = append(errs, sanityCheckField(name, f)...)
	}

	// Invariant 5: read_at_parse_time is true iff available-gated, or
	// referenced from another field's length/argument expression.
	referenced := map[string]bool{}

	for i := range fields {
		f := &fields[i]
		f.InputFields = inputFieldsOf(f)

		for _, n := range f.InputFields {
			referenced[n] = true
		}
	}

	for i := range fields {
		f := &fields[i]
		f.ReadAtParseTime = f.Attrs.Available != nil || referenced[f.Name]
	}

	return errs
}

// inputFieldsOf returns the names a field's own attributes reference (from
// count, len, or read_with_args): these are the names OTHER fields will be
// marked read_at_parse_time for.
func inputFieldsOf(f *schema.Field) []string {
	var names []string

	if f.Attrs.Count != nil {
		switch f.Attrs.Count.Kind {
		case schema.CountField:
			names = append(names, f.Attrs.Count.Field)
		case schema.CountExpr:
			names = append(names, f.Attrs.Count.Expr.Idents()...)
		}
	}

	if f.Attrs.Len != nil {
		names = append(names, f.Attrs.Len.Idents()...)
	}

	names = append(names, f.Attrs.ReadWithArgs...)

	return names
}

func sanityCheckField(item string, f *schema.Field) []*Error {
	var errs []*Error

	// Invariant 1: arrays never nest.
	if f.Type.Kind == schema.KindArray && f.Type.Inner != nil {
		if f.Type.Inner.Kind == schema.KindArray || f.Type.Inner.Kind == schema.KindComputedArray {
			errs = append(errs, &Error{
				Kind: TypeMisuse, Item: item, Field: f.Name, Span: f.Span,
				Msg: "nested arrays are not allowed",
			})
		}
	}

	isArrayLike := f.Type.Kind == schema.KindArray || f.Type.Kind == schema.KindComputedArray

	// Invariant 2: an array requires exactly one of {count, len}.
	if isArrayLike {
		switch {
		case f.Attrs.Count == nil && f.Attrs.Len == nil:
			errs = append(errs, &Error{
				Kind: MissingLength, Item: item, Field: f.Name, Span: f.Span,
				Msg: "array field requires #[count] or #[len]",
			})
		case f.Attrs.Count != nil && f.Attrs.Len != nil:
			errs = append(errs, &Error{
				Kind: TypeMisuse, Item: item, Field: f.Name, Span: f.Span,
				Msg: "array field cannot have both #[count] and #[len]",
			})
		}
	}

	// Invariant 3: read_with_args is valid only on Offset, ComputedArray,
	// and Array<Offset>; forbids co-occurrence with len; a ComputedArray
	// with read_with_args must also have count.
	if len(f.Attrs.ReadWithArgs) > 0 {
		if f.Attrs.Len != nil {
			errs = append(errs, &Error{
				Kind: TypeMisuse, Item: item, Field: f.Name, Span: f.Span,
				Msg: "#[read_with_args] cannot co-occur with #[len]",
			})
		}

		switch {
		case f.Type.Kind == schema.KindOffset:
			// always valid
		case f.Type.Kind == schema.KindComputedArray:
			if f.Attrs.Count == nil {
				errs = append(errs, &Error{
					Kind: MissingLength, Item: item, Field: f.Name, Span: f.Span,
					Msg: "computed array with #[read_with_args] is missing #[count]",
				})
			}
		case f.Type.Kind == schema.KindArray && f.Type.Inner != nil && f.Type.Inner.Kind == schema.KindOffset:
			// always valid
		default:
			errs = append(errs, &Error{
				Kind: TypeMisuse, Item: item, Field: f.Name, Span: f.Span,
				Msg: "#[read_with_args] is not valid on this field type",
			})
		}
	}

	// An #[available] gate combined with count(..) is ambiguous (how much of
	// the remaining buffer belongs to a field that may not even be present),
	// so reject the combination outright rather than guess.
	if f.Attrs.Available != nil && f.Attrs.Count != nil && f.Attrs.Count.Kind == schema.CountEllipsis {
		errs = append(errs, &Error{
			Kind: TypeMisuse, Item: item, Field: f.Name, Span: f.Span,
			Msg: "#[count(..)] cannot be combined with #[available(...)]: ambiguous remaining-bytes length under a version gate",
		})
	}

	return errs
}
