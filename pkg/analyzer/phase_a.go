package analyzer

import "github.com/otfgen/otfgen/pkg/schema"

// phaseA resolves every cross-item and cross-field reference made by a
// single item: offset/other targets must name a declared item (reported as
// an UnresolvedReference error otherwise), count/len/args names must
// resolve to a *preceding* field in the same item, and Format groups must
// have pairwise-distinct, correctly-typed discriminants.
// Phase A does not reorder items, inline anything, or monomorphize generic
// groups — it only validates and, for Format groups, fills in
// the discriminant literal each variant's leading field actually declares.
func phaseA(it schema.Item, lookup map[string]schema.Item) []*Error {
	switch v := it.(type) {
	case *schema.Record:
		return resolveFields(v.Name_, v.Fields, lookup)
	case *schema.Table:
		return resolveFields(v.Name_, v.Fields, lookup)
	case *schema.GenericGroup:
		errs := resolveFields(v.Name_, v.HeaderFields, lookup)
		for _, variant := range v.Variants {
			target := lookup[variant]
			if target == nil {
				errs = append(errs, &Error{
					Kind: UnresolvedReference, Item: v.Name_, Span: v.Span_,
					Msg: "group variant '" + variant + "' does not name a declared item",
				})
				continue
			}

			if _, ok := target.(*schema.Table); !ok {
				errs = append(errs, &Error{
					Kind: TypeMisuse, Item: v.Name_, Span: v.Span_,
					Msg: "group variant '" + variant + "' must be a table",
				})
			}
		}

		return errs
	case *schema.Format:
		return resolveFormat(v, lookup)
	}

	return nil
}

func resolveFields(item string, fields []schema.Field, lookup map[string]schema.Item) []*Error {
	var errs []*Error

	preceding := map[string]*schema.Field{}

	for i := range fields {
		f := &fields[i]

		switch {
		case f.Type.Kind == schema.KindOffset && f.Type.Target != "":
			if lookup[f.Type.Target] == nil {
				errs = append(errs, &Error{
					Kind: UnresolvedReference, Item: item, Field: f.Name, Span: f.Span,
					Msg: "offset target '" + f.Type.Target + "' does not name a declared item",
				})
			}
		case f.Type.Kind == schema.KindOther:
			if lookup[f.Type.Other] == nil {
				errs = append(errs, &Error{
					Kind: UnresolvedReference, Item: item, Field: f.Name, Span: f.Span,
					Msg: "'" + f.Type.Other + "' does not name a declared item",
				})
			}
		case (f.Type.Kind == schema.KindArray || f.Type.Kind == schema.KindComputedArray) &&
			f.Type.Inner != nil && f.Type.Inner.Kind == schema.KindOther:
			if lookup[f.Type.Inner.Other] == nil {
				errs = append(errs, &Error{
					Kind: UnresolvedReference, Item: item, Field: f.Name, Span: f.Span,
					Msg: "'" + f.Type.Inner.Other + "' does not name a declared item",
				})
			}
		}

		errs = append(errs, resolveLengthNames(item, f, preceding)...)

		preceding[f.Name] = f
	}

	return errs
}

// resolveLengthNames checks invariant 4: every name referenced from count,
// len, or read_with_args resolves to a preceding field (extern arguments of
// the enclosing item are not modeled by this schema language), and that a name used as a numeric source (count field/expr)
// is itself scalar-typed.
func resolveLengthNames(item string, f *schema.Field, preceding map[string]*schema.Field) []*Error {
	var errs []*Error

	checkNumeric := func(name string) {
		prev, ok := preceding[name]
		if !ok {
			errs = append(errs, &Error{
				Kind: UnresolvedReference, Item: item, Field: f.Name, Span: f.Span,
				Msg: "'" + name + "' does not name a preceding field",
			})

			return
		}

		if prev.Type.Kind != schema.KindScalar {
			errs = append(errs, &Error{
				Kind: TypeMisuse, Item: item, Field: f.Name, Span: f.Span,
				Msg: "'" + name + "' is used as a numeric length source but is not scalar-typed",
			})
		}
	}

	checkPresence := func(name string) {
		if _, ok := preceding[name]; !ok {
			errs = append(errs, &Error{
				Kind: UnresolvedReference, Item: item, Field: f.Name, Span: f.Span,
				Msg: "'" + name + "' does not name a preceding field",
			})
		}
	}

	if f.Attrs.Count != nil {
		switch f.Attrs.Count.Kind {
		case schema.CountField:
			checkNumeric(f.Attrs.Count.Field)
		case schema.CountExpr:
			for _, n := range f.Attrs.Count.Expr.Idents() {
				checkNumeric(n)
			}
		}
	}

	for _, n := range f.Attrs.LenFields {
		checkPresence(n)
	}

	for _, n := range f.Attrs.ReadWithArgs {
		checkPresence(n)
	}

	if f.Attrs.Compile != nil {
		for _, n := range f.Attrs.Compile.Idents() {
			checkPresence(n)
		}
	}

	return errs
}

func resolveFormat(f *schema.Format, lookup map[string]schema.Item) []*Error {
	var errs []*Error

	seen := map[uint64]string{}

	for i := range f.Variants {
		variant := &f.Variants[i]

		target := lookup[variant.TableName]
		if target == nil {
			errs = append(errs, &Error{
				Kind: UnresolvedReference, Item: f.Name_, Span: variant.Span,
				Msg: "variant table '" + variant.TableName + "' does not name a declared item",
			})

			continue
		}

		table, ok := target.(*schema.Table)
		if !ok {
			errs = append(errs, &Error{
				Kind: TypeMisuse, Item: f.Name_, Span: variant.Span,
				Msg: "variant '" + variant.TableName + "' must be a table",
			})

			continue
		}

		if len(table.Fields) == 0 {
			errs = append(errs, &Error{
				Kind: TypeMisuse, Item: f.Name_, Span: variant.Span,
				Msg: "variant table '" + variant.TableName + "' has no leading discriminant field",
			})

			continue
		}

		lead := table.Fields[0]

		if lead.Type.Kind != schema.KindScalar || lead.Type.Scalar != f.Discriminant || lead.Attrs.Format == nil {
			errs = append(errs, &Error{
				Kind: TypeMisuse, Item: f.Name_, Span: variant.Span,
				Msg: "variant table '" + variant.TableName + "' must lead with a #[format = N] scalar field of type " + string(f.Discriminant),
			})

			continue
		}

		variant.FormatValue = *lead.Attrs.Format

		if prior, dup := seen[variant.FormatValue]; dup {
			errs = append(errs, &Error{
				Kind: DuplicateDiscriminant, Item: f.Name_, Span: variant.Span,
				Msg: "format literal also used by variant '" + prior + "'",
			})
		} else {
			seen[variant.FormatValue] = variant.TableName
		}
	}

	return errs
}
