// Package schema defines the data model produced by the schema parser: an
// ordered list of top-level items (records, tables, groups, format unions,
// enums, and externs), each carrying typed fields and their attribute
// bundle. The Analyzer (pkg/analyzer) walks this same tree and mutates the
// per-field bookkeeping fields in place; the lowerers (pkg/lower/...) only
// read it.
package schema

import "github.com/otfgen/otfgen/pkg/source"

// ScalarType names one of the fixed-width big-endian primitives a field can
// be built from.
type ScalarType string

// The primitive scalar types recognised by the schema language.
const (
	U8             ScalarType = "u8"
	U16            ScalarType = "u16"
	U24            ScalarType = "u24"
	U32            ScalarType = "u32"
	I8             ScalarType = "i8"
	I16            ScalarType = "i16"
	I24            ScalarType = "i24"
	I32            ScalarType = "i32"
	Tag            ScalarType = "Tag"
	FWORD          ScalarType = "FWORD"
	UFWORD         ScalarType = "UFWORD"
	Fixed          ScalarType = "Fixed"
	F2Dot14        ScalarType = "F2Dot14"
	LongDateTime   ScalarType = "LongDateTime"
	Version16Dot16 ScalarType = "Version16Dot16"
	MajorMinor     ScalarType = "MajorMinor"
	GlyphID        ScalarType = "GlyphId"
	GlyphID16      ScalarType = "GlyphId16"
)

// ByteWidth returns the RAW_BYTE_LEN of a scalar type, i.e. how many bytes it
// occupies in its big-endian wire form.
func (s ScalarType) ByteWidth() int {
	switch s {
	case U8, I8:
		return 1
	case U16, I16, FWORD, UFWORD, F2Dot14, GlyphID, GlyphID16:
		return 2
	case U24, I24:
		return 3
	case U32, I32, Tag, Fixed, Version16Dot16, MajorMinor:
		return 4
	case LongDateTime:
		return 8
	default:
		return 0
	}
}

// IsIntegral reports whether a scalar is a plain, unadorned integer type
// (i.e. suitable as the backing type of an enum/flags set or as a count
// source). Fixed-point and tag types are excluded.
func (s ScalarType) IsIntegral() bool {
	switch s {
	case U8, U16, U24, U32, I8, I16, I24, I32, GlyphID, GlyphID16:
		return true
	default:
		return false
	}
}

// Kind discriminates the five FieldType shapes a field can declare.
type Kind int

// The field-type kinds.
const (
	KindScalar Kind = iota
	KindOffset
	KindOther
	KindArray
	KindComputedArray
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindOffset:
		return "offset"
	case KindOther:
		return "other"
	case KindArray:
		return "array"
	case KindComputedArray:
		return "computed array"
	default:
		return "unknown"
	}
}

// FieldType is a field's type as written in the schema, prior to any
// cross-item resolution (that happens in pkg/analyzer, which validates that
// Target/Other names an actual declared item).
type FieldType struct {
	Kind Kind
	// Scalar holds the scalar type for Kind==KindScalar.
	Scalar ScalarType
	// OffsetWidth holds 16, 24 or 32 for Kind==KindOffset.
	OffsetWidth int
	// Target names the offset's pointee item, if known ("" if untyped).
	Target string
	// Other names the record/table this field is inline-typed as, for
	// Kind==KindOther.
	Other string
	// Inner is the element type, for KindArray and KindComputedArray.
	Inner *FieldType
}

// CountKind discriminates the four ways an array's length can be sourced.
type CountKind int

// The count-source kinds.
const (
	CountLiteral CountKind = iota
	CountField
	CountEllipsis
	CountExpr
)

// Count is the parsed form of a `count(...)` attribute.
type Count struct {
	Kind    CountKind
	Literal uint64
	Field   string
	Expr    *Expr
}

// Expr is the small arithmetic sublanguage usable inside count/len/compile
// attributes: a field reference, an integer literal, or a whitelisted
// function call (add/sub/mul) over further expressions.
type Expr struct {
	// Op is "add", "sub", "mul", or "" for a leaf node.
	Op string
	// Ident is set for a leaf field-reference node.
	Ident string
	// IsLiteral and Literal are set for a leaf literal node.
	IsLiteral bool
	Literal   uint64
	// Args holds the operands of a non-leaf (Op != "") node.
	Args []*Expr
}

// IsLeaf reports whether this expression is a field reference or literal.
func (e *Expr) IsLeaf() bool { return e.Op == "" }

// Idents returns every field name referenced anywhere within the expression,
// in a stable left-to-right order with duplicates removed.
func (e *Expr) Idents() []string {
	var out []string
	seen := map[string]bool{}

	var walk func(*Expr)
	walk = func(n *Expr) {
		if n == nil {
			return
		}

		if n.IsLeaf() {
			if n.Ident != "" && !seen[n.Ident] {
				seen[n.Ident] = true
				out = append(out, n.Ident)
			}

			return
		}

		for _, a := range n.Args {
			walk(a)
		}
	}
	walk(e)

	return out
}

// VersionPredicate gates a field on the enclosing table's version field
// being at least Min. This is the only predicate shape the sample schemas
// ever use; more exotic combinations, e.g. with count(..), are rejected
// rather than guessed at.
type VersionPredicate struct {
	Min uint64
}

// Attributes is the per-field attribute bundle attached to a single field.
type Attributes struct {
	Docs []string
	// Count is set when the field is an array whose length is sourced by
	// #[count(...)].
	Count *Count
	// Len is set when the field carries an explicit #[len(expr)] byte
	// length, and LenFields are the field names that expression mentions
	//.
	Len       *Expr
	LenFields []string
	// ReadWithArgs names preceding fields of the same item whose values are
	// passed to the reader of an Offset's target, of a ComputedArray's
	// elements, or of an Array<Offset>'s element targets.
	ReadWithArgs []string
	// Available gates the field on a version predicate.
	Available *VersionPredicate
	// Nullable marks an Offset field whose zero value means "absent".
	Nullable bool
	// Format is the literal discriminant this field (the variant's leading
	// scalar) must carry.
	Format *uint64
	// Compile replaces the stored value with a computed expression at
	// write time.
	Compile *Expr
	// CompileType overrides the owned representation's field type.
	CompileType *FieldType
	SkipGetter         bool
	SkipOffsetGetter   bool
}

// Field is one member of an item's field list.
type Field struct {
	Name  string
	Type  FieldType
	Attrs Attributes
	Span  source.Span

	// InputFields and ReadAtParseTime are computed by the Analyzer's Phase
	// P by mutating this struct in place; the parser
	// never sets them.
	InputFields     []string
	ReadAtParseTime bool
}

// Item is the common interface implemented by every top-level schema
// declaration.
type Item interface {
	ItemName() string
	ItemDocs() []string
	ItemSpan() source.Span
}

// Record is a fixed-shape inline struct: no offsets to data outside itself.
type Record struct {
	Name_   string
	Docs_   []string
	Fields  []Field
	Span_   source.Span
}

// ItemName implements Item.
func (r *Record) ItemName() string { return r.Name_ }

// ItemDocs implements Item.
func (r *Record) ItemDocs() []string { return r.Docs_ }

// ItemSpan implements Item.
func (r *Record) ItemSpan() source.Span { return r.Span_ }

// Table is a top-level OpenType table with computed byte ranges.
type Table struct {
	Name_  string
	Docs_  []string
	Fields []Field
	Span_  source.Span
}

// ItemName implements Item.
func (t *Table) ItemName() string { return t.Name_ }

// ItemDocs implements Item.
func (t *Table) ItemDocs() []string { return t.Docs_ }

// ItemSpan implements Item.
func (t *Table) ItemSpan() source.Span { return t.Span_ }

// GenericGroup is a parametric container over several tables sharing a
// common header.
type GenericGroup struct {
	Name_        string
	Docs_        []string
	HeaderFields []Field
	Variants     []string
	Span_        source.Span
}

// ItemName implements Item.
func (g *GenericGroup) ItemName() string { return g.Name_ }

// ItemDocs implements Item.
func (g *GenericGroup) ItemDocs() []string { return g.Docs_ }

// ItemSpan implements Item.
func (g *GenericGroup) ItemSpan() source.Span { return g.Span_ }

// FormatVariant is one arm of a Format discriminated union.
type FormatVariant struct {
	Name        string
	TableName   string
	FormatValue uint64
	Span        source.Span
}

// Format is a discriminated union over tables, keyed by a leading format
// scalar.
type Format struct {
	Name_        string
	Docs_        []string
	Discriminant ScalarType
	Variants     []FormatVariant
	Span_        source.Span
}

// ItemName implements Item.
func (f *Format) ItemName() string { return f.Name_ }

// ItemDocs implements Item.
func (f *Format) ItemDocs() []string { return f.Docs_ }

// ItemSpan implements Item.
func (f *Format) ItemSpan() source.Span { return f.Span_ }

// EnumValue is one named constant of a RawEnum or one named bit of a Flags
// set.
type EnumValue struct {
	Name  string
	Value uint64
	Docs  []string
}

// RawEnum is a finite scalar-valued enumeration.
type RawEnum struct {
	Name_   string
	Docs_   []string
	Backing ScalarType
	Values  []EnumValue
	Span_   source.Span
}

// ItemName implements Item.
func (e *RawEnum) ItemName() string { return e.Name_ }

// ItemDocs implements Item.
func (e *RawEnum) ItemDocs() []string { return e.Docs_ }

// ItemSpan implements Item.
func (e *RawEnum) ItemSpan() source.Span { return e.Span_ }

// Flags is a bitflag set.
type Flags struct {
	Name_   string
	Docs_   []string
	Backing ScalarType
	Bits    []EnumValue
	Span_   source.Span
}

// ItemName implements Item.
func (f *Flags) ItemName() string { return f.Name_ }

// ItemDocs implements Item.
func (f *Flags) ItemDocs() []string { return f.Docs_ }

// ItemSpan implements Item.
func (f *Flags) ItemSpan() source.Span { return f.Span_ }

// Extern is a declared-but-not-defined type imported from the runtime
// library.
type Extern struct {
	Name_ string
	Span_ source.Span
}

// ItemName implements Item.
func (e *Extern) ItemName() string { return e.Name_ }

// ItemDocs implements Item.
func (e *Extern) ItemDocs() []string { return nil }

// ItemSpan implements Item.
func (e *Extern) ItemSpan() source.Span { return e.Span_ }

// Document is the schema parser's output: the module-path pragma plus the
// set of top-level items, kept in source order.
type Document struct {
	ParseModulePath string
	Items           []Item
}

// Lookup returns the item with the given name, or nil if none exists.
func (d *Document) Lookup(name string) Item {
	for _, it := range d.Items {
		if it.ItemName() == name {
			return it
		}
	}

	return nil
}

// Fields returns the field list of any item kind that carries one directly
// (Record, Table); GenericGroup's HeaderFields must be accessed separately
// since they are not a full field list for the item as a whole.
func Fields(it Item) []Field {
	switch v := it.(type) {
	case *Record:
		return v.Fields
	case *Table:
		return v.Fields
	default:
		return nil
	}
}
