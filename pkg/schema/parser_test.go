package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otfgen/otfgen/pkg/source"
)

func parse(t *testing.T, text string) *Document {
	t.Helper()

	file := source.NewFile("test.schema", []byte(text))
	doc, errs := Parse(file)
	require.Empty(t, errs)
	require.NotNil(t, doc)

	return doc
}

func TestParsePragma(t *testing.T) {
	doc := parse(t, `#![parse_module(otf::tables::head)]

table Head {
    version: u16,
}
`)

	assert.Equal(t, "otf::tables::head", doc.ParseModulePath)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "Head", doc.Items[0].ItemName())
}

func TestParsePragmaIsOptional(t *testing.T) {
	doc := parse(t, `record Foo { a: u8, }`)

	assert.Empty(t, doc.ParseModulePath)
	require.Len(t, doc.Items, 1)
}

func TestParseRecordFields(t *testing.T) {
	doc := parse(t, `
/// A point.
record Point {
    /// x coordinate.
    x: i16,
    y: i16,
}
`)

	rec, ok := doc.Lookup("Point").(*Record)
	require.True(t, ok)
	assert.Equal(t, []string{"A point."}, rec.Docs_)
	require.Len(t, rec.Fields, 2)
	assert.Equal(t, "x", rec.Fields[0].Name)
	assert.Equal(t, []string{"x coordinate."}, rec.Fields[0].Attrs.Docs)
	assert.Equal(t, KindScalar, rec.Fields[0].Type.Kind)
	assert.Equal(t, I16, rec.Fields[0].Type.Scalar)
}

func TestParseTableWithOffsetAndArray(t *testing.T) {
	doc := parse(t, `
table Outer {
    count: u16,
    #[count($count)]
    items: [u16],
    child_offset: Offset16<Inner>,
}

table Inner {
    value: u32,
}
`)

	tbl, ok := doc.Lookup("Outer").(*Table)
	require.True(t, ok)
	require.Len(t, tbl.Fields, 3)

	items := tbl.Fields[1]
	assert.Equal(t, KindArray, items.Type.Kind)
	require.NotNil(t, items.Attrs.Count)
	assert.Equal(t, CountField, items.Attrs.Count.Kind)
	assert.Equal(t, "count", items.Attrs.Count.Field)

	offset := tbl.Fields[2]
	assert.Equal(t, KindOffset, offset.Type.Kind)
	assert.Equal(t, 16, offset.Type.OffsetWidth)
	assert.Equal(t, "Inner", offset.Type.Target)
}

func TestParseCountEllipsis(t *testing.T) {
	doc := parse(t, `
table Tail {
    #[count(..)]
    rest: [u8],
}
`)

	tbl := doc.Lookup("Tail").(*Table)
	count := tbl.Fields[0].Attrs.Count
	require.NotNil(t, count)
	assert.Equal(t, CountEllipsis, count.Kind)
}

func TestParseCountExpr(t *testing.T) {
	doc := parse(t, `
table Expr1 {
    num_glyphs: u32,
    #[count(add($num_glyphs, 1))]
    pairs: [u16],
}
`)

	tbl := doc.Lookup("Expr1").(*Table)
	count := tbl.Fields[1].Attrs.Count
	require.NotNil(t, count)
	assert.Equal(t, CountExpr, count.Kind)
	assert.Equal(t, "add", count.Expr.Op)
	assert.Equal(t, []string{"num_glyphs"}, count.Expr.Idents())
}

func TestParseFormatUnion(t *testing.T) {
	doc := parse(t, `
format u16 Thing {
    Format1(ThingA),
    Format2(ThingB),
}

table ThingA {
    #[format = 1]
    format: u16,
}

table ThingB {
    #[format = 2]
    format: u16,
}
`)

	f, ok := doc.Lookup("Thing").(*Format)
	require.True(t, ok)
	assert.Equal(t, U16, f.Discriminant)
	require.Len(t, f.Variants, 2)
	assert.Equal(t, "ThingA", f.Variants[0].TableName)
}

func TestParseGroup(t *testing.T) {
	doc := parse(t, `
group Lookup(LookupA, LookupB) {
    format: u16,
}
`)

	g, ok := doc.Lookup("Lookup").(*GenericGroup)
	require.True(t, ok)
	assert.Equal(t, []string{"LookupA", "LookupB"}, g.Variants)
	require.Len(t, g.HeaderFields, 1)
}

func TestParseFlagsAndRawEnum(t *testing.T) {
	doc := parse(t, `
flags u8 Style {
    BOLD = 0x01,
    ITALIC = 0x02,
}

raw_enum u16 Weight {
    THIN = 100,
    BOLD = 700,
}
`)

	flags, ok := doc.Lookup("Style").(*Flags)
	require.True(t, ok)
	require.Len(t, flags.Bits, 2)
	assert.Equal(t, uint64(1), flags.Bits[0].Value)

	enum, ok := doc.Lookup("Weight").(*RawEnum)
	require.True(t, ok)
	require.Len(t, enum.Values, 2)
	assert.Equal(t, uint64(700), enum.Values[1].Value)
}

func TestParseExtern(t *testing.T) {
	doc := parse(t, `
extern {
    GlyphId,
}
`)

	ext, ok := doc.Lookup("GlyphId").(*Extern)
	require.True(t, ok)
	assert.Equal(t, "GlyphId", ext.ItemName())
}

func TestParseAttributes(t *testing.T) {
	doc := parse(t, `
table Versioned {
    version: u16,
    #[available(1)]
    #[nullable]
    extra: Offset16<Versioned>,
}
`)

	tbl := doc.Lookup("Versioned").(*Table)
	extra := tbl.Fields[1]
	require.NotNil(t, extra.Attrs.Available)
	assert.Equal(t, uint64(1), extra.Attrs.Available.Min)
	assert.True(t, extra.Attrs.Nullable)
}

func TestParseUnterminatedBraceReportsSyntaxError(t *testing.T) {
	file := source.NewFile("bad.schema", []byte(`table Broken {
    a: u8,
`))

	_, errs := Parse(file)
	require.NotEmpty(t, errs)
}

func TestParseUnknownTopLevelKeyword(t *testing.T) {
	file := source.NewFile("bad.schema", []byte(`bogus Thing { a: u8, }`))

	_, errs := Parse(file)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "bad.schema:1:")
}
