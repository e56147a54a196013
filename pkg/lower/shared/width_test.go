package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otfgen/otfgen/pkg/analyzer"
	"github.com/otfgen/otfgen/pkg/schema"
	"github.com/otfgen/otfgen/pkg/source"
)

func resolve(t *testing.T, text string) *analyzer.Resolved {
	t.Helper()

	file := source.NewFile("test.schema", []byte(text))
	doc, errs := schema.Parse(file)
	require.Empty(t, errs)

	r, aerrs := analyzer.Analyze(doc)
	require.Empty(t, aerrs)

	return r
}

func TestFixedByteWidthScalar(t *testing.T) {
	r := resolve(t, `table T { a: u16, }`)

	w, ok := FixedByteWidth(schema.FieldType{Kind: schema.KindScalar, Scalar: schema.U32}, r)
	assert.True(t, ok)
	assert.Equal(t, 4, w)
}

func TestFixedByteWidthOffset(t *testing.T) {
	r := resolve(t, `table T { a: u16, }`)

	w, ok := FixedByteWidth(schema.FieldType{Kind: schema.KindOffset, OffsetWidth: 24}, r)
	assert.True(t, ok)
	assert.Equal(t, 3, w)
}

func TestFixedByteWidthRecord(t *testing.T) {
	r := resolve(t, `
record Point {
    x: i16,
    y: i16,
}
`)

	w, ok := FixedByteWidth(schema.FieldType{Kind: schema.KindOther, Other: "Point"}, r)
	assert.True(t, ok)
	assert.Equal(t, 4, w)
}

func TestFixedByteWidthOtherTable(t *testing.T) {
	r := resolve(t, `table T { a: u16, }`)

	_, ok := FixedByteWidth(schema.FieldType{Kind: schema.KindOther, Other: "T"}, r)
	assert.False(t, ok, "a table has no statically known width (it may carry variable-width fields)")
}

func TestAliasBackingFlags(t *testing.T) {
	r := resolve(t, `
flags u8 Style {
    BOLD = 0x01,
}

table T { a: u16, }
`)

	backing, ok := AliasBacking("Style", r)
	assert.True(t, ok)
	assert.Equal(t, schema.U8, backing)
}

func TestAliasBackingRawEnum(t *testing.T) {
	r := resolve(t, `
raw_enum u16 Weight {
    THIN = 100,
}

table T { a: u16, }
`)

	backing, ok := AliasBacking("Weight", r)
	assert.True(t, ok)
	assert.Equal(t, schema.U16, backing)
}

func TestAliasBackingRejectsTable(t *testing.T) {
	r := resolve(t, `table T { a: u16, }`)

	_, ok := AliasBacking("T", r)
	assert.False(t, ok)
}

func TestFixedByteWidthAlias(t *testing.T) {
	r := resolve(t, `
flags u8 Style {
    BOLD = 0x01,
}

table T { a: u16, }
`)

	w, ok := FixedByteWidth(schema.FieldType{Kind: schema.KindOther, Other: "Style"}, r)
	assert.True(t, ok)
	assert.Equal(t, 1, w)
}

func TestLiteralArrayByteWidth(t *testing.T) {
	r := resolve(t, `
table T {
    #[count(4)]
    values: [u16],
}
`)

	tbl := r.Lookup("T").(*schema.Table)
	w, ok := LiteralArrayByteWidth(&tbl.Fields[0], r)
	assert.True(t, ok)
	assert.Equal(t, 8, w)
}

func TestLiteralArrayByteWidthNotLiteral(t *testing.T) {
	r := resolve(t, `
table T {
    n: u16,
    #[count($n)]
    values: [u16],
}
`)

	tbl := r.Lookup("T").(*schema.Table)
	_, ok := LiteralArrayByteWidth(&tbl.Fields[1], r)
	assert.False(t, ok)
}
