package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otfgen/otfgen/pkg/schema"
	"github.com/otfgen/otfgen/pkg/source"
)

func parseDoc(t *testing.T, text string) *schema.Document {
	t.Helper()

	file := source.NewFile("test.schema", []byte(text))
	doc, errs := schema.Parse(file)
	require.Empty(t, errs)
	require.NotNil(t, doc)

	return doc
}

func analyze(t *testing.T, text string) (*Resolved, []*Error) {
	t.Helper()
	return Analyze(parseDoc(t, text))
}

func TestAnalyzeSimpleTableSucceeds(t *testing.T) {
	r, errs := analyze(t, `
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

	require.Empty(t, errs)
	require.NotNil(t, r)

	inner := r.Lookup("Inner")
	require.NotNil(t, inner)
	_, ok := inner.(*schema.Table)
	assert.True(t, ok)
}

func TestAnalyzeReadAtParseTimeFromCount(t *testing.T) {
	r, errs := analyze(t, `
table Outer {
    count: u16,
    #[count($count)]
    items: [u16],
}
`)

	require.Empty(t, errs)

	outer := r.Lookup("Outer").(*schema.Table)
	assert.True(t, outer.Fields[0].ReadAtParseTime, "count field must be marked read-at-parse-time since items references it")
	assert.False(t, outer.Fields[1].ReadAtParseTime)
}

func TestAnalyzeReadAtParseTimeFromAvailable(t *testing.T) {
	r, errs := analyze(t, `
table Versioned {
    version: u16,
    #[available(1)]
    extra: u16,
}
`)

	require.Empty(t, errs)

	tbl := r.Lookup("Versioned").(*schema.Table)
	assert.True(t, tbl.Fields[1].ReadAtParseTime)
}

func TestAnalyzeUnresolvedOffsetTarget(t *testing.T) {
	_, errs := analyze(t, `
table Outer {
    child_offset: Offset16<Ghost>,
}
`)

	require.NotEmpty(t, errs)
	assert.Equal(t, UnresolvedReference, errs[0].Kind)
	assert.Contains(t, errs[0].Error(), "Ghost")
}

func TestAnalyzeUnresolvedArrayInnerTarget(t *testing.T) {
	_, errs := analyze(t, `
table Outer {
    #[count(..)]
    items: [Ghost],
}
`)

	require.NotEmpty(t, errs)
	assert.Equal(t, UnresolvedReference, errs[0].Kind)
}

func TestAnalyzeUnresolvedCountFieldReference(t *testing.T) {
	_, errs := analyze(t, `
table Outer {
    #[count($missing)]
    items: [u16],
}
`)

	require.NotEmpty(t, errs)
	assert.Equal(t, UnresolvedReference, errs[0].Kind)
	assert.Contains(t, errs[0].Error(), "missing")
}

func TestAnalyzeCountSourceMustBeScalar(t *testing.T) {
	_, errs := analyze(t, `
table Outer {
    #[count(..)]
    head: [u8],
    #[count($head)]
    items: [u16],
}
`)

	require.NotEmpty(t, errs)
	assert.Equal(t, TypeMisuse, errs[0].Kind)
	assert.Contains(t, errs[0].Error(), "numeric length source")
}

func TestAnalyzeArrayMissingCountOrLen(t *testing.T) {
	_, errs := analyze(t, `
table Outer {
    items: [u16],
}
`)

	require.NotEmpty(t, errs)
	assert.Equal(t, MissingLength, errs[0].Kind)
}

func TestAnalyzeArrayWithBothCountAndLen(t *testing.T) {
	_, errs := analyze(t, `
table Outer {
    n: u16,
    #[count($n)]
    #[len($n)]
    items: [u16],
}
`)

	require.NotEmpty(t, errs)
	assert.Equal(t, TypeMisuse, errs[0].Kind)
	assert.Contains(t, errs[0].Error(), "cannot have both")
}

func TestAnalyzeFormatVariantWrongLeadingType(t *testing.T) {
	_, errs := analyze(t, `
format u16 Thing {
    Format1(ThingA),
}

table ThingA {
    not_the_format: u32,
}
`)

	require.NotEmpty(t, errs)
	assert.Equal(t, TypeMisuse, errs[0].Kind)
	assert.Contains(t, errs[0].Error(), "#[format = N]")
}

func TestAnalyzeFormatVariantMustBeTable(t *testing.T) {
	_, errs := analyze(t, `
format u16 Thing {
    Format1(NotATable),
}

record NotATable {
    a: u8,
}
`)

	require.NotEmpty(t, errs)
	assert.Equal(t, TypeMisuse, errs[0].Kind)
}

func TestAnalyzeDuplicateDiscriminant(t *testing.T) {
	_, errs := analyze(t, `
format u16 Thing {
    Format1(ThingA),
    Format2(ThingB),
}

table ThingA {
    #[format = 1]
    format: u16,
}

table ThingB {
    #[format = 1]
    format: u16,
}
`)

	require.NotEmpty(t, errs)
	assert.Equal(t, DuplicateDiscriminant, errs[len(errs)-1].Kind)
}

func TestAnalyzeFormatValueFilledIn(t *testing.T) {
	r, errs := analyze(t, `
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

	require.Empty(t, errs)

	f := r.Lookup("Thing").(*schema.Format)
	assert.Equal(t, uint64(1), f.Variants[0].FormatValue)
	assert.Equal(t, uint64(2), f.Variants[1].FormatValue)
}

func TestAnalyzeGroupVariantMustBeTable(t *testing.T) {
	_, errs := analyze(t, `
group Lookup(NotATable) {
    format: u16,
}

record NotATable {
    a: u8,
}
`)

	require.NotEmpty(t, errs)
	assert.Equal(t, TypeMisuse, errs[0].Kind)
}

func TestAnalyzeGroupVariantUnresolved(t *testing.T) {
	_, errs := analyze(t, `
group Lookup(Ghost) {
    format: u16,
}
`)

	require.NotEmpty(t, errs)
	assert.Equal(t, UnresolvedReference, errs[0].Kind)
}

func TestAnalyzeComputedArrayRequiresCount(t *testing.T) {
	_, errs := analyze(t, `
table Outer {
    fmt: u16,
    #[read_with_args(fmt)]
    items: [Inner],
}

table Inner {
    value: u32,
}
`)

	require.NotEmpty(t, errs)
	assert.Equal(t, MissingLength, errs[0].Kind)
	assert.Contains(t, errs[0].Error(), "#[count]")
}

func TestAnalyzeComputedArrayWithCountSucceeds(t *testing.T) {
	r, errs := analyze(t, `
table Outer {
    fmt: u16,
    #[count(..)]
    #[read_with_args(fmt)]
    items: [Inner],
}

table Inner {
    value: u32,
}
`)

	require.Empty(t, errs)

	outer := r.Lookup("Outer").(*schema.Table)
	assert.Equal(t, schema.KindComputedArray, outer.Fields[1].Type.Kind)
}

func TestAnalyzeReadWithArgsForbidsLen(t *testing.T) {
	_, errs := analyze(t, `
table Outer {
    fmt: u16,
    #[len(fmt)]
    #[read_with_args(fmt)]
    child: Offset16<Inner>,
}

table Inner {
    value: u32,
}
`)

	require.NotEmpty(t, errs)
	var found bool
	for _, e := range errs {
		if e.Kind == TypeMisuse {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyzeCountEllipsisWithAvailableRejected(t *testing.T) {
	_, errs := analyze(t, `
table Outer {
    version: u16,
    #[available(1)]
    #[count(..)]
    items: [u8],
}
`)

	require.NotEmpty(t, errs)
	assert.Equal(t, TypeMisuse, errs[0].Kind)
}
