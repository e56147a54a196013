package parselower

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

func TestLowerEmitsBannerAndPackage(t *testing.T) {
	r := resolve(t, `table Head { version: u16, }`)

	out, errs := Lower(r, "head", "otfgen", "head.schema")
	require.Empty(t, errs)

	assert.Contains(t, out, "DO NOT EDIT")
	assert.Contains(t, out, "package head\n")
	assert.Contains(t, out, `"github.com/otfgen/otfgen/pkg/otfrt"`)
	assert.Contains(t, out, "type Head struct")
}

func TestLowerSkipsExtern(t *testing.T) {
	r := resolve(t, `
extern {
    GlyphId,
}

table T {
    g: GlyphId,
}
`)

	out, errs := Lower(r, "t", "otfgen", "t.schema")
	require.Empty(t, errs)
	assert.NotContains(t, out, "type GlyphId struct")
}

func TestLowerRejectsEllipsisCountInRecord(t *testing.T) {
	r := resolve(t, `
record A {
    #[count(..)]
    xs: [u8],
}
`)

	_, errs := Lower(r, "p", "otfgen", "p.schema")
	assert.NotEmpty(t, errs, "record arrays cannot use an ellipsis count, which needs a table's remaining-byte context")
}
