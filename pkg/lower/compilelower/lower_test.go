package compilelower

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

	out, errs := Lower(r, "headcompile", "otf/tables/head", "otfgen", "head.schema")
	require.Empty(t, errs)

	assert.Contains(t, out, "DO NOT EDIT")
	assert.Contains(t, out, "package headcompile\n")
	assert.Contains(t, out, `"github.com/otfgen/otfgen/pkg/otfrt"`)
	assert.Contains(t, out, "type Head struct")
	assert.NotContains(t, out, "parse \"otf/tables/head\"")
}

func TestLowerImportsParseForEnumReexport(t *testing.T) {
	r := resolve(t, `
flags u8 Style {
    BOLD = 0x01,
}

table T {
    style: Style,
}
`)

	out, errs := Lower(r, "tcompile", "otf/tables/t", "otfgen", "t.schema")
	require.Empty(t, errs)

	assert.Contains(t, out, `parse "otf/tables/t"`)
	assert.Contains(t, out, "type Style = parse.Style")
}

// A field whose type names a Flags or RawEnum item is a scalar newtype with no
// ComputeSize/AppendTo/Validate methods of its own; the owned struct must
// encode it directly via its backing scalar instead of delegating to it.
func TestLowerOwnedStructEncodesAliasFieldDirectly(t *testing.T) {
	r := resolve(t, `
flags u8 Style {
    BOLD = 0x01,
}

table T {
    style: Style,
}
`)

	out, errs := Lower(r, "tcompile", "otf/tables/t", "otfgen", "t.schema")
	require.Empty(t, errs)

	assert.Contains(t, out, "n += 1\n")
	assert.Contains(t, out, "dst = otfrt.EncodeUint8(dst, uint8(v.Style))\n")
	assert.NotContains(t, out, "v.Style.ComputeSize()")
	assert.NotContains(t, out, "v.Style.AppendTo(dst)")
	assert.NotContains(t, out, "v.Style.Validate(ctx)")
}

// The same distinction applies to an array of alias-typed elements.
func TestLowerOwnedStructEncodesAliasArrayElementsDirectly(t *testing.T) {
	r := resolve(t, `
flags u8 Style {
    BOLD = 0x01,
}

table T {
    n: u16,
    #[count($n)]
    styles: [Style],
}
`)

	out, errs := Lower(r, "tcompile", "otf/tables/t", "otfgen", "t.schema")
	require.Empty(t, errs)

	assert.Contains(t, out, "dst = otfrt.EncodeUint8(dst, uint8(e))\n")
	assert.NotContains(t, out, "e.AppendTo(dst)")
	assert.NotContains(t, out, "e.Validate(ctx)")
}

// A targeted offset field must write its own offset scalar in AppendTo, not
// just the target's bytes, and the written offset must agree with where
// ComputeSize says the target will land.
func TestLowerOwnedStructWritesOffsetScalarForTargetedOffset(t *testing.T) {
	r := resolve(t, `
table Outer {
    child: Offset16<Inner>,
}

table Inner {
    value: u32,
}
`)

	out, errs := Lower(r, "outercompile", "otf/tables/outer", "otfgen", "outer.schema")
	require.Empty(t, errs)

	assert.Contains(t, out, "base := len(dst)\n")
	assert.Contains(t, out, "off := len(dst) - base + 2\n")
	assert.Contains(t, out, "dst = otfrt.EncodeUint16(dst, uint16(off))\n")
	assert.Contains(t, out, "dst = v.Child.AppendTo(dst)\n")
	assert.Contains(t, out, "n += 2\n")
	assert.Contains(t, out, "n += v.Child.ComputeSize()\n")
}

// CheckArrayLen must be called from inside InField so the reported error's
// path names the offending field, not just its message text.
func TestLowerValidatePushesFieldNameForArrayLenCheck(t *testing.T) {
	r := resolve(t, `
table T {
    count: u8,
    #[count($count)]
    glyph_array: [u16],
}
`)

	out, errs := Lower(r, "tcompile", "otf/tables/t", "otfgen", "t.schema")
	require.Empty(t, errs)

	assert.Contains(t, out, `ctx.InField("glyph_array", func(ctx *otfrt.Context) { ctx.CheckArrayLen("glyph_array", len(v.GlyphArray), 255) })`)
}
