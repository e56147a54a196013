package parselower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitRecordBasic(t *testing.T) {
	r := resolve(t, `
/// A point.
record Point {
    x: i16,
    y: i16,
}
`)

	out, errs := lowerItem(r.Lookup("Point"), r)
	require.Empty(t, errs)

	assert.Contains(t, out, "// A point.")
	assert.Contains(t, out, "type Point struct")
	assert.Contains(t, out, "X int16")
	assert.Contains(t, out, "func readPoint(c *otfrt.Cursor) (Point, error)")
	assert.Contains(t, out, "if v.X, err = c.ReadInt16(); err != nil")
}

func TestEmitRecordWithLiteralCountedArray(t *testing.T) {
	r := resolve(t, `
record Panose {
    #[count(10)]
    bytes: [u8],
}
`)

	out, errs := lowerItem(r.Lookup("Panose"), r)
	require.Empty(t, errs)
	assert.Contains(t, out, "Bytes []uint8")
	assert.Contains(t, out, "v.Bytes = make([]uint8, 10)")
}

func TestEmitRecordWithFieldCountedArray(t *testing.T) {
	r := resolve(t, `
record Pair {
    n: u16,
    #[count($n)]
    values: [u16],
}
`)

	out, errs := lowerItem(r.Lookup("Pair"), r)
	require.Empty(t, errs)
	assert.Contains(t, out, "v.Values = make([]uint16, int(v.N))")
}

func TestEmitRecordWithNestedOtherField(t *testing.T) {
	r := resolve(t, `
record Outer {
    inner: Inner,
}

record Inner {
    a: u8,
}
`)

	out, errs := lowerItem(r.Lookup("Outer"), r)
	require.Empty(t, errs)
	assert.Contains(t, out, "Inner Inner")
	assert.Contains(t, out, "readInner(c)")
}

func TestEmitRecordEllipsisArrayErrors(t *testing.T) {
	r := resolve(t, `
record Bad {
    #[count(..)]
    rest: [u8],
}
`)

	_, errs := lowerItem(r.Lookup("Bad"), r)
	require.NotEmpty(t, errs)
}
