package parselower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitRawEnum(t *testing.T) {
	r := resolve(t, `
raw_enum u16 Weight {
    THIN = 100,
    BOLD = 700,
}
`)

	out, errs := lowerItem(r.Lookup("Weight"), r)
	require.Empty(t, errs)

	assert.Contains(t, out, "type Weight uint16")
	assert.Contains(t, out, "WeightThin Weight = 100")
	assert.Contains(t, out, "WeightBold Weight = 700")
	assert.Contains(t, out, `return "THIN"`)
}

func TestEmitFlagsUsesLiteralMasksNotShifted(t *testing.T) {
	r := resolve(t, `
flags u8 BitmapFlags {
    HORIZONTAL_METRICS = 0x01,
    VERTICAL_METRICS = 0x02,
}
`)

	out, errs := lowerItem(r.Lookup("BitmapFlags"), r)
	require.Empty(t, errs)

	assert.Contains(t, out, "type BitmapFlags uint8")
	assert.Contains(t, out, "BitmapFlagsHorizontalMetrics BitmapFlags = 0x1\n")
	assert.Contains(t, out, "BitmapFlagsVerticalMetrics BitmapFlags = 0x2\n")
	assert.Contains(t, out, "func (v BitmapFlags) Has(mask BitmapFlags) bool { return v&mask == mask }")
}
