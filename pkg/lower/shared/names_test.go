package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportedName(t *testing.T) {
	cases := map[string]string{
		"units_per_em":   "UnitsPerEm",
		"x_min":          "XMin",
		"glyph_id":       "GlyphID",
		"lowest_rec_ppem": "LowestRecPPEM",
		"ach_vend_id":    "AchVendID",
		"version":        "Version",
	}

	for in, want := range cases {
		assert.Equal(t, want, ExportedName(in), "input %q", in)
	}
}

func TestUnexportedName(t *testing.T) {
	assert.Equal(t, "unitsPerEm", UnexportedName("units_per_em"))
	assert.Equal(t, "xMin", UnexportedName("x_min"))
}

func TestUnexportedNameEscapesKeywords(t *testing.T) {
	assert.Equal(t, "type_", UnexportedName("type"))
	assert.Equal(t, "range_", UnexportedName("range"))
	assert.Equal(t, "map_", UnexportedName("map"))
}

func TestExportedNameSingleWord(t *testing.T) {
	assert.Equal(t, "Count", ExportedName("count"))
}

// Item names carry no underscores and are already written in Go casing;
// ExportedName must leave their internal capitalization alone.
func TestExportedNamePassesThroughPascalCaseItemNames(t *testing.T) {
	assert.Equal(t, "CoverageFormat1", ExportedName("CoverageFormat1"))
	assert.Equal(t, "BitmapSize", ExportedName("BitmapSize"))
	assert.Equal(t, "IndexSubtable4", ExportedName("IndexSubtable4"))
	assert.Equal(t, "GlyphId16", ExportedName("GlyphId16"))
}

func TestExportedNameFoldsScreamingCaseEnumValue(t *testing.T) {
	assert.Equal(t, "HorizontalMetrics", ExportedName("HORIZONTAL_METRICS"))
	assert.Equal(t, "Bold", ExportedName("BOLD"))
}
