package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/otfgen/otfgen/pkg/schema"
)

func TestGoScalarType(t *testing.T) {
	assert.Equal(t, "uint8", GoScalarType(schema.U8))
	assert.Equal(t, "uint16", GoScalarType(schema.U16))
	assert.Equal(t, "otfrt.Uint24", GoScalarType(schema.U24))
	assert.Equal(t, "otfrt.Tag", GoScalarType(schema.Tag))
	assert.Equal(t, "int16", GoScalarType(schema.FWORD))
	assert.Equal(t, "uint16", GoScalarType(schema.UFWORD))
	assert.Equal(t, "otfrt.Fixed", GoScalarType(schema.Fixed))
	assert.Equal(t, "otfrt.LongDateTime", GoScalarType(schema.LongDateTime))
	assert.Equal(t, "uint16", GoScalarType(schema.GlyphID))
	assert.Equal(t, "uint16", GoScalarType(schema.GlyphID16))
}

func TestCursorReadMethod(t *testing.T) {
	assert.Equal(t, "ReadUint8", CursorReadMethod(schema.U8))
	assert.Equal(t, "ReadInt24", CursorReadMethod(schema.I24))
	assert.Equal(t, "ReadTag", CursorReadMethod(schema.Tag))
	assert.Equal(t, "ReadGlyphID", CursorReadMethod(schema.GlyphID))
}

func TestOffsetGoType(t *testing.T) {
	assert.Equal(t, "otfrt.Offset16", OffsetGoType(16))
	assert.Equal(t, "otfrt.Offset24", OffsetGoType(24))
	assert.Equal(t, "otfrt.Offset32", OffsetGoType(32))
}

func TestOffsetReadMethod(t *testing.T) {
	assert.Equal(t, "ReadUint16", OffsetReadMethod(16))
	assert.Equal(t, "ReadUint24", OffsetReadMethod(24))
	assert.Equal(t, "ReadUint32", OffsetReadMethod(32))
}

func TestEncodeFunc(t *testing.T) {
	assert.Equal(t, "otfrt.EncodeUint8", EncodeFunc(schema.U8))
	assert.Equal(t, "otfrt.EncodeFixed", EncodeFunc(schema.Fixed))
	assert.Equal(t, "otfrt.EncodeGlyphID", EncodeFunc(schema.GlyphID16))
}
