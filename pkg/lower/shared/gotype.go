package shared

import "github.com/otfgen/otfgen/pkg/schema"

// GoScalarType returns the Go type emitted code uses to hold a decoded
// scalar value. Plain byte-for-byte types (u8/u16/u32/i8/i16/i32, the
// FWORD/UFWORD aliases, and glyph IDs) map straight onto Go's native
// integers; the remaining scalar types have no native Go equivalent and
// map onto pkg/otfrt's reference types instead.
func GoScalarType(s schema.ScalarType) string {
	switch s {
	case schema.U8:
		return "uint8"
	case schema.U16:
		return "uint16"
	case schema.U24:
		return "otfrt.Uint24"
	case schema.U32:
		return "uint32"
	case schema.I8:
		return "int8"
	case schema.I16:
		return "int16"
	case schema.I24:
		return "otfrt.Int24"
	case schema.I32:
		return "int32"
	case schema.Tag:
		return "otfrt.Tag"
	case schema.FWORD:
		return "int16"
	case schema.UFWORD:
		return "uint16"
	case schema.Fixed:
		return "otfrt.Fixed"
	case schema.F2Dot14:
		return "otfrt.F2Dot14"
	case schema.LongDateTime:
		return "otfrt.LongDateTime"
	case schema.Version16Dot16:
		return "otfrt.Version16Dot16"
	case schema.MajorMinor:
		return "otfrt.MajorMinor"
	case schema.GlyphID, schema.GlyphID16:
		return "uint16"
	default:
		return "uint32"
	}
}

// CursorReadMethod returns the otfrt.Cursor method name that decodes one
// value of the given scalar type off the wire.
func CursorReadMethod(s schema.ScalarType) string {
	switch s {
	case schema.U8:
		return "ReadUint8"
	case schema.U16:
		return "ReadUint16"
	case schema.U24:
		return "ReadUint24"
	case schema.U32:
		return "ReadUint32"
	case schema.I8:
		return "ReadInt8"
	case schema.I16:
		return "ReadInt16"
	case schema.I24:
		return "ReadInt24"
	case schema.I32:
		return "ReadInt32"
	case schema.Tag:
		return "ReadTag"
	case schema.FWORD:
		return "ReadInt16"
	case schema.UFWORD:
		return "ReadUint16"
	case schema.Fixed:
		return "ReadFixed"
	case schema.F2Dot14:
		return "ReadF2Dot14"
	case schema.LongDateTime:
		return "ReadLongDateTime"
	case schema.Version16Dot16:
		return "ReadVersion16Dot16"
	case schema.MajorMinor:
		return "ReadMajorMinor"
	case schema.GlyphID, schema.GlyphID16:
		return "ReadGlyphID"
	default:
		return "ReadUint32"
	}
}

// OffsetGoType returns the otfrt offset wrapper type for a given wire width
// (16, 24, or 32).
func OffsetGoType(width int) string {
	switch width {
	case 16:
		return "otfrt.Offset16"
	case 24:
		return "otfrt.Offset24"
	default:
		return "otfrt.Offset32"
	}
}

// OffsetReadMethod returns the Cursor method that reads a raw offset of the
// given wire width.
func OffsetReadMethod(width int) string {
	switch width {
	case 16:
		return "ReadUint16"
	case 24:
		return "ReadUint24"
	default:
		return "ReadUint32"
	}
}

// EncodeFunc returns the otfrt Encode* free function name that appends one
// value of the given scalar type to a byte slice (the compile module's
// write-out side).
func EncodeFunc(s schema.ScalarType) string {
	switch s {
	case schema.U8:
		return "otfrt.EncodeUint8"
	case schema.U16:
		return "otfrt.EncodeUint16"
	case schema.U24:
		return "otfrt.EncodeUint24"
	case schema.U32:
		return "otfrt.EncodeUint32"
	case schema.I8:
		return "otfrt.EncodeInt8"
	case schema.I16:
		return "otfrt.EncodeInt16"
	case schema.I24:
		return "otfrt.EncodeInt24"
	case schema.I32:
		return "otfrt.EncodeInt32"
	case schema.Tag:
		return "otfrt.EncodeTag"
	case schema.FWORD:
		return "otfrt.EncodeInt16"
	case schema.UFWORD:
		return "otfrt.EncodeUint16"
	case schema.Fixed:
		return "otfrt.EncodeFixed"
	case schema.F2Dot14:
		return "otfrt.EncodeF2Dot14"
	case schema.LongDateTime:
		return "otfrt.EncodeLongDateTime"
	case schema.Version16Dot16:
		return "otfrt.EncodeVersion16Dot16"
	case schema.MajorMinor:
		return "otfrt.EncodeMajorMinor"
	case schema.GlyphID, schema.GlyphID16:
		return "otfrt.EncodeGlyphID"
	default:
		return "otfrt.EncodeUint32"
	}
}
