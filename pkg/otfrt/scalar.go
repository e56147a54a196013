// Package otfrt is the runtime-support library generated code calls into:
// Cursor for bounds-checked sequential reads, scalar wrapper types with no
// native Go equivalent, Offset16/24/32, and Context for structured
// validation. The parse/compile lowerers (pkg/lower/parselower,
// pkg/lower/compilelower) emit code against this API surface.
package otfrt

import "encoding/binary"

// Uint24 is a 24-bit unsigned big-endian scalar, stored in the low three
// bytes of a uint32.
type Uint24 uint32

// Int24 is a 24-bit signed big-endian scalar, sign-extended into an int32.
type Int24 int32

// Tag is a four-byte ASCII table/feature tag (e.g. "OS/2", "head").
type Tag [4]byte

// String renders a Tag as its four-character representation.
func (t Tag) String() string { return string(t[:]) }

// Fixed is a 16.16 signed fixed-point number.
type Fixed int32

// Float64 converts a Fixed to its floating-point value.
func (f Fixed) Float64() float64 { return float64(f) / 65536.0 }

// F2Dot14 is a 2.14 signed fixed-point number.
type F2Dot14 int16

// Float64 converts an F2Dot14 to its floating-point value.
func (f F2Dot14) Float64() float64 { return float64(f) / 16384.0 }

// LongDateTime is a signed count of seconds since 12:00 midnight,
// January 1st 1904 UTC.
type LongDateTime int64

// Version16Dot16 is a packed major.minor version number used by a handful
// of legacy OpenType tables.
type Version16Dot16 uint32

// MajorMinor packs a major and minor uint16 version pair into one 32-bit
// field, e.g. as used by GSUB/GPOS table headers.
type MajorMinor struct {
	Major uint16
	Minor uint16
}

// RawByteLen constants give each scalar type's fixed wire width in bytes.
const (
	RawByteLenU8             = 1
	RawByteLenU16            = 2
	RawByteLenU24            = 3
	RawByteLenU32            = 4
	RawByteLenI8             = 1
	RawByteLenI16            = 2
	RawByteLenI24            = 3
	RawByteLenI32            = 4
	RawByteLenTag            = 4
	RawByteLenFixed          = 4
	RawByteLenF2Dot14        = 2
	RawByteLenLongDateTime   = 8
	RawByteLenVersion16Dot16 = 4
	RawByteLenMajorMinor     = 4
	RawByteLenGlyphID        = 2
)

// The Decode* functions are the zero-copy getters: each reads its value
// directly out of a byte slice without allocating.

func DecodeUint8(b []byte) uint8   { return b[0] }
func DecodeUint16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }
func DecodeUint24(b []byte) Uint24 { return Uint24(uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])) }
func DecodeUint32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }

func DecodeInt8(b []byte) int8   { return int8(b[0]) }
func DecodeInt16(b []byte) int16 { return int16(binary.BigEndian.Uint16(b)) }

func DecodeInt24(b []byte) Int24 {
	u := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	if u&0x800000 != 0 {
		u |= 0xFF000000
	}

	return Int24(int32(u))
}

func DecodeInt32(b []byte) int32 { return int32(binary.BigEndian.Uint32(b)) }

func DecodeTag(b []byte) Tag { return Tag{b[0], b[1], b[2], b[3]} }

func DecodeFixed(b []byte) Fixed                     { return Fixed(DecodeInt32(b)) }
func DecodeF2Dot14(b []byte) F2Dot14                 { return F2Dot14(DecodeInt16(b)) }
func DecodeLongDateTime(b []byte) LongDateTime       { return LongDateTime(int64(DecodeUint32(b[:4]))<<32 | int64(DecodeUint32(b[4:8]))) }
func DecodeVersion16Dot16(b []byte) Version16Dot16   { return Version16Dot16(DecodeUint32(b)) }
func DecodeGlyphID(b []byte) uint16                  { return DecodeUint16(b) }

func DecodeMajorMinor(b []byte) MajorMinor {
	return MajorMinor{Major: DecodeUint16(b[0:2]), Minor: DecodeUint16(b[2:4])}
}

// The Encode* functions are the writers used by the compile module's
// write-out routines. Each appends its big-endian
// representation to dst and returns the extended slice.

func EncodeUint8(dst []byte, v uint8) []byte   { return append(dst, v) }
func EncodeUint16(dst []byte, v uint16) []byte { return binary.BigEndian.AppendUint16(dst, v) }

func EncodeUint24(dst []byte, v Uint24) []byte {
	return append(dst, byte(v>>16), byte(v>>8), byte(v))
}

func EncodeUint32(dst []byte, v uint32) []byte { return binary.BigEndian.AppendUint32(dst, v) }

func EncodeInt8(dst []byte, v int8) []byte   { return EncodeUint8(dst, uint8(v)) }
func EncodeInt16(dst []byte, v int16) []byte { return EncodeUint16(dst, uint16(v)) }
func EncodeInt24(dst []byte, v Int24) []byte { return EncodeUint24(dst, Uint24(uint32(v)&0xFFFFFF)) }
func EncodeInt32(dst []byte, v int32) []byte { return EncodeUint32(dst, uint32(v)) }

func EncodeTag(dst []byte, v Tag) []byte { return append(dst, v[0], v[1], v[2], v[3]) }

func EncodeFixed(dst []byte, v Fixed) []byte               { return EncodeInt32(dst, int32(v)) }
func EncodeF2Dot14(dst []byte, v F2Dot14) []byte           { return EncodeInt16(dst, int16(v)) }
func EncodeVersion16Dot16(dst []byte, v Version16Dot16) []byte { return EncodeUint32(dst, uint32(v)) }
func EncodeGlyphID(dst []byte, v uint16) []byte            { return EncodeUint16(dst, v) }

func EncodeLongDateTime(dst []byte, v LongDateTime) []byte {
	dst = EncodeUint32(dst, uint32(v>>32))
	return EncodeUint32(dst, uint32(v))
}

func EncodeMajorMinor(dst []byte, v MajorMinor) []byte {
	dst = EncodeUint16(dst, v.Major)
	return EncodeUint16(dst, v.Minor)
}
