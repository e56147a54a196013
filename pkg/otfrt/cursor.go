package otfrt

// Cursor is a bounds-checked, non-copying read head over a byte slice. It
// is the parse module's only way to pull scalars out of font data: every
// Read* method returns a *ParseError instead of panicking when the
// remaining bytes are too short.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor wraps data for sequential reading starting at offset 0.
func NewCursor(data []byte) *Cursor { return &Cursor{data: data} }

// Position returns the cursor's current byte offset into data.
func (c *Cursor) Position() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

// Advance moves the cursor forward n bytes without reading them, e.g. to
// skip reserved padding.
func (c *Cursor) Advance(n int) error {
	if c.Remaining() < n {
		return errOutOfBounds(n, c.Remaining())
	}

	c.pos += n

	return nil
}

func (c *Cursor) take(n int) ([]byte, error) {
	if c.Remaining() < n {
		return nil, errOutOfBounds(n, c.Remaining())
	}

	b := c.data[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}

func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.take(RawByteLenU8)
	if err != nil {
		return 0, err
	}

	return DecodeUint8(b), nil
}

func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.take(RawByteLenU16)
	if err != nil {
		return 0, err
	}

	return DecodeUint16(b), nil
}

func (c *Cursor) ReadUint24() (Uint24, error) {
	b, err := c.take(RawByteLenU24)
	if err != nil {
		return 0, err
	}

	return DecodeUint24(b), nil
}

func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.take(RawByteLenU32)
	if err != nil {
		return 0, err
	}

	return DecodeUint32(b), nil
}

func (c *Cursor) ReadInt8() (int8, error) {
	b, err := c.take(RawByteLenI8)
	if err != nil {
		return 0, err
	}

	return DecodeInt8(b), nil
}

func (c *Cursor) ReadInt16() (int16, error) {
	b, err := c.take(RawByteLenI16)
	if err != nil {
		return 0, err
	}

	return DecodeInt16(b), nil
}

func (c *Cursor) ReadInt24() (Int24, error) {
	b, err := c.take(RawByteLenI24)
	if err != nil {
		return 0, err
	}

	return DecodeInt24(b), nil
}

func (c *Cursor) ReadInt32() (int32, error) {
	b, err := c.take(RawByteLenI32)
	if err != nil {
		return 0, err
	}

	return DecodeInt32(b), nil
}

func (c *Cursor) ReadTag() (Tag, error) {
	b, err := c.take(RawByteLenTag)
	if err != nil {
		return Tag{}, err
	}

	return DecodeTag(b), nil
}

func (c *Cursor) ReadFixed() (Fixed, error) {
	b, err := c.take(RawByteLenFixed)
	if err != nil {
		return 0, err
	}

	return DecodeFixed(b), nil
}

func (c *Cursor) ReadF2Dot14() (F2Dot14, error) {
	b, err := c.take(RawByteLenF2Dot14)
	if err != nil {
		return 0, err
	}

	return DecodeF2Dot14(b), nil
}

func (c *Cursor) ReadLongDateTime() (LongDateTime, error) {
	b, err := c.take(RawByteLenLongDateTime)
	if err != nil {
		return 0, err
	}

	return DecodeLongDateTime(b), nil
}

func (c *Cursor) ReadVersion16Dot16() (Version16Dot16, error) {
	b, err := c.take(RawByteLenVersion16Dot16)
	if err != nil {
		return 0, err
	}

	return DecodeVersion16Dot16(b), nil
}

func (c *Cursor) ReadMajorMinor() (MajorMinor, error) {
	b, err := c.take(RawByteLenMajorMinor)
	if err != nil {
		return MajorMinor{}, err
	}

	return DecodeMajorMinor(b), nil
}

func (c *Cursor) ReadGlyphID() (uint16, error) {
	b, err := c.take(RawByteLenGlyphID)
	if err != nil {
		return 0, err
	}

	return DecodeGlyphID(b), nil
}

// ReadBytes returns the next n raw bytes without interpreting them.
func (c *Cursor) ReadBytes(n int) ([]byte, error) { return c.take(n) }
