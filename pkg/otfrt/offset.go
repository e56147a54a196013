package otfrt

// Offset16, Offset24, and Offset32 are byte offsets read relative to the
// start of the record or table that declared them. A zero offset is the
// well-known "absent" sentinel used throughout OpenType for optional
// subtables.
type Offset16 uint16
type Offset24 Uint24
type Offset32 uint32

func (o Offset16) IsNull() bool { return o == 0 }
func (o Offset24) IsNull() bool { return o == 0 }
func (o Offset32) IsNull() bool { return o == 0 }

// Resolve returns the byte slice beginning at the offset's target, relative
// to base (the bytes of the record/table the offset was read from). The
// generated accessor wraps the returned slice in the specific reader type
// named by the schema's Offset<Target> annotation.
func (o Offset16) Resolve(base []byte) ([]byte, error) { return resolveOffset(base, int(o)) }
func (o Offset24) Resolve(base []byte) ([]byte, error) { return resolveOffset(base, int(o)) }
func (o Offset32) Resolve(base []byte) ([]byte, error) { return resolveOffset(base, int(o)) }

// ResolveNullable is Resolve, but returns ok=false instead of an error when
// the offset is the null sentinel.
func (o Offset16) ResolveNullable(base []byte) (data []byte, ok bool, err error) {
	return resolveNullable(base, int(o))
}

func (o Offset24) ResolveNullable(base []byte) (data []byte, ok bool, err error) {
	return resolveNullable(base, int(o))
}

func (o Offset32) ResolveNullable(base []byte) (data []byte, ok bool, err error) {
	return resolveNullable(base, int(o))
}

func resolveOffset(base []byte, off int) ([]byte, error) {
	if off < 0 || off > len(base) {
		return nil, &ParseError{Kind: OutOfBounds, Msg: "offset target lies outside the enclosing data"}
	}

	return base[off:], nil
}

func resolveNullable(base []byte, off int) ([]byte, bool, error) {
	if off == 0 {
		return nil, false, nil
	}

	data, err := resolveOffset(base, off)

	return data, true, err
}
