package parselower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitFormatInterfaceAndReader(t *testing.T) {
	r := resolve(t, `
format u16 Thing {
    Format1(ThingA),
    Format2(ThingB),
}

table ThingA {
    #[format = 1]
    format: u16,
}

table ThingB {
    #[format = 2]
    format: u16,
}
`)

	out, errs := lowerItem(r.Lookup("Thing"), r)
	require.Empty(t, errs)

	assert.Contains(t, out, "type Thing interface {\n\tisThing()\n}")
	assert.Contains(t, out, "func ReadThing(data []byte) (Thing, error)")
	assert.Contains(t, out, "c.ReadUint16()")
	assert.Contains(t, out, "case 1:\n\t\treturn NewThingA(data)")
	assert.Contains(t, out, "case 2:\n\t\treturn NewThingB(data)")
	assert.Contains(t, out, "func (t *ThingA) isThing() {}")
	assert.Contains(t, out, "func (t *ThingB) isThing() {}")
	assert.Contains(t, out, "InvalidFormat")
}
