package parselower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitGroupHeaderAndVariants(t *testing.T) {
	r := resolve(t, `
group ClassDef(ClassDefFormat1, ClassDefFormat2) {
    class_format: u16,
}

table ClassDefFormat1 {
    #[format = 1]
    class_format: u16,
}

table ClassDefFormat2 {
    #[format = 2]
    class_format: u16,
}
`)

	out, errs := lowerItem(r.Lookup("ClassDef"), r)
	require.Empty(t, errs)

	assert.Contains(t, out, "type ClassDef struct")
	assert.Contains(t, out, "func NewClassDef(data []byte) (*ClassDef, error)")
	assert.Contains(t, out, "func (g *ClassDef) ClassFormat() uint16")
	assert.Contains(t, out, "func (g *ClassDef) AsClassDefFormat1() (*ClassDefFormat1, error) { return NewClassDefFormat1(g.data) }")
	assert.Contains(t, out, "func (g *ClassDef) AsClassDefFormat2() (*ClassDefFormat2, error) { return NewClassDefFormat2(g.data) }")
}

func TestEmitGroupHeaderVersionGated(t *testing.T) {
	r := resolve(t, `
group Lookup(LookupA) {
    version: u16,
    #[available(1)]
    flags: u16,
}

table LookupA {
    #[format = 0]
    a: u16,
}
`)

	out, errs := lowerItem(r.Lookup("Lookup"), r)
	require.Empty(t, errs)
	assert.Contains(t, out, "if uint64(g.version) >= 1 {")
}

func TestEmitGroupHeaderRejectsArrayField(t *testing.T) {
	r := resolve(t, `
group Lookup(LookupA) {
    #[count(1)]
    n: [u16],
}

table LookupA {
    #[format = 0]
    a: u16,
}
`)

	_, errs := lowerItem(r.Lookup("Lookup"), r)
	require.NotEmpty(t, errs)
}
