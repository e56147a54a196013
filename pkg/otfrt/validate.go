package otfrt

import (
	"fmt"
	"strings"
)

// CompileError is one structural-validity violation surfaced by the compile
// module's validation routine. Path
// records the field/index chain from the root item, e.g.
// ["glyphOrder", "[3]", "advanceWidth"].
type CompileError struct {
	Path []string
	Msg  string
}

func (e *CompileError) Error() string {
	if len(e.Path) == 0 {
		return e.Msg
	}

	return fmt.Sprintf("%s: %s", strings.Join(e.Path, "."), e.Msg)
}

// Context accumulates CompileErrors while a compile-module value's Validate
// method walks its tree, tracking the field/index path so every reported
// error names exactly where it went wrong.
type Context struct {
	path   []string
	errors []*CompileError
}

// NewContext starts a fresh, empty validation context.
func NewContext() *Context { return &Context{} }

// InField runs fn with name pushed onto the path, then pops it — the
// recursive-descent shape every generated Validate method uses to walk
// into a nested record, array element, or format variant.
func (c *Context) InField(name string, fn func(*Context)) {
	c.path = append(c.path, name)
	fn(c)
	c.path = c.path[:len(c.path)-1]
}

// Report records a validation failure at the context's current path.
func (c *Context) Report(format string, args ...any) {
	path := make([]string, len(c.path))
	copy(path, c.path)

	c.errors = append(c.errors, &CompileError{Path: path, Msg: fmt.Sprintf(format, args...)})
}

// Errors returns every failure reported so far. A nil/empty result means
// the value validated cleanly.
func (c *Context) Errors() []*CompileError { return c.errors }

// CheckArrayLen reports a failure if an array-typed field's length would
// overflow the wire width of its declared length prefix.
func (c *Context) CheckArrayLen(field string, length, maxLen int) {
	if length > maxLen {
		c.Report("%s has %d elements, exceeding the maximum of %d", field, length, maxLen)
	}
}
