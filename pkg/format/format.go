// Package format runs the lowerers' emitted Go source through gofmt's own
// formatter, the last stage of the pipeline. Every
// codegen tool in the ecosystem reaches for go/format directly rather than
// shelling out to the gofmt binary; this does the same.
package format

import (
	"fmt"
	"go/format"
)

// Error wraps a go/format failure with the unformatted source that produced
// it, so a caller debugging a lowerer bug can see exactly what was emitted.
type Error struct {
	Source string
	Cause  error
}

func (e *Error) Error() string { return fmt.Sprintf("formatting generated source: %s", e.Cause) }

func (e *Error) Unwrap() error { return e.Cause }

// Source gofmt-formats src, the final step between a lowerer's raw text and
// the bytes returned to the caller.
func Source(src string) (string, error) {
	out, err := format.Source([]byte(src))
	if err != nil {
		return "", &Error{Source: src, Cause: err}
	}

	return string(out), nil
}
