package shared

import "fmt"

// LoweringError reports a schema shape the requested lowerer cannot emit
// code for, e.g. an array-of-Other whose element has no statically known
// byte width.
type LoweringError struct {
	Item string
	Msg  string
}

func (e *LoweringError) Error() string { return fmt.Sprintf("%s: %s", e.Item, e.Msg) }
