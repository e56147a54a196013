// Package analyzer implements the generator's two-phase semantic analysis
// over a parsed schema.Document: Phase P (post-parse sanity, computed
// per-field bookkeeping) and Phase A (cross-item reference resolution).
// Both passes are folded into one exported Analyze entry point since
// neither phase can usefully run standalone for this schema language.
package analyzer

import (
	"fmt"

	"github.com/otfgen/otfgen/pkg/source"
)

// Kind discriminates the analysis-error taxonomy.
type Kind int

// The analysis-error kinds.
const (
	UnresolvedReference Kind = iota
	TypeMisuse
	MissingLength
	DuplicateDiscriminant
)

func (k Kind) String() string {
	switch k {
	case UnresolvedReference:
		return "unresolved reference"
	case TypeMisuse:
		return "type misuse"
	case MissingLength:
		return "missing length"
	case DuplicateDiscriminant:
		return "duplicate discriminant"
	default:
		return "unknown"
	}
}

// Error is one diagnostic raised during analysis. The Analyzer collects
// every error it can find across the whole item list before returning
//, rather than aborting at the first.
type Error struct {
	Kind  Kind
	Item  string
	Field string
	Span  source.Span
	Msg   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s.%s: %s", e.Kind, e.Item, e.Field, e.Msg)
	}

	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Item, e.Msg)
}
