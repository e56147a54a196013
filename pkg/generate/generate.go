// Package generate wires the full pipeline together:
// schema text in, a formatted Go source file out, or the aggregated
// diagnostics from whichever stage first found something wrong.
package generate

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/otfgen/otfgen/pkg/analyzer"
	"github.com/otfgen/otfgen/pkg/format"
	"github.com/otfgen/otfgen/pkg/lower/compilelower"
	"github.com/otfgen/otfgen/pkg/lower/parselower"
	"github.com/otfgen/otfgen/pkg/schema"
	"github.com/otfgen/otfgen/pkg/source"
)

// Mode selects which of the two lowerers Generate runs.
type Mode int

const (
	// Parse selects the zero-copy parse module.
	Parse Mode = iota
	// Compile selects the mutable, write-back-capable compile module.
	Compile
)

// ModeFromString parses a --mode flag value ("parse"/"compile").
func ModeFromString(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "parse":
		return Parse, nil
	case "compile":
		return Compile, nil
	default:
		return 0, fmt.Errorf("unknown mode %q: want \"parse\" or \"compile\"", s)
	}
}

func (m Mode) String() string {
	if m == Compile {
		return "compile"
	}

	return "parse"
}

// Generate runs the full schema -> module pipeline: parse, analyze, lower,
// format. filename is used only to anchor diagnostics to a readable name.
// It aggregates every diagnostic a single stage produces rather than
// stopping at the first, but never runs a later stage once an earlier one
// has failed: each stage's errors are reported together, and no stage runs
// speculatively past a failure in an earlier one.
func Generate(filename, schemaText string, mode Mode) (string, []error) {
	log.WithField("mode", mode).Debug("generate: starting")

	file := source.NewFile(filename, []byte(schemaText))

	doc, syntaxErrs := schema.Parse(file)
	if len(syntaxErrs) > 0 {
		return "", toErrors(syntaxErrs)
	}

	resolved, semErrs := analyzer.Analyze(doc)
	if len(semErrs) > 0 {
		return "", toErrors(semErrs)
	}

	pkgName := packageName(doc.ParseModulePath, mode)

	var (
		src       string
		lowerErrs []error
	)

	switch mode {
	case Parse:
		out, errs := parselower.Lower(resolved, pkgName, "otfgen", filename)
		src, lowerErrs = out, toErrors(errs)
	case Compile:
		out, errs := compilelower.Lower(resolved, pkgName, doc.ParseModulePath, "otfgen", filename)
		src, lowerErrs = out, toErrors(errs)
	}

	if len(lowerErrs) > 0 {
		return "", lowerErrs
	}

	formatted, err := format.Source(src)
	if err != nil {
		return "", []error{err}
	}

	return formatted, nil
}

// packageName derives the emitted package's name from the schema's module
// path pragma: the parse module uses the path's final segment verbatim,
// and the compile module's sibling package is that segment's "compile"
// counterpart.
func packageName(modulePath string, mode Mode) string {
	segments := strings.Split(modulePath, "::")
	base := segments[len(segments)-1]
	if base == "" {
		base = "font"
	}

	if mode == Compile {
		return base + "compile"
	}

	return base
}

func toErrors[E error](in []E) []error {
	if len(in) == 0 {
		return nil
	}

	out := make([]error, len(in))
	for i, e := range in {
		out[i] = e
	}

	return out
}
