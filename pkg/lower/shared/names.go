// Package shared collects the emission utilities both lowerers need:
// identifier casing, Go-source-safe identifiers, doc-comment formatting,
// and the generated-file header banner. Splitting these out keeps them
// separate from the lowering logic in pkg/lower/parselower and
// pkg/lower/compilelower that calls them, rather than duplicating them.
package shared

import (
	"strings"
	"unicode"
)

// goKeywords are the identifiers that cannot be used verbatim as a Go
// field, type, or variable name.
var goKeywords = map[string]bool{
	"break": true, "default": true, "func": true, "interface": true, "select": true,
	"case": true, "defer": true, "go": true, "map": true, "struct": true,
	"chan": true, "else": true, "goto": true, "package": true, "switch": true,
	"const": true, "fallthrough": true, "if": true, "range": true, "type": true,
	"continue": true, "for": true, "import": true, "return": true, "var": true,
}

// ExportedName converts a schema's snake_case field or item name into an
// exported Go identifier, e.g. "units_per_em" -> "UnitsPerEm".
func ExportedName(name string) string {
	return goCase(name, true)
}

// UnexportedName converts a schema name into an unexported Go identifier,
// escaping it with a trailing underscore if it collides with a keyword,
// e.g. "type" -> "type_".
func UnexportedName(name string) string {
	id := goCase(name, false)
	if goKeywords[id] {
		id += "_"
	}

	return id
}

func goCase(name string, exported bool) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' })
	if len(parts) == 0 {
		return name
	}

	var b strings.Builder

	for i, p := range parts {
		if i == 0 && !exported {
			b.WriteString(strings.ToLower(p))
			continue
		}

		b.WriteString(titleCaseWord(p))
	}

	return b.String()
}

// commonInitialisms are rendered all-uppercase, matching the convention
// Go's stdlib and most of the ecosystem use for ID, URL, and similar
// initialisms.
var commonInitialisms = map[string]string{
	"id": "ID", "ppem": "PPEM", "os2": "OS2",
}

// titleCaseWord capitalizes a single underscore-delimited segment. A
// SCREAMING_CASE segment (as used by flags/enum value names) is folded to
// Titlecase; anything else — including a whole PascalCase item name with no
// underscores to split on, like "CoverageFormat1" — is assumed to already
// carry its intended internal casing and is left alone apart from its first
// rune, so ExportedName is idempotent on names the schema already writes in
// Go casing.
func titleCaseWord(w string) string {
	lower := strings.ToLower(w)
	if up, ok := commonInitialisms[lower]; ok {
		return up
	}

	r := []rune(w)
	if len(r) == 0 {
		return w
	}

	if isScreamingCase(w) {
		return string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
	}

	return string(unicode.ToUpper(r[0])) + string(r[1:])
}

// isScreamingCase reports whether w has no lowercase letters and at least
// one uppercase letter, e.g. "HORIZONTAL" or "BOLD".
func isScreamingCase(w string) bool {
	sawUpper := false

	for _, c := range w {
		if unicode.IsLower(c) {
			return false
		}

		if unicode.IsUpper(c) {
			sawUpper = true
		}
	}

	return sawUpper
}
