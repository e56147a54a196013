package shared

import "strings"

// DocComment renders a field/item's doc lines, passed through verbatim, as
// a Go `//` comment block, indented by indent. Items with no docs render
// nothing — not every field needs a comment, and otfgen's output
// shouldn't manufacture one where the schema author didn't write one.
func DocComment(indent string, docs []string) string {
	if len(docs) == 0 {
		return ""
	}

	var b strings.Builder

	for _, line := range docs {
		b.WriteString(indent)
		b.WriteString("// ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
