package compilelower

import (
	"fmt"

	"github.com/otfgen/otfgen/pkg/lower/shared"
	"github.com/otfgen/otfgen/pkg/schema"
)

// emitEnumReexport re-exports a RawEnum or Flags type by name from the
// parse module instead of redefining it.
// parseAlias is the local import name the compile module binds the parse
// package to.
func emitEnumReexport(itemName, parseAlias string) string {
	name := shared.ExportedName(itemName)
	return fmt.Sprintf("type %s = %s.%s\n\n", name, parseAlias, name)
}

func reexportName(it schema.Item) (string, bool) {
	switch it.(type) {
	case *schema.RawEnum, *schema.Flags:
		return it.ItemName(), true
	default:
		return "", false
	}
}
