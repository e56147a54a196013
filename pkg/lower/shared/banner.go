package shared

import "fmt"

// Banner returns the verbatim do-not-edit notice prepended to every emitted
// artifact: a single line naming the generator and the source file, with no
// copyright holder and no regeneration command — see DESIGN.md for why this
// is hand-rolled rather than calling into github.com/consensys/bavard.
func Banner(generatorName, sourceName string) string {
	return fmt.Sprintf(
		"// Code generated by %s from %s. DO NOT EDIT.\n",
		generatorName, sourceName,
	)
}
