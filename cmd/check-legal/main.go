package main

import (
	"github.com/gophersatwork/cstyle"
)

func main() {
	cmd := cstyle.NewCheckCommand(
		"check-legal",
		"Verify license headers in C source and header files",
		`Verifies that every source and header file opens with the project's
license notice. A missing notice is inserted with --fix; a notice that
matches only up to whitespace is rewritten to the canonical form. Any
other divergence is reported but never rewritten.`,
		func(cfg cstyle.Config) []cstyle.Check {
			return []cstyle.Check{cstyle.NewLegalCheck(cfg)}
		},
	)
	cstyle.Execute(cmd)
}
