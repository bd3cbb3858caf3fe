package main

import (
	"github.com/gophersatwork/cstyle"
)

func main() {
	cmd := cstyle.NewCheckCommand(
		"check-extern-c",
		"Verify extern \"C\" wrappers in C header files",
		`Verifies that every header file wraps its declarations in a
conditional extern "C" block so the header stays usable from C++
translation units. A missing wrapper is inserted with --fix; partial or
misplaced wrappers are reported but never rewritten.`,
		func(cfg cstyle.Config) []cstyle.Check {
			return []cstyle.Check{cstyle.NewExternCCheck(cfg)}
		},
	)
	cstyle.Execute(cmd)
}
