package main

import (
	"github.com/gophersatwork/cstyle"
)

func main() {
	cmd := cstyle.NewCheckCommand(
		"check-file-sections",
		"Verify section banner comments in C source and header files",
		`Verifies that every source and header file carries the expected set
of section banner comments in their canonical order. Missing banners
are inserted and duplicates removed with --fix; banners that appear out
of order are reported but never rewritten.`,
		func(cfg cstyle.Config) []cstyle.Check {
			return []cstyle.Check{cstyle.NewSectionsCheck(cfg)}
		},
	)
	cstyle.Execute(cmd)
}
