package main

import (
	"github.com/gophersatwork/cstyle"
)

func main() {
	cmd := cstyle.NewCheckCommand(
		"check-filename",
		"Verify file and directory naming conventions",
		`Verifies that file and directory names match the project's naming
patterns and that header and source files carry the configured
extensions. Naming violations are never auto-fixed: renaming files is
left to the developer.`,
		func(cfg cstyle.Config) []cstyle.Check {
			return []cstyle.Check{cstyle.NewFilenameCheck(cfg)}
		},
	)
	cstyle.Execute(cmd)
}
