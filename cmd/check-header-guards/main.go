package main

import (
	"github.com/gophersatwork/cstyle"
)

func main() {
	cmd := cstyle.NewCheckCommand(
		"check-header-guards",
		"Verify include guards in C header files",
		`Verifies that every header file carries a well-formed include guard
derived from its path, and inserts or repairs the guard with --fix.

Headers containing #pragma once pass when pragma_once is allowed in the
configuration. Files with multiple or partial guards are reported but
never rewritten.`,
		func(cfg cstyle.Config) []cstyle.Check {
			return []cstyle.Check{cstyle.NewHeaderGuardCheck(cfg)}
		},
	)
	cstyle.Execute(cmd)
}
