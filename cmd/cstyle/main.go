package main

import (
	"github.com/spf13/cobra"

	"github.com/gophersatwork/cstyle"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cstyle",
		Short: "Style checks for C source trees",
		Long: `Cstyle enforces the project's C source conventions: include guards,
extern "C" wrappers, license headers, section banners, and file naming.

Each check is also available as a standalone binary for use as a
pre-commit hook. The combined command runs any subset of them and can
watch a directory for changes.`,
	}

	rootCmd.AddCommand(
		cstyle.NewCheckCommand(
			"check",
			"Run every style check",
			"Runs all style checks over the given files, or over the working directory when no files are given.",
			cstyle.AllChecks,
		),
		cstyle.NewCheckCommand(
			"guards",
			"Verify include guards in header files",
			"Verifies include guards in header files.",
			func(cfg cstyle.Config) []cstyle.Check {
				return []cstyle.Check{cstyle.NewHeaderGuardCheck(cfg)}
			},
		),
		cstyle.NewCheckCommand(
			"extern-c",
			"Verify extern \"C\" wrappers in header files",
			"Verifies conditional extern \"C\" wrappers in header files.",
			func(cfg cstyle.Config) []cstyle.Check {
				return []cstyle.Check{cstyle.NewExternCCheck(cfg)}
			},
		),
		cstyle.NewCheckCommand(
			"legal",
			"Verify license headers",
			"Verifies the license notice at the top of every source and header file.",
			func(cfg cstyle.Config) []cstyle.Check {
				return []cstyle.Check{cstyle.NewLegalCheck(cfg)}
			},
		),
		cstyle.NewCheckCommand(
			"sections",
			"Verify section banner comments",
			"Verifies section banner comments and their order in every source and header file.",
			func(cfg cstyle.Config) []cstyle.Check {
				return []cstyle.Check{cstyle.NewSectionsCheck(cfg)}
			},
		),
		cstyle.NewCheckCommand(
			"filename",
			"Verify file and directory naming conventions",
			"Verifies file and directory names against the project's naming patterns.",
			func(cfg cstyle.Config) []cstyle.Check {
				return []cstyle.Check{cstyle.NewFilenameCheck(cfg)}
			},
		),
		cstyle.NewWatchCommand(),
	)

	cstyle.Execute(rootCmd)
}
