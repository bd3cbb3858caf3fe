package cstyle

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
}

func writeTestHeader(t *testing.T, fs afero.Fs, path string, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestRunnerReportsWithoutFixing(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestHeader(t, fs, "foo.h",
		"int foo(void);",
	)
	before, err := afero.ReadFile(fs, "foo.h")
	require.NoError(t, err)

	runner, err := NewRunner(testConfig(), discardLogger(), fs)
	require.NoError(t, err)

	result := runner.Run(NewHeaderGuardCheck(testConfig()), []string{"foo.h"})

	assert.Equal(t, 1, result.FilesExamined)
	assert.Equal(t, 0, result.FilesFixed)
	assert.Equal(t, 1, result.FilesFailing)
	assert.False(t, result.Passed())
	assert.Equal(t, 1, result.ExitCode())

	after, err := afero.ReadFile(fs, "foo.h")
	require.NoError(t, err)
	assert.Equal(t, before, after, "check-only mode must not touch the file")
}

func TestRunnerFixesAndStillFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestHeader(t, fs, "foo.h",
		"int foo(void);",
	)

	cfg := testConfig()
	runner, err := NewRunner(cfg, discardLogger(), fs, WithFix(true))
	require.NoError(t, err)

	result := runner.Run(NewHeaderGuardCheck(cfg), []string{"foo.h"})

	assert.Equal(t, 1, result.FilesFixed)
	assert.Equal(t, 0, result.FilesFailing)
	// A rewritten file still fails the run so it gets re-staged.
	assert.False(t, result.Passed())
	assert.Equal(t, 1, result.ExitCode())

	after, err := afero.ReadFile(fs, "foo.h")
	require.NoError(t, err)
	assert.Contains(t, string(after), "#ifndef DEMO_FOO_H_")

	// The rewritten file passes the next run.
	clean := runner.Run(NewHeaderGuardCheck(cfg), []string{"foo.h"})
	assert.True(t, clean.Passed())
	assert.Equal(t, 0, clean.ExitCode())
}

func TestRunnerSkipsInapplicableFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestHeader(t, fs, "foo.c", "int foo(void) { return 0; }")

	cfg := testConfig()
	runner, err := NewRunner(cfg, discardLogger(), fs)
	require.NoError(t, err)

	result := runner.Run(NewHeaderGuardCheck(cfg), []string{"foo.c"})
	assert.Equal(t, 0, result.FilesExamined)
	assert.True(t, result.Passed())
}

func TestRunnerCollectsReadErrors(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfg := testConfig()
	runner, err := NewRunner(cfg, discardLogger(), fs)
	require.NoError(t, err)

	result := runner.Run(NewHeaderGuardCheck(cfg), []string{"missing.h"})
	require.Len(t, result.Errors, 1)
	assert.False(t, result.Passed())
	assert.Equal(t, 1, result.ExitCode())
}

func TestRunnerRunAllMergesChecks(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestHeader(t, fs, "Foo.h",
		"int foo(void);",
	)

	cfg := testConfig()
	runner, err := NewRunner(cfg, discardLogger(), fs)
	require.NoError(t, err)

	result := runner.RunAll(AllChecks(cfg), []string{"Foo.h"})

	checksSeen := make(map[string]bool)
	for _, v := range result.Violations.Violations {
		checksSeen[v.Check] = true
	}

	// The content checks and the path check all contribute violations.
	assert.True(t, checksSeen[CheckNameHeaderGuards])
	assert.True(t, checksSeen[CheckNameFilename])
	assert.False(t, result.Passed())
	assert.Equal(t, 1, result.FilesExamined, "one file examined regardless of how many checks apply")
}

func TestRunnerIncrementalCache(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestHeader(t, fs, "foo.h",
		"#ifndef DEMO_FOO_H_",
		"int foo(void);",
	)

	cfg := testConfig()
	cfg.Incremental = true
	cfg.CacheFile = ".cstyle.cache"

	runner, err := NewRunner(cfg, discardLogger(), fs)
	require.NoError(t, err)

	first := runner.Run(NewHeaderGuardCheck(cfg), []string{"foo.h"})
	require.Len(t, first.Violations.Violations, 1)
	assert.False(t, first.Violations.Violations[0].Cached)

	second := runner.Run(NewHeaderGuardCheck(cfg), []string{"foo.h"})
	require.Len(t, second.Violations.Violations, 1)
	assert.True(t, second.Violations.Violations[0].Cached, "unchanged file should hit the cache")
	assert.Equal(t, first.Violations.Violations[0].Message, second.Violations.Violations[0].Message)

	// Changing the file invalidates the entry.
	writeTestHeader(t, fs, "foo.h",
		"#ifndef DEMO_FOO_H_",
		"#define DEMO_FOO_H_",
		"",
		"int foo(void);",
		"",
		"#endif  // DEMO_FOO_H_",
	)
	third := runner.Run(NewHeaderGuardCheck(cfg), []string{"foo.h"})
	assert.True(t, third.Passed())
}

func TestRunnerFixAfterCachedViolations(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestHeader(t, fs, "foo.h",
		"int foo(void);",
	)

	cfg := testConfig()
	cfg.Incremental = true
	cfg.CacheFile = ".cstyle.cache"

	checkOnly, err := NewRunner(cfg, discardLogger(), fs)
	require.NoError(t, err)

	first := checkOnly.Run(NewHeaderGuardCheck(cfg), []string{"foo.h"})
	require.Len(t, first.Violations.Violations, 1)

	second := checkOnly.Run(NewHeaderGuardCheck(cfg), []string{"foo.h"})
	require.Len(t, second.Violations.Violations, 1)
	require.True(t, second.Violations.Violations[0].Cached)

	// A fix run must rewrite the file even though its violations are cached.
	fixer, err := NewRunner(cfg, discardLogger(), fs, WithFix(true))
	require.NoError(t, err)

	fixed := fixer.Run(NewHeaderGuardCheck(cfg), []string{"foo.h"})
	assert.Equal(t, 1, fixed.FilesFixed)
	require.Len(t, fixed.Violations.Violations, 1)
	assert.True(t, fixed.Violations.Violations[0].Fixed)

	after, err := afero.ReadFile(fs, "foo.h")
	require.NoError(t, err)
	assert.Contains(t, string(after), "#ifndef DEMO_FOO_H_")

	// The rewritten file passes the next fix run.
	clean := fixer.Run(NewHeaderGuardCheck(cfg), []string{"foo.h"})
	assert.True(t, clean.Passed())
}

func TestRunnerCachesCleanOutcomes(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestHeader(t, fs, "foo.h",
		"#ifndef DEMO_FOO_H_",
		"#define DEMO_FOO_H_",
		"",
		"int foo(void);",
		"",
		"#endif  // DEMO_FOO_H_",
	)

	cfg := testConfig()
	cfg.Incremental = true
	cfg.CacheFile = ".cstyle.cache"

	runner, err := NewRunner(cfg, discardLogger(), fs)
	require.NoError(t, err)

	first := runner.Run(NewHeaderGuardCheck(cfg), []string{"foo.h"})
	assert.True(t, first.Passed())

	second := runner.Run(NewHeaderGuardCheck(cfg), []string{"foo.h"})
	assert.True(t, second.Passed())
	assert.Equal(t, 1, second.FilesExamined)
}

func TestCollectSourceFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig()

	writeTestHeader(t, fs, "src/foo.h", "int foo(void);")
	writeTestHeader(t, fs, "src/foo.c", "int foo(void) { return 0; }")
	writeTestHeader(t, fs, "src/notes.md", "notes")
	writeTestHeader(t, fs, ".git/config.h", "hidden")
	writeTestHeader(t, fs, "build/gen.h", "generated")

	files, err := CollectSourceFiles(fs, ".", cfg)
	require.NoError(t, err)

	joined := strings.Join(files, " ")
	assert.Contains(t, joined, "foo.h")
	assert.Contains(t, joined, "foo.c")
	assert.NotContains(t, joined, "notes.md")
	assert.NotContains(t, joined, ".git")
	assert.NotContains(t, joined, "build")
}
