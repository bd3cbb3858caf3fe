package cstyle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternCWellFormed(t *testing.T) {
	check := NewExternCCheck(testConfig())

	f := newTestFile("foo.h",
		"#ifndef DEMO_FOO_H_",
		"#define DEMO_FOO_H_",
		"",
		"#ifdef __cplusplus",
		`extern "C" {`,
		"#endif",
		"",
		"int foo(void);",
		"",
		"#ifdef __cplusplus",
		"}",
		"#endif",
		"#endif  // DEMO_FOO_H_",
	)

	assert.Empty(t, check.Run(f, false))
	assert.False(t, f.Modified())
}

func TestExternCMissingWithGuard(t *testing.T) {
	check := NewExternCCheck(testConfig())

	f := newTestFile("foo.h",
		"#ifndef DEMO_FOO_H_",
		"#define DEMO_FOO_H_",
		"",
		"int foo(void);",
		"",
		"#endif  // DEMO_FOO_H_",
	)

	violations := check.Run(f, true)
	require.Len(t, violations, 1)
	assert.True(t, violations[0].Fixable)
	assert.True(t, violations[0].Fixed)

	want := []string{
		"#ifndef DEMO_FOO_H_",
		"#define DEMO_FOO_H_",
		"",
		"#ifdef __cplusplus",
		`extern "C" {`,
		"#endif",
		"",
		"int foo(void);",
		"",
		"#ifdef __cplusplus",
		"}",
		"#endif",
		"#endif  // DEMO_FOO_H_",
	}
	assert.Equal(t, want, f.Lines)

	assert.Empty(t, check.Run(f, true))
}

func TestExternCMissingWithoutGuard(t *testing.T) {
	check := NewExternCCheck(testConfig())

	f := newTestFile("foo.h",
		"int foo(void);",
	)

	violations := check.Run(f, true)
	require.Len(t, violations, 1)
	assert.True(t, violations[0].Fixed)

	want := []string{
		"#ifdef __cplusplus",
		`extern "C" {`,
		"#endif",
		"",
		"int foo(void);",
		"#ifdef __cplusplus",
		"}",
		"#endif",
		"",
	}
	assert.Equal(t, want, f.Lines)

	assert.Empty(t, check.Run(f, true))
}

func TestExternCPartialWrapper(t *testing.T) {
	tests := map[string]struct {
		lines []string
	}{
		"opened but never closed": {
			lines: []string{
				"#ifdef __cplusplus",
				`extern "C" {`,
				"#endif",
				"",
				"int foo(void);",
			},
		},
		"closed but never opened": {
			lines: []string{
				"int foo(void);",
				"",
				"#ifdef __cplusplus",
				"}",
				"#endif",
			},
		},
		"closes before it opens": {
			lines: []string{
				"#ifdef __cplusplus",
				"}",
				"#endif",
				"",
				"int foo(void);",
				"",
				"#ifdef __cplusplus",
				`extern "C" {`,
				"#endif",
			},
		},
		"more than one wrapper": {
			lines: []string{
				"#ifdef __cplusplus",
				`extern "C" {`,
				"#endif",
				"#ifdef __cplusplus",
				`extern "C" {`,
				"#endif",
				"#ifdef __cplusplus",
				"}",
				"#endif",
				"#ifdef __cplusplus",
				"}",
				"#endif",
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			check := NewExternCCheck(testConfig())
			f := newTestFile("foo.h", test.lines...)
			before := append([]string{}, f.Lines...)

			violations := check.Run(f, true)

			require.Len(t, violations, 1)
			assert.False(t, violations[0].Fixable)
			assert.False(t, violations[0].Fixed)
			assert.Equal(t, before, f.Lines)
		})
	}
}

func TestExternCMisplacedWrapper(t *testing.T) {
	check := NewExternCCheck(testConfig())

	// Declarations before the wrapper mean moving code to repair it, which
	// the check refuses to do.
	f := newTestFile("foo.h",
		"#ifndef DEMO_FOO_H_",
		"#define DEMO_FOO_H_",
		"",
		"int bar(void);",
		"",
		"#ifdef __cplusplus",
		`extern "C" {`,
		"#endif",
		"",
		"int foo(void);",
		"",
		"#ifdef __cplusplus",
		"}",
		"#endif",
		"#endif  // DEMO_FOO_H_",
	)
	before := append([]string{}, f.Lines...)

	violations := check.Run(f, true)
	require.Len(t, violations, 1)
	assert.False(t, violations[0].Fixable)
	assert.Equal(t, before, f.Lines)
}

func TestExternCAppliesOnlyToHeaders(t *testing.T) {
	check := NewExternCCheck(testConfig())

	assert.True(t, check.Applies("foo.h"))
	assert.False(t, check.Applies("foo.c"))
}
