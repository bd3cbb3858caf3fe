package cstyle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegalWellFormed(t *testing.T) {
	check := NewLegalCheck(testConfig())

	f := newTestFile("foo.c",
		"/*",
		" * Copyright 2024 demo authors.",
		" */",
		"",
		"int foo(void) { return 0; }",
	)

	assert.Empty(t, check.Run(f, false))
	assert.False(t, f.Modified())
}

func TestLegalMissingNotice(t *testing.T) {
	check := NewLegalCheck(testConfig())

	f := newTestFile("foo.c",
		"int foo(void) { return 0; }",
	)

	violations := check.Run(f, true)
	require.Len(t, violations, 1)
	assert.True(t, violations[0].Fixed)

	want := []string{
		"/*",
		" * Copyright 2024 demo authors.",
		" */",
		"",
		"int foo(void) { return 0; }",
	}
	assert.Equal(t, want, f.Lines)

	assert.Empty(t, check.Run(f, true))
}

func TestLegalWhitespaceDivergence(t *testing.T) {
	t.Run("trailing whitespace is fixed under the default tolerance", func(t *testing.T) {
		check := NewLegalCheck(testConfig())

		f := newTestFile("foo.c",
			"/*",
			" * Copyright 2024 demo authors.   ",
			" */",
			"",
			"int foo(void) { return 0; }",
		)

		violations := check.Run(f, true)
		require.Len(t, violations, 1)
		assert.True(t, violations[0].Fixable)
		assert.True(t, violations[0].Fixed)
		assert.Equal(t, " * Copyright 2024 demo authors.", f.Lines[1])

		assert.Empty(t, check.Run(f, true))
	})

	t.Run("strict tolerance refuses to fix whitespace", func(t *testing.T) {
		cfg := testConfig()
		cfg.Legal.Tolerance = ToleranceStrict
		check := NewLegalCheck(cfg)

		f := newTestFile("foo.c",
			"/*",
			" * Copyright 2024 demo authors.   ",
			" */",
		)
		before := append([]string{}, f.Lines...)

		violations := check.Run(f, true)
		require.Len(t, violations, 1)
		assert.False(t, violations[0].Fixable)
		assert.Equal(t, before, f.Lines)
	})

	t.Run("loose tolerance also fixes interior spacing", func(t *testing.T) {
		cfg := testConfig()
		cfg.Legal.Tolerance = ToleranceLoose
		check := NewLegalCheck(cfg)

		f := newTestFile("foo.c",
			"/*",
			" * Copyright  2024   demo authors.",
			" */",
		)

		violations := check.Run(f, true)
		require.Len(t, violations, 1)
		assert.True(t, violations[0].Fixed)
		assert.Equal(t, " * Copyright 2024 demo authors.", f.Lines[1])
	})
}

func TestLegalTextualDivergence(t *testing.T) {
	check := NewLegalCheck(testConfig())

	f := newTestFile("foo.c",
		"/*",
		" * Copyright 2023 somebody else.",
		" */",
		"",
		"int foo(void) { return 0; }",
	)
	before := append([]string{}, f.Lines...)

	violations := check.Run(f, true)
	require.Len(t, violations, 1)
	assert.False(t, violations[0].Fixable, "a customized notice must not be overwritten")
	assert.Equal(t, before, f.Lines)
}

func TestLegalBuiltinTemplates(t *testing.T) {
	tests := map[string]struct {
		license  string
		wantLine string
	}{
		"gpl3 renders the project name": {
			license:  "gpl3+",
			wantLine: "demo is free software: you can redistribute it and/or modify",
		},
		"unlicense renders the public domain text": {
			license:  "unlicense",
			wantLine: "This is free and unencumbered software released into the public domain.",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Legal.License = test.license
			cfg.Legal.Template = ""
			check := NewLegalCheck(cfg)

			f := newTestFile("foo.c", "int foo(void) { return 0; }")
			violations := check.Run(f, true)
			require.Len(t, violations, 1)
			assert.True(t, violations[0].Fixed)

			content := strings.Join(f.Lines, "\n")
			assert.Contains(t, content, "This file is part of demo.")
			assert.Contains(t, content, test.wantLine)

			// The inserted notice is canonical.
			assert.Empty(t, check.Run(f, true))
		})
	}
}

func TestLegalAppliesToHeadersAndSources(t *testing.T) {
	check := NewLegalCheck(testConfig())

	assert.True(t, check.Applies("foo.c"))
	assert.True(t, check.Applies("foo.h"))
	assert.False(t, check.Applies("Makefile"))
}
