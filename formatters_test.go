package cstyle

import (
	"encoding/json"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() *Result {
	result := NewResult()
	result.FilesExamined = 2
	result.FilesFailing = 1
	result.Violations.Add(Violation{
		File:     "src/foo.h",
		Check:    CheckNameHeaderGuards,
		Line:     1,
		Message:  `missing include guard "DEMO_SRC_FOO_H_"`,
		Fixable:  true,
		Severity: SeverityError,
	})
	result.Violations.Add(Violation{
		File:     "src/Bar.c",
		Check:    CheckNameFilename,
		Message:  `illegal file name "Bar.c"`,
		Severity: SeverityError,
	})
	return result
}

func TestNewFormatter(t *testing.T) {
	tests := map[string]struct {
		format  OutputFormat
		wantErr bool
	}{
		"text":        {format: FormatText},
		"json":        {format: FormatJSON},
		"checkstyle":  {format: FormatCheckstyle},
		"unsupported": {format: "yaml", wantErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			formatter, err := NewFormatter(test.format)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, formatter)
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	cfg := testConfig()
	formatter := &JSONFormatter{}

	out, err := formatter.Format(testResult(), &cfg)
	require.NoError(t, err)

	var decoded JSONOutput
	require.NoError(t, json.Unmarshal(out, &decoded))

	assert.Equal(t, "failed", decoded.Summary.Status)
	assert.Equal(t, 2, decoded.Summary.TotalViolations)
	assert.Equal(t, 2, decoded.Summary.FilesExamined)
	assert.Len(t, decoded.Violations, 2)
	require.Len(t, decoded.Checks, 2)
	// Check summaries are sorted by name.
	assert.Equal(t, CheckNameFilename, decoded.Checks[0].Name)
	assert.Equal(t, CheckNameHeaderGuards, decoded.Checks[1].Name)
}

func TestJSONFormatterCleanRun(t *testing.T) {
	cfg := testConfig()
	formatter := &JSONFormatter{Pretty: true}

	out, err := formatter.Format(NewResult(), &cfg)
	require.NoError(t, err)

	var decoded JSONOutput
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "passed", decoded.Summary.Status)
}

func TestCheckstyleFormatter(t *testing.T) {
	cfg := testConfig()
	formatter := &CheckstyleFormatter{}

	out, err := formatter.Format(testResult(), &cfg)
	require.NoError(t, err)

	var decoded CheckstyleOutput
	require.NoError(t, xml.Unmarshal(out, &decoded))

	require.Len(t, decoded.Files, 2)
	assert.Equal(t, "8.0", decoded.Version)

	for _, file := range decoded.Files {
		require.Len(t, file.Errors, 1)
		assert.Equal(t, "error", file.Errors[0].Severity)
		assert.Contains(t, file.Errors[0].Source, "cstyle.")
	}
}

func TestTextFormatter(t *testing.T) {
	cfg := testConfig()

	t.Run("grouped by file", func(t *testing.T) {
		formatter := &TextFormatter{}
		out, err := formatter.Format(testResult(), &cfg)
		require.NoError(t, err)

		text := string(out)
		assert.Contains(t, text, "src/foo.h")
		assert.Contains(t, text, "missing include guard")
		assert.Contains(t, text, "2 files examined")
		assert.Contains(t, text, "1 failing")
	})

	t.Run("grouped by check", func(t *testing.T) {
		formatter := &TextFormatter{GroupByCheck: true}
		out, err := formatter.Format(testResult(), &cfg)
		require.NoError(t, err)

		assert.Contains(t, string(out), "Check: "+CheckNameHeaderGuards)
	})

	t.Run("clean run", func(t *testing.T) {
		formatter := &TextFormatter{}
		out, err := formatter.Format(NewResult(), &cfg)
		require.NoError(t, err)

		text := string(out)
		assert.Contains(t, text, "No style violations found")
		assert.Contains(t, text, "all clean")
	})
}

func TestEnhancedTextFormatterFallsBackWithoutTTY(t *testing.T) {
	cfg := testConfig()

	formatter := NewTextFormatter()
	formatter.Writer = &noopWriter{}

	out, err := formatter.Format(testResult(), &cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "src/foo.h")
}

func TestEnhancedTextFormatterAlways(t *testing.T) {
	cfg := testConfig()

	formatter := NewTextFormatter()
	formatter.ColorMode = ColorAlways

	out, err := formatter.Format(testResult(), &cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "src/foo.h")
	assert.Contains(t, string(out), "Found 2 style violations")
}

type noopWriter struct{}

func (*noopWriter) Write(p []byte) (int, error) {
	return len(p), nil
}
