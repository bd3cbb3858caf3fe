package cstyle

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"time"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	// FormatText outputs human-readable text (default)
	FormatText OutputFormat = "text"
	// FormatJSON outputs machine-readable JSON
	FormatJSON OutputFormat = "json"
	// FormatCheckstyle outputs Checkstyle XML format
	FormatCheckstyle OutputFormat = "checkstyle"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(result *Result, cfg *Config) ([]byte, error)
	ContentType() string
}

// NewFormatter creates a formatter for the requested output format
func NewFormatter(format OutputFormat) (Formatter, error) {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatCheckstyle:
		return &CheckstyleFormatter{}, nil
	case FormatText:
		return &TextFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// JSONFormatter outputs violations in JSON format
type JSONFormatter struct {
	Pretty bool
}

// JSONOutput represents the JSON output structure
type JSONOutput struct {
	Summary    JSONSummary    `json:"summary"`
	Violations []Violation    `json:"violations"`
	Checks     []CheckSummary `json:"checks"`
	Timestamp  string         `json:"timestamp"`
}

type JSONSummary struct {
	TotalViolations int    `json:"total_violations"`
	FilesExamined   int    `json:"files_examined"`
	FilesFixed      int    `json:"files_fixed"`
	FilesFailing    int    `json:"files_failing"`
	Status          string `json:"status"`
}

type CheckSummary struct {
	Name       string `json:"name"`
	Violations int    `json:"violations"`
	Fixed      int    `json:"fixed"`
}

func (f *JSONFormatter) Format(result *Result, cfg *Config) ([]byte, error) {
	output := f.buildJSONOutput(result)

	if f.Pretty {
		return json.MarshalIndent(output, "", "  ")
	}
	return json.Marshal(output)
}

func (f *JSONFormatter) ContentType() string {
	return "application/json"
}

func (f *JSONFormatter) buildJSONOutput(result *Result) JSONOutput {
	checkCount := make(map[string]int)
	fixedCount := make(map[string]int)

	for _, v := range result.Violations.Violations {
		checkCount[v.Check]++
		if v.Fixed {
			fixedCount[v.Check]++
		}
	}

	checkSummaries := make([]CheckSummary, 0, len(checkCount))
	for _, check := range sortedKeys(checkCount) {
		checkSummaries = append(checkSummaries, CheckSummary{
			Name:       check,
			Violations: checkCount[check],
			Fixed:      fixedCount[check],
		})
	}

	status := "passed"
	if !result.Passed() {
		status = "failed"
	}

	return JSONOutput{
		Summary: JSONSummary{
			TotalViolations: len(result.Violations.Violations),
			FilesExamined:   result.FilesExamined,
			FilesFixed:      result.FilesFixed,
			FilesFailing:    result.FilesFailing,
			Status:          status,
		},
		Violations: result.Violations.Violations,
		Checks:     checkSummaries,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

// CheckstyleFormatter outputs violations in Checkstyle XML format
type CheckstyleFormatter struct{}

type CheckstyleOutput struct {
	XMLName xml.Name         `xml:"checkstyle"`
	Version string           `xml:"version,attr"`
	Files   []CheckstyleFile `xml:"file"`
}

type CheckstyleFile struct {
	Name   string            `xml:"name,attr"`
	Errors []CheckstyleError `xml:"error"`
}

type CheckstyleError struct {
	Line     int    `xml:"line,attr"`
	Severity string `xml:"severity,attr"`
	Message  string `xml:"message,attr"`
	Source   string `xml:"source,attr"`
}

func (f *CheckstyleFormatter) Format(result *Result, cfg *Config) ([]byte, error) {
	fileMap := make(map[string][]Violation)
	for _, v := range result.Violations.Violations {
		fileMap[v.File] = append(fileMap[v.File], v)
	}

	files := make([]CheckstyleFile, 0, len(fileMap))
	for _, file := range sortedKeys(fileMap) {
		fileViolations := fileMap[file]
		errors := make([]CheckstyleError, 0, len(fileViolations))
		for _, v := range fileViolations {
			line := v.Line
			if line == 0 {
				line = 1
			}
			severity := string(v.Severity)
			if severity == "" {
				severity = string(SeverityError)
			}

			errors = append(errors, CheckstyleError{
				Line:     line,
				Severity: severity,
				Message:  v.Message,
				Source:   fmt.Sprintf("cstyle.%s", v.Check),
			})
		}

		files = append(files, CheckstyleFile{
			Name:   file,
			Errors: errors,
		})
	}

	output := CheckstyleOutput{
		Version: "8.0",
		Files:   files,
	}

	return xml.MarshalIndent(output, "", "  ")
}

func (f *CheckstyleFormatter) ContentType() string {
	return "application/xml"
}

// TextFormatter outputs violations in human-readable text format
type TextFormatter struct {
	// GroupByCheck when true groups violations by check instead of file
	GroupByCheck bool
}

func (f *TextFormatter) Format(result *Result, cfg *Config) ([]byte, error) {
	var out string
	if f.GroupByCheck {
		out = result.Violations.PrintByCheck()
	} else {
		out = result.Violations.PrintByFile()
	}
	out += "\n" + result.Summary() + "\n"
	return []byte(out), nil
}

func (f *TextFormatter) ContentType() string {
	return "text/plain"
}
