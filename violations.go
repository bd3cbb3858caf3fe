package cstyle

import (
	"fmt"
	"sort"
	"strings"
)

// Severity represents the importance level of a violation
type Severity string

const (
	SeverityError   Severity = "error"   // Blocks commit
	SeverityWarning Severity = "warning" // Warns but allows commit
	SeverityInfo    Severity = "info"    // Informational only
)

// String implements the Stringer interface for Severity
func (s Severity) String() string {
	return string(s)
}

// Violation represents a single style rule failure found in a file.
// Fixable violations carry a deterministic correcting edit; the runner
// applies it when fixing is enabled and flips Fixed afterwards.
type Violation struct {
	File     string   `json:"file"`               // The file where the violation was found
	Check    string   `json:"check"`              // The check that produced the violation
	Line     int      `json:"line,omitempty"`     // 1-indexed line number, 0 if not applicable
	Message  string   `json:"message"`            // Human-readable description
	Fixable  bool     `json:"fixable"`            // Whether the check can auto-correct it
	Fixed    bool     `json:"fixed"`              // Whether the fix was applied in this run
	Cached   bool     `json:"cached"`             // Whether the result came from the incremental cache
	Severity Severity `json:"severity,omitempty"` // Error, Warning, Info
}

// Error implements the error interface
func (v *Violation) Error() string {
	if v.Line > 0 {
		return fmt.Sprintf("%s:%d: %s (%s)", v.File, v.Line, v.Message, v.Check)
	}
	return fmt.Sprintf("%s: %s (%s)", v.File, v.Message, v.Check)
}

// Violations is a collection of Violation values
type Violations struct {
	Violations []Violation `json:"violations"`
}

// NewViolations creates a new empty collection of violations
func NewViolations() *Violations {
	return &Violations{
		Violations: make([]Violation, 0),
	}
}

// Add adds a violation to the collection
func (v *Violations) Add(violation Violation) {
	v.Violations = append(v.Violations, violation)
}

// IsEmpty returns true if there are no violations
func (v *Violations) IsEmpty() bool {
	return len(v.Violations) == 0
}

// Fixed returns the subset of violations whose fix was applied
func (v *Violations) Fixed() []Violation {
	fixed := make([]Violation, 0)
	for _, violation := range v.Violations {
		if violation.Fixed {
			fixed = append(fixed, violation)
		}
	}
	return fixed
}

// Unfixed returns the subset of violations that remain in the file
func (v *Violations) Unfixed() []Violation {
	unfixed := make([]Violation, 0)
	for _, violation := range v.Violations {
		if !violation.Fixed {
			unfixed = append(unfixed, violation)
		}
	}
	return unfixed
}

// String implements the Stringer interface
func (v *Violations) String() string {
	return v.PrintByFile()
}

// PrintByFile prints the violations grouped by file. Reformatted files are
// listed separately from files that still fail, because both block the
// commit but only the latter need manual edits.
func (v *Violations) PrintByFile() string {
	if len(v.Violations) == 0 {
		return "No style violations found"
	}

	msg := fmt.Sprintf("Found %d style violations grouped by file:\n", len(v.Violations))

	fileViolations := make(map[string][]Violation)
	for _, violation := range v.Violations {
		fileViolations[violation.File] = append(fileViolations[violation.File], violation)
	}

	for _, file := range sortedKeys(fileViolations) {
		violations := fileViolations[file]
		msg += fmt.Sprintf("File: %s (%d violations)\n", file, len(violations))

		for _, violation := range violations {
			status := "failing"
			if violation.Fixed {
				status = "reformatted"
			}
			if violation.Line > 0 {
				msg += fmt.Sprintf("  - line %d: %s [%s, %s]\n", violation.Line, violation.Message, violation.Check, status)
			} else {
				msg += fmt.Sprintf("  - %s [%s, %s]\n", violation.Message, violation.Check, status)
			}
		}
		msg += "\n"
	}

	return msg
}

// PrintByCheck prints the violations grouped by check
func (v *Violations) PrintByCheck() string {
	if len(v.Violations) == 0 {
		return "No style violations found"
	}

	msg := fmt.Sprintf("Found %d style violations grouped by check:\n", len(v.Violations))

	checkViolations := make(map[string][]Violation)
	for _, violation := range v.Violations {
		checkViolations[violation.Check] = append(checkViolations[violation.Check], violation)
	}

	for _, check := range sortedKeys(checkViolations) {
		violations := checkViolations[check]
		msg += fmt.Sprintf("Check: %s (%d violations)\n", check, len(violations))

		for _, violation := range violations {
			msg += fmt.Sprintf("  - %s: %s\n", violation.File, violation.Message)
		}
		msg += "\n"
	}

	return msg
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Result accumulates the outcome of one check invocation across all files
// passed on the command line.
type Result struct {
	FilesExamined int         `json:"files_examined"` // Total files examined
	FilesFixed    int         `json:"files_fixed"`    // Files rewritten by an auto-fix
	FilesFailing  int         `json:"files_failing"`  // Files with unresolved violations
	Errors        []error     `json:"-"`              // Per-file I/O or encoding errors
	Violations    *Violations `json:"violations"`
}

// NewResult creates an empty Result
func NewResult() *Result {
	return &Result{
		Violations: NewViolations(),
	}
}

// Passed reports whether the whole invocation succeeded. Any violation,
// including one that was auto-fixed, fails the run so the developer
// re-stages the rewritten file.
func (r *Result) Passed() bool {
	return r.Violations.IsEmpty() && len(r.Errors) == 0
}

// ExitCode finalizes the result into a process exit status
func (r *Result) ExitCode() int {
	if r.Passed() {
		return 0
	}
	return 1
}

// Summary returns a one-line human-readable summary of the run
func (r *Result) Summary() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d files examined", r.FilesExamined))
	if r.FilesFixed > 0 {
		parts = append(parts, fmt.Sprintf("%d reformatted", r.FilesFixed))
	}
	if r.FilesFailing > 0 {
		parts = append(parts, fmt.Sprintf("%d failing", r.FilesFailing))
	}
	if len(r.Errors) > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", len(r.Errors)))
	}
	if r.Passed() {
		parts = append(parts, "all clean")
	}
	return strings.Join(parts, ", ")
}
