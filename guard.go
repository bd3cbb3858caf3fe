package cstyle

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CheckNameHeaderGuards is the name of the header-guard check
const CheckNameHeaderGuards = "header-guards"

// GuardName derives the include-guard macro for a header path. The path is
// taken relative to the project root, which is how the hook runner passes
// file arguments. Non-alphanumeric characters map to '_', the result is
// uppercased and suffixed with '_'. Leading underscores are stripped since
// identifiers starting with '_' followed by a capital are reserved.
func GuardName(project, path string) string {
	rel := filepath.ToSlash(filepath.Clean(path))
	rel = strings.TrimPrefix(rel, "./")

	guard := mangleGuardPart(rel) + "_"
	if project != "" {
		guard = mangleGuardPart(project) + "_" + guard
	}
	return strings.TrimLeft(guard, "_")
}

func mangleGuardPart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// HeaderGuardCheck verifies that a header contains a single well-formed
// include guard named after its path, or a #pragma once when allowed.
type HeaderGuardCheck struct {
	cfg Config
}

// NewHeaderGuardCheck creates the header-guard check
func NewHeaderGuardCheck(cfg Config) *HeaderGuardCheck {
	return &HeaderGuardCheck{cfg: cfg}
}

func (c *HeaderGuardCheck) Name() string {
	return CheckNameHeaderGuards
}

// Applies restricts the check to header-like files
func (c *HeaderGuardCheck) Applies(path string) bool {
	return c.cfg.IsHeader(path)
}

// Run checks and optionally fixes the include guard of one header.
// Multiple or nested guards, pragma/guard mixtures and partial guards are
// ambiguous and never auto-fixed.
func (c *HeaderGuardCheck) Run(f *SourceFile, fix bool) []Violation {
	expected := GuardName(c.cfg.Project, f.Path)
	pairs := scanGuardPairs(f.Lines)
	pragmas := scanPragmaOnce(f.Lines)

	if len(pragmas) > 0 {
		switch {
		case !c.cfg.Guard.AllowPragmaOnce:
			return c.report(f, pragmas[0]+1, "#pragma once is not allowed, use an include guard", false)
		case len(pairs) > 0:
			return c.report(f, pragmas[0]+1, "contains both #pragma once and an include guard", false)
		case len(pragmas) > 1:
			return c.report(f, pragmas[1]+1, "contains multiple #pragma once directives", false)
		default:
			return nil
		}
	}

	if len(pairs) > 1 {
		return c.report(f, pairs[1].open.Start+1, "contains multiple or nested include guards", false)
	}

	if len(pairs) == 0 {
		// Only guard-shaped names count as debris; ordinary conditional
		// compilation like #ifndef NDEBUG must not block the insertion.
		for i, line := range f.Lines {
			if m := reIfndef.FindStringSubmatch(line); m != nil && guardShaped(m[1], expected) {
				return c.report(f, i+1, "contains only part of an include guard", false)
			}
			if name := guardEndifName(line); name != "" && guardShaped(name, expected) {
				return c.report(f, i+1, "contains only part of an include guard", false)
			}
		}
		violations := c.report(f, 0, fmt.Sprintf("missing include guard %q", expected), true)
		if fix {
			c.insertGuard(f, expected)
			violations[0].Fixed = true
		}
		return violations
	}

	return c.verifyGuard(f, pairs[0], expected, fix)
}

func (c *HeaderGuardCheck) report(f *SourceFile, line int, message string, fixable bool) []Violation {
	return []Violation{{
		File:     f.Path,
		Check:    c.Name(),
		Line:     line,
		Message:  message,
		Fixable:  fixable,
		Severity: SeverityError,
	}}
}

// guardShaped reports whether a macro name looks like an include guard:
// the expected guard itself or any name with the conventional _H_ suffix.
func guardShaped(name, expected string) bool {
	return name == expected || strings.HasSuffix(name, "_H_")
}

// guardEndifName extracts the macro name from a "#endif  // NAME" line, or ""
func guardEndifName(line string) string {
	m := reEndif.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1]
}

// verifyGuard validates the single guard pair and the closing #endif, fixing
// what can be fixed without touching the body.
func (c *HeaderGuardCheck) verifyGuard(f *SourceFile, p guardPair, expected string, fix bool) []Violation {
	var violations []Violation

	flag := func(line int, message string, fixable bool) {
		violations = append(violations, Violation{
			File:     f.Path,
			Check:    c.Name(),
			Line:     line,
			Message:  message,
			Fixable:  fixable,
			Severity: SeverityError,
		})
	}

	// The guard must be the first code after any leading comment block.
	if p.open.Start != leadingCommentEnd(f.Lines) {
		flag(p.open.Start+1, "include guard does not immediately follow the leading comment block", false)
		return violations
	}

	last := lastNonBlank(f.Lines)
	closing := reEndif.FindStringSubmatch(f.Lines[last])
	if closing == nil {
		flag(last+1, "closing #endif of the include guard is not the final line", false)
		return violations
	}

	// The final #endif may belong to an extern "C" wrapper when the guard
	// is left unclosed. Rewriting it would corrupt the wrapper.
	_, externCloses := scanExternC(f.Lines)
	for _, region := range externCloses {
		if last >= region.Start && last < region.End {
			flag(last+1, "include guard is missing its closing #endif", false)
			return violations
		}
	}

	fixEndif := false
	if closing[1] != expected {
		flag(last+1, fmt.Sprintf("closing #endif is not annotated with %q", expected), true)
		fixEndif = true
	}

	fixName := false
	if p.name != expected {
		flag(p.open.Start+1, fmt.Sprintf("include guard %q should be %q", p.name, expected), true)
		fixName = true
		fixEndif = true
	}

	// One blank line separates the guard from its surroundings.
	missingBlankAfter := p.def+1 < last && !isBlank(f.Lines[p.def+1])
	if missingBlankAfter {
		flag(p.def+2, "missing blank line after include guard #define", true)
	}
	missingBlankBefore := p.open.Start > 0 && !isBlank(f.Lines[p.open.Start-1])
	if missingBlankBefore {
		flag(p.open.Start+1, "missing blank line before include guard #ifndef", true)
	}

	if fix && len(violations) > 0 {
		// Bottom-up so later edits cannot shift earlier indexes.
		if fixEndif {
			f.ReplaceLine(last, "#endif  // "+expected)
		}
		if missingBlankAfter {
			f.InsertLines(p.def+1, "")
		}
		if fixName {
			f.ReplaceLine(p.def, "#define "+expected)
			f.ReplaceLine(p.open.Start, "#ifndef "+expected)
		}
		if missingBlankBefore {
			f.InsertLines(p.open.Start, "")
		}
		for i := range violations {
			violations[i].Fixed = true
		}
	}

	return violations
}

// insertGuard emits the guard triple around the existing body, leaving every
// body line untouched.
func (c *HeaderGuardCheck) insertGuard(f *SourceFile, guard string) {
	last := lastNonBlank(f.Lines)
	f.InsertLines(last+1, "", "#endif  // "+guard)

	at := leadingCommentEnd(f.Lines)
	block := []string{"#ifndef " + guard, "#define " + guard, ""}
	if at > 0 && !isBlank(f.Lines[at-1]) {
		block = append([]string{""}, block...)
	}
	f.InsertLines(at, block...)
}
