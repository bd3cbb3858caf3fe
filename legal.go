package cstyle

import (
	"strings"
)

// CheckNameLegal is the name of the legal-header check
const CheckNameLegal = "legal"

// Built-in license-notice templates. {project} is the single variable line
// substituted with the configured project name before comparison.
var gpl3NoticeLines = []string{
	"This file is part of {project}.",
	"",
	"{project} is free software: you can redistribute it and/or modify",
	"it under the terms of the GNU General Public License as published by",
	"the Free Software Foundation, either version 3 of the License, or",
	"(at your option) any later version.",
	"",
	"{project} is distributed in the hope that it will be useful,",
	"but WITHOUT ANY WARRANTY; without even the implied warranty of",
	"MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the",
	"GNU General Public License for more details.",
	"",
	"You should have received a copy of the GNU General Public License",
	"along with {project}.  If not, see <https://www.gnu.org/licenses/>.",
}

var unlicenseNoticeLines = []string{
	"This file is part of {project}.",
	"",
	"This is free and unencumbered software released into the public domain.",
	"",
	"Anyone is free to copy, modify, publish, use, compile, sell, or",
	"distribute this software, either in source code form or as a compiled",
	"binary, for any purpose, commercial or non-commercial, and by any",
	"means.",
	"",
	"THE SOFTWARE IS PROVIDED \"AS IS\", WITHOUT WARRANTY OF ANY KIND,",
	"EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF",
	"MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.",
	"IN NO EVENT SHALL THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR",
	"OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,",
	"ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR",
	"OTHER DEALINGS IN THE SOFTWARE.",
	"",
	"For more information, please refer to <http://unlicense.org/>",
}

// LegalCheck verifies that the first comment block of a file matches the
// configured license notice. Whitespace-only divergence is fixed in place;
// any textual divergence is reported untouched to avoid overwriting a
// deliberately customized notice.
type LegalCheck struct {
	cfg    Config
	notice []string
}

// NewLegalCheck creates the legal-header check with the configured template
func NewLegalCheck(cfg Config) *LegalCheck {
	var notice []string
	switch cfg.Legal.License {
	case "unlicense":
		notice = unlicenseNoticeLines
	case "custom":
		notice = strings.Split(strings.TrimRight(cfg.Legal.Template, "\n"), "\n")
	default:
		notice = gpl3NoticeLines
	}

	rendered := make([]string, len(notice))
	for i, line := range notice {
		rendered[i] = strings.ReplaceAll(line, "{project}", cfg.Project)
	}

	return &LegalCheck{cfg: cfg, notice: rendered}
}

func (c *LegalCheck) Name() string {
	return CheckNameLegal
}

// Applies covers header and source files
func (c *LegalCheck) Applies(path string) bool {
	role := c.cfg.RoleOf(path)
	return role == RoleHeader || role == RoleSource
}

// Run checks and optionally fixes the license notice of one file
func (c *LegalCheck) Run(f *SourceFile, fix bool) []Violation {
	flag := func(line int, message string, fixable bool) []Violation {
		return []Violation{{
			File:     f.Path,
			Check:    c.Name(),
			Line:     line,
			Message:  message,
			Fixable:  fixable,
			Severity: SeverityError,
		}}
	}

	block, ok := firstCommentBlock(f.Lines)
	if !ok {
		violations := flag(1, "missing license notice", true)
		if fix {
			f.InsertLines(0, append(c.renderBlock(), "")...)
			violations[0].Fixed = true
		}
		return violations
	}

	got := stripCommentDelimiters(f.Lines[block.Start:block.End])

	if equalLines(got, c.notice, ToleranceStrict) {
		return nil
	}

	if equalLines(got, c.notice, c.tolerance()) {
		violations := flag(block.Start+1, "license notice diverges from the template by whitespace only", true)
		if fix {
			f.RemoveLines(block.Start, block.End)
			f.InsertLines(block.Start, c.renderBlock()...)
			violations[0].Fixed = true
		}
		return violations
	}

	return flag(block.Start+1, "license notice does not match the template", false)
}

func (c *LegalCheck) tolerance() string {
	if c.cfg.Legal.Tolerance == "" {
		return ToleranceTrailing
	}
	return c.cfg.Legal.Tolerance
}

// renderBlock renders the canonical notice with comment delimiters
func (c *LegalCheck) renderBlock() []string {
	out := make([]string, 0, len(c.notice)+2)
	out = append(out, c.cfg.Legal.CommentStart)
	for _, line := range c.notice {
		if line == "" {
			out = append(out, strings.TrimRight(c.cfg.Legal.LinePrefix, " \t"))
		} else {
			out = append(out, c.cfg.Legal.LinePrefix+" "+line)
		}
	}
	out = append(out, c.cfg.Legal.CommentEnd)
	return out
}

// stripCommentDelimiters removes the comment decoration from a block,
// keeping only the notice text lines.
func stripCommentDelimiters(block []string) []string {
	out := make([]string, 0, len(block))
	for i, line := range block {
		text := line
		if i == 0 {
			text = strings.TrimSpace(text)
			text = strings.TrimPrefix(text, "/*")
		}
		if i == len(block)-1 {
			trimmed := strings.TrimSpace(text)
			trimmed = strings.TrimSuffix(trimmed, "*/")
			text = trimmed
		}
		if i > 0 && i < len(block)-1 {
			stripped := strings.TrimLeft(text, " \t")
			if strings.HasPrefix(stripped, "*") {
				stripped = strings.TrimPrefix(stripped, "*")
				stripped = strings.TrimPrefix(stripped, " ")
			}
			text = stripped
		}

		// Pure delimiter lines are not part of the notice text.
		if (i == 0 || i == len(block)-1) && strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, text)
	}
	return out
}

// equalLines compares two line slices under a whitespace tolerance mode
func equalLines(got, want []string, tolerance string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if normalizeLine(got[i], tolerance) != normalizeLine(want[i], tolerance) {
			return false
		}
	}
	return true
}

func normalizeLine(line, tolerance string) string {
	switch tolerance {
	case ToleranceTrailing:
		return strings.TrimRight(line, " \t")
	case ToleranceLoose:
		return strings.Join(strings.Fields(line), " ")
	default:
		return line
	}
}
