package cstyle

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// CheckNameFilename is the name of the filename check
const CheckNameFilename = "filename"

// Extensions that mark a file as header- or source-like regardless of what
// the project configuration allows. Used to reject e.g. .hpp in a project
// that standardized on .h.
var (
	headerLikeExtensions = []string{".h", ".hh", ".hpp", ".hxx"}
	sourceLikeExtensions = []string{".c", ".cc", ".cpp", ".cxx"}
)

// reUppercaseDoc matches conventional repo-level documents like README.md
var reUppercaseDoc = regexp.MustCompile(`^[A-Z_]+\.md$`)

// FilenameCheck verifies path naming conventions. It never modifies
// anything: a naming fix requires a rename, which is out of scope for a
// content rewrite.
type FilenameCheck struct {
	cfg         Config
	filePattern *regexp.Regexp
	dirPattern  *regexp.Regexp
}

// NewFilenameCheck creates the filename check. Invalid configured patterns
// fall back to the defaults.
func NewFilenameCheck(cfg Config) *FilenameCheck {
	filePattern, err := regexp.Compile(cfg.Filename.FilePattern)
	if err != nil || cfg.Filename.FilePattern == "" {
		filePattern = regexp.MustCompile(`^[a-z\d_.]+$`)
	}
	dirPattern, err := regexp.Compile(cfg.Filename.DirPattern)
	if err != nil || cfg.Filename.DirPattern == "" {
		dirPattern = regexp.MustCompile(`^[a-z\d_-]+$`)
	}
	return &FilenameCheck{
		cfg:         cfg,
		filePattern: filePattern,
		dirPattern:  dirPattern,
	}
}

func (c *FilenameCheck) Name() string {
	return CheckNameFilename
}

// Applies covers every path
func (c *FilenameCheck) Applies(string) bool {
	return true
}

// RunPath checks every element of the path against the naming convention
func (c *FilenameCheck) RunPath(path string) []Violation {
	var violations []Violation
	flag := func(message string) {
		violations = append(violations, Violation{
			File:     path,
			Check:    c.Name(),
			Message:  message,
			Fixable:  false,
			Severity: SeverityError,
		})
	}

	normalized := filepath.ToSlash(filepath.Clean(path))
	normalized = strings.TrimPrefix(normalized, "./")
	elements := strings.Split(normalized, "/")

	for _, dir := range elements[:len(elements)-1] {
		if dir == "." || dir == ".." || dir == "" {
			continue
		}
		if !c.dirPattern.MatchString(dir) {
			flag(fmt.Sprintf("illegal directory name %q", dir))
		}
	}

	base := elements[len(elements)-1]
	if !c.allowedBasename(base) {
		flag(fmt.Sprintf("illegal file name %q", base))
	}

	if msg := c.extensionViolation(base); msg != "" {
		flag(msg)
	}

	return violations
}

// allowedBasename checks a basename against the pattern and the allowlist
func (c *FilenameCheck) allowedBasename(base string) bool {
	for _, allowed := range c.cfg.Filename.Allowlist {
		if base == allowed {
			return true
		}
	}
	if reUppercaseDoc.MatchString(base) {
		return true
	}
	return c.filePattern.MatchString(base)
}

// extensionViolation rejects header- or source-like extensions outside the
// sets the project standardized on.
func (c *FilenameCheck) extensionViolation(base string) string {
	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		return ""
	}

	if containsFold(headerLikeExtensions, ext) && !containsFold(c.cfg.HeaderExtensions, ext) {
		return fmt.Sprintf("header extension %q is not in the allowed set %v", ext, c.cfg.HeaderExtensions)
	}
	if containsFold(sourceLikeExtensions, ext) && !containsFold(c.cfg.SourceExtensions, ext) {
		return fmt.Sprintf("source extension %q is not in the allowed set %v", ext, c.cfg.SourceExtensions)
	}
	return ""
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
