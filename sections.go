package cstyle

import (
	"fmt"
)

// CheckNameFileSections is the name of the file-sections check
const CheckNameFileSections = "file-sections"

const (
	bannerTop    = "/* --------------------------------------------------------------------------"
	bannerBottom = " * -------------------------------------------------------------------------- */"
)

func bannerLines(title string) []string {
	return []string{bannerTop, " * " + title, bannerBottom}
}

// SectionsCheck verifies that the canonical section banners are present and
// in order. Missing banners are inserted next to their nearest existing
// neighbor; reordering existing banners would risk moving code and is never
// done automatically.
type SectionsCheck struct {
	cfg Config
}

// NewSectionsCheck creates the file-sections check
func NewSectionsCheck(cfg Config) *SectionsCheck {
	return &SectionsCheck{cfg: cfg}
}

func (c *SectionsCheck) Name() string {
	return CheckNameFileSections
}

// Applies covers header and source files
func (c *SectionsCheck) Applies(path string) bool {
	role := c.cfg.RoleOf(path)
	return role == RoleHeader || role == RoleSource
}

func (c *SectionsCheck) canonical(path string) []string {
	if c.cfg.IsSource(path) {
		return c.cfg.Sections.Source
	}
	return c.cfg.Sections.Header
}

// Run checks and optionally fixes the section banners of one file
func (c *SectionsCheck) Run(f *SourceFile, fix bool) []Violation {
	canonical := c.canonical(f.Path)
	if len(canonical) == 0 {
		return nil
	}

	var violations []Violation
	flag := func(line int, message string, fixable bool) int {
		violations = append(violations, Violation{
			File:     f.Path,
			Check:    c.Name(),
			Line:     line,
			Message:  message,
			Fixable:  fixable,
			Severity: SeverityError,
		})
		return len(violations) - 1
	}

	// Source files use "local function declarations"; a bare "function
	// declarations" banner is a header habit and gets renamed.
	if c.cfg.IsSource(f.Path) && contains(canonical, "local function declarations") && !contains(canonical, "function declarations") {
		for _, b := range scanBanners(f.Lines) {
			if b.Title == "function declarations" {
				i := flag(b.Start+2, `section "function declarations" should be "local function declarations" in a source file`, true)
				if fix {
					f.ReplaceLine(b.Start+1, " * local function declarations")
					violations[i].Fixed = true
				}
			}
		}
	}

	// Duplicate banners: keep the first, drop the rest.
	seen := make(map[string]bool)
	duplicates := make([]Region, 0)
	for _, b := range scanBanners(f.Lines) {
		if seen[b.Title] {
			duplicates = append(duplicates, b)
			continue
		}
		seen[b.Title] = true
	}
	for i := len(duplicates) - 1; i >= 0; i-- {
		b := duplicates[i]
		idx := flag(b.Start+1, fmt.Sprintf("duplicate section banner %q", b.Title), true)
		if fix {
			end := b.End
			if end < len(f.Lines) && isBlank(f.Lines[end]) {
				end++
			}
			f.RemoveLines(b.Start, end)
			violations[idx].Fixed = true
		}
	}

	// Order of the existing canonical banners must follow the canonical
	// sequence. Anything else is ambiguous to repair.
	banners := scanBanners(f.Lines)
	prev := -1
	for _, b := range banners {
		pos := indexOf(canonical, b.Title)
		if pos < 0 {
			continue
		}
		if pos < prev {
			flag(b.Start+1, fmt.Sprintf("section banner %q is out of canonical order", b.Title), false)
			return violations
		}
		prev = pos
	}

	// Missing banners, inserted next to their nearest canonical neighbor.
	// Reverse order so each insertion can anchor on the one after it.
	for i := len(canonical) - 1; i >= 0; i-- {
		title := canonical[i]
		if bannerExists(f.Lines, title) {
			continue
		}
		idx := flag(0, fmt.Sprintf("missing section banner %q", title), true)
		if fix {
			c.insertBanner(f, canonical, i)
			violations[idx].Fixed = true
		}
	}

	return violations
}

func bannerExists(lines []string, title string) bool {
	for _, b := range scanBanners(lines) {
		if b.Title == title {
			return true
		}
	}
	return false
}

// insertBanner inserts the banner for canonical[i] before the next existing
// canonical banner, or at the end of the declaration area if none follows.
func (c *SectionsCheck) insertBanner(f *SourceFile, canonical []string, i int) {
	at := -1
	for j := i + 1; j < len(canonical); j++ {
		for _, b := range scanBanners(f.Lines) {
			if b.Title == canonical[j] {
				at = b.Start
				break
			}
		}
		if at >= 0 {
			break
		}
	}
	if at < 0 {
		at = c.declarationEnd(f)
	}

	block := append(bannerLines(canonical[i]), "")
	if at > 0 && !isBlank(f.Lines[at-1]) {
		block = append([]string{""}, block...)
	}
	f.InsertLines(at, block...)
}

// declarationEnd is where a banner goes when no later section exists: for
// headers before the closing extern "C" wrapper or guard #endif, for source
// files the end of the file.
func (c *SectionsCheck) declarationEnd(f *SourceFile) int {
	last := lastNonBlank(f.Lines)
	if last < 0 {
		return 0
	}

	if c.cfg.IsHeader(f.Path) {
		if reEndif.MatchString(f.Lines[last]) {
			_, closes := scanExternC(f.Lines)
			if len(closes) == 1 && nextNonBlank(f.Lines, closes[0].End) == last {
				return closes[0].Start
			}
			return last
		}
	}

	return last + 1
}

func contains(list []string, s string) bool {
	return indexOf(list, s) >= 0
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
