package cstyle

import (
	"regexp"
	"strings"
)

// RegionKind classifies a contiguous line range within a source file
type RegionKind string

const (
	RegionLicenseHeader RegionKind = "license-header"
	RegionGuardOpen     RegionKind = "include-guard-open"
	RegionGuardClose    RegionKind = "include-guard-close"
	RegionExternCOpen   RegionKind = "extern-c-open"
	RegionExternCClose  RegionKind = "extern-c-close"
	RegionSectionMarker RegionKind = "file-section-marker"
	RegionBody          RegionKind = "body"
)

// Region is a classified half-open line range [Start, End) within a file.
// Title carries the banner title for section markers and the macro name for
// guard regions.
type Region struct {
	Kind  RegionKind
	Start int
	End   int
	Title string
}

// Len returns the number of lines covered by the region
func (r Region) Len() int {
	return r.End - r.Start
}

var (
	reIfndef     = regexp.MustCompile(`^#ifndef\s+([A-Za-z_]\w*)\s*$`)
	reDefine     = regexp.MustCompile(`^#define\s+([A-Za-z_]\w*)\s*$`)
	reEndif      = regexp.MustCompile(`^#endif(?:\s+//\s*(\S+))?\s*$`)
	rePragmaOnce = regexp.MustCompile(`^#pragma\s+once\s*$`)

	reBannerTop    = regexp.MustCompile(`^/\* -+$`)
	reBannerTitle  = regexp.MustCompile(`^ \* (.+?)\s*$`)
	reBannerBottom = regexp.MustCompile(`^ \* -+ \*/$`)

	reCplusplusOpen = regexp.MustCompile(`^#ifdef\s+__cplusplus\s*$`)
	reExternCBrace  = regexp.MustCompile(`^extern\s+"C"\s*\{\s*$`)
	reCloseBrace    = regexp.MustCompile(`^\}\s*$`)
)

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// lastNonBlank returns the index of the last non-blank line, or -1
func lastNonBlank(lines []string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if !isBlank(lines[i]) {
			return i
		}
	}
	return -1
}

// nextNonBlank returns the index of the first non-blank line at or after i,
// or len(lines)
func nextNonBlank(lines []string, i int) int {
	for ; i < len(lines); i++ {
		if !isBlank(lines[i]) {
			return i
		}
	}
	return i
}

// leadingCommentEnd walks past any leading blank lines and comment blocks
// and returns the index of the first line that belongs to neither. State is
// a single in-block flag, no grammar.
func leadingCommentEnd(lines []string) int {
	inBlock := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case inBlock:
			if strings.Contains(trimmed, "*/") {
				inBlock = false
			}
		case trimmed == "":
		case strings.HasPrefix(trimmed, "//"):
		case strings.HasPrefix(trimmed, "/*"):
			if !strings.Contains(trimmed[2:], "*/") {
				inBlock = true
			}
		default:
			return i
		}
	}
	return len(lines)
}

// firstCommentBlock locates the first /* ... */ block in the file and
// returns it as a half-open range. ok is false if the file has none before
// any code line.
func firstCommentBlock(lines []string) (Region, bool) {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "/*") {
			return Region{}, false
		}
		if strings.Contains(trimmed[2:], "*/") {
			return Region{Kind: RegionLicenseHeader, Start: i, End: i + 1}, true
		}
		for j := i + 1; j < len(lines); j++ {
			if strings.Contains(lines[j], "*/") {
				return Region{Kind: RegionLicenseHeader, Start: i, End: j + 1}, true
			}
		}
		return Region{}, false
	}
	return Region{}, false
}

// guardPair is an adjacent #ifndef/#define pair with matching macro names
type guardPair struct {
	open Region // the #ifndef line
	def  int    // the #define line index
	name string
}

// scanGuardPairs finds every adjacent #ifndef X / #define X pair. More than
// one pair means multiple or nested guards.
func scanGuardPairs(lines []string) []guardPair {
	var pairs []guardPair
	for i := 0; i+1 < len(lines); i++ {
		m := reIfndef.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		d := reDefine.FindStringSubmatch(lines[i+1])
		if d == nil || d[1] != m[1] {
			continue
		}
		pairs = append(pairs, guardPair{
			open: Region{Kind: RegionGuardOpen, Start: i, End: i + 2, Title: m[1]},
			def:  i + 1,
			name: m[1],
		})
	}
	return pairs
}

// scanPragmaOnce returns the indexes of every #pragma once line
func scanPragmaOnce(lines []string) []int {
	var found []int
	for i, line := range lines {
		if rePragmaOnce.MatchString(line) {
			found = append(found, i)
		}
	}
	return found
}

// scanBanners finds every three-line section banner and returns one region
// per banner, in file order, with the banner title.
func scanBanners(lines []string) []Region {
	var banners []Region
	for i := 0; i+2 < len(lines); i++ {
		if !reBannerTop.MatchString(lines[i]) {
			continue
		}
		m := reBannerTitle.FindStringSubmatch(lines[i+1])
		if m == nil || !reBannerBottom.MatchString(lines[i+2]) {
			continue
		}
		banners = append(banners, Region{
			Kind:  RegionSectionMarker,
			Start: i,
			End:   i + 3,
			Title: m[1],
		})
		i += 2
	}
	return banners
}

// scanExternC finds extern "C" wrapper triples. An open triple is
// #ifdef __cplusplus / extern "C" { / #endif, a close triple is
// #ifdef __cplusplus / } / #endif.
func scanExternC(lines []string) (opens, closes []Region) {
	for i := 0; i+2 < len(lines); i++ {
		if !reCplusplusOpen.MatchString(lines[i]) || !reEndif.MatchString(lines[i+2]) {
			continue
		}
		switch {
		case reExternCBrace.MatchString(lines[i+1]):
			opens = append(opens, Region{Kind: RegionExternCOpen, Start: i, End: i + 3})
			i += 2
		case reCloseBrace.MatchString(lines[i+1]):
			closes = append(closes, Region{Kind: RegionExternCClose, Start: i, End: i + 3})
			i += 2
		}
	}
	return opens, closes
}
