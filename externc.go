package cstyle

// CheckNameExternC is the name of the extern "C" wrapper check
const CheckNameExternC = "extern-c"

var (
	externCOpenLines  = []string{"#ifdef __cplusplus", `extern "C" {`, "#endif"}
	externCCloseLines = []string{"#ifdef __cplusplus", "}", "#endif"}
)

// ExternCCheck verifies that a header wraps its declarations in an
// extern "C" linkage specification: an opening wrapper after the include
// guard #define and a closing wrapper before the guard's #endif.
type ExternCCheck struct {
	cfg Config
}

// NewExternCCheck creates the extern "C" check
func NewExternCCheck(cfg Config) *ExternCCheck {
	return &ExternCCheck{cfg: cfg}
}

func (c *ExternCCheck) Name() string {
	return CheckNameExternC
}

// Applies restricts the check to header-like files
func (c *ExternCCheck) Applies(path string) bool {
	return c.cfg.IsHeader(path)
}

// Run checks and optionally fixes the extern "C" wrapper of one header.
// A partially present wrapper is ambiguous about programmer intent and is
// reported without fixing.
func (c *ExternCCheck) Run(f *SourceFile, fix bool) []Violation {
	opens, closes := scanExternC(f.Lines)

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

	if len(opens) > 1 || len(closes) > 1 {
		return flag(0, `contains more than one extern "C" wrapper`, false)
	}

	if len(opens) == 1 && len(closes) == 0 {
		return flag(opens[0].Start+1, `extern "C" wrapper is opened but never closed`, false)
	}
	if len(opens) == 0 && len(closes) == 1 {
		return flag(closes[0].Start+1, `extern "C" wrapper is closed but never opened`, false)
	}

	pairs := scanGuardPairs(f.Lines)

	if len(opens) == 1 && len(closes) == 1 {
		if opens[0].Start > closes[0].Start {
			return flag(closes[0].Start+1, `extern "C" wrapper closes before it opens`, false)
		}
		if len(pairs) == 1 {
			return c.verifyPlacement(f, pairs[0], opens[0], closes[0])
		}
		return nil
	}

	violations := flag(0, `missing extern "C" wrapper`, true)
	if fix {
		c.insertWrapper(f, pairs)
		violations[0].Fixed = true
	}
	return violations
}

// verifyPlacement checks the wrapper sits directly inside the include guard.
// Moving an existing wrapper would move code, so misplacement is reported
// but never fixed.
func (c *ExternCCheck) verifyPlacement(f *SourceFile, p guardPair, open, close Region) []Violation {
	var violations []Violation

	flag := func(line int, message string) {
		violations = append(violations, Violation{
			File:     f.Path,
			Check:    c.Name(),
			Line:     line,
			Message:  message,
			Fixable:  false,
			Severity: SeverityError,
		})
	}

	if nextNonBlank(f.Lines, p.def+1) != open.Start {
		flag(open.Start+1, `extern "C" wrapper does not immediately follow the include guard #define`)
	}

	last := lastNonBlank(f.Lines)
	if reEndif.MatchString(f.Lines[last]) && nextNonBlank(f.Lines, close.End) != last {
		flag(close.Start+1, `closing extern "C" wrapper does not immediately precede the guard #endif`)
	}

	return violations
}

// insertWrapper inserts both wrapper triples. With a single guard the open
// triple follows the #define and the close triple precedes the final
// #endif; without one the wrapper brackets the whole body.
func (c *ExternCCheck) insertWrapper(f *SourceFile, pairs []guardPair) {
	if len(pairs) == 1 {
		last := lastNonBlank(f.Lines)
		f.InsertLines(last, externCCloseLines...)

		at := nextNonBlank(f.Lines, pairs[0].def+1)
		f.InsertLines(at, append(append([]string{}, externCOpenLines...), "")...)
		return
	}

	last := lastNonBlank(f.Lines)
	f.InsertLines(last+1, "")
	f.InsertLines(last+1, externCCloseLines...)

	at := leadingCommentEnd(f.Lines)
	f.InsertLines(at, append(append([]string{}, externCOpenLines...), "")...)
}
