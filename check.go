package cstyle

// Check is the common surface of every style check.
type Check interface {
	// Name identifies the check in violations and command names
	Name() string
	// Applies reports whether the check is interested in the given path
	Applies(path string) bool
}

// ContentCheck inspects a file's decoded line sequence and may rewrite it in
// place when fixing is enabled. Run returns every violation it found;
// fixable ones have Fixed set when the edit was applied.
type ContentCheck interface {
	Check
	Run(file *SourceFile, fix bool) []Violation
}

// PathCheck inspects only the path itself and never opens the file.
// Path checks cannot fix: a rename is outside an automated content-rewrite's
// safety envelope.
type PathCheck interface {
	Check
	RunPath(path string) []Violation
}

// AllChecks builds every check in its canonical order
func AllChecks(cfg Config) []Check {
	return []Check{
		NewHeaderGuardCheck(cfg),
		NewExternCCheck(cfg),
		NewLegalCheck(cfg),
		NewSectionsCheck(cfg),
		NewFilenameCheck(cfg),
	}
}
