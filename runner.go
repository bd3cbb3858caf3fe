package cstyle

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/afero"
)

// Runner drives one check over a batch of file paths: read, classify,
// evaluate, optionally fix and write back, then aggregate the outcome.
// Files are processed strictly one at a time.
type Runner struct {
	cfg    Config
	logger *slog.Logger
	fs     afero.Fs
	cache  *CheckCache
	fix    bool
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithFix enables applying fixes for fixable violations
func WithFix(fix bool) RunnerOption {
	return func(r *Runner) {
		r.fix = fix
	}
}

// NewRunner creates a runner for the given configuration
func NewRunner(cfg Config, logger *slog.Logger, fs afero.Fs, opts ...RunnerOption) (*Runner, error) {
	runner := &Runner{
		cfg:    cfg,
		logger: ensureLogger(logger),
		fs:     fs,
	}

	for _, opt := range opts {
		opt(runner)
	}

	if cfg.Incremental {
		cache, err := NewCheckCache(cfg.CacheFile, fs)
		if err != nil {
			return nil, NewCacheError("failed to load cache", err)
		}
		runner.cache = cache
	}

	return runner, nil
}

// ensureLogger creates a default logger if none is provided
func ensureLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	return logger
}

// Run evaluates the check against every path. I/O and encoding errors abort
// the affected file only; the rest of the batch still runs.
func (r *Runner) Run(check Check, paths []string) *Result {
	result := NewResult()

	for _, path := range paths {
		if !check.Applies(path) {
			r.logger.Debug("Skipping file", "check", check.Name(), "path", path)
			continue
		}

		result.FilesExamined++
		r.runFile(check, path, result)
	}

	return result
}

// RunAll evaluates several checks over the same batch, merging the results.
// A file counts as examined once no matter how many checks apply to it.
func (r *Runner) RunAll(checks []Check, paths []string) *Result {
	result := NewResult()

	for _, path := range paths {
		for _, check := range checks {
			if check.Applies(path) {
				result.FilesExamined++
				break
			}
		}
	}

	for _, check := range checks {
		partial := r.Run(check, paths)
		result.FilesFixed += partial.FilesFixed
		result.FilesFailing += partial.FilesFailing
		result.Errors = append(result.Errors, partial.Errors...)
		for _, v := range partial.Violations.Violations {
			result.Violations.Add(v)
		}
	}

	return result
}

func (r *Runner) runFile(check Check, path string, result *Result) {
	if pathCheck, ok := check.(PathCheck); ok {
		violations := pathCheck.RunPath(path)
		r.collect(result, path, violations, false)
		return
	}

	contentCheck, ok := check.(ContentCheck)
	if !ok {
		result.Errors = append(result.Errors, WithFile(NewCheckError("check implements neither ContentCheck nor PathCheck", nil), path))
		return
	}

	if r.cache != nil {
		cached, err := r.cache.HasEntry(check.Name(), path)
		if err == nil {
			// A fix run must re-evaluate entries that still carry
			// violations, or the rewrite never happens.
			if !r.fix || len(cached.Violations) == 0 {
				r.logger.Debug("Using cached result", "check", check.Name(), "path", path)
				r.collect(result, path, cached.Violations, false)
				return
			}
		} else if !errors.Is(err, ErrEntryNotFound) && !errors.Is(err, ErrReadingCachedViolations) {
			r.logger.Warn("Error checking cache entry", "path", path, "error", err)
		}
	}

	file, err := ReadSource(r.fs, path)
	if err != nil {
		r.logger.Error("Could not read file", "path", path, "error", err)
		result.Errors = append(result.Errors, err)
		return
	}

	violations := contentCheck.Run(file, r.fix)

	modified := file.Modified()
	if modified {
		if err := file.Write(r.fs); err != nil {
			r.logger.Error("Could not write fixed file", "path", path, "error", err)
			result.Errors = append(result.Errors, err)
			return
		}
		r.logger.Info("Reformatted file", "check", check.Name(), "path", path)
	}

	r.collect(result, path, violations, modified)

	// Only settled outcomes are cached: a rewritten file changes content
	// and will be re-read next run anyway.
	if r.cache != nil && !modified {
		r.updateCache(check.Name(), path, violations)
	}
}

func (r *Runner) collect(result *Result, path string, violations []Violation, modified bool) {
	if modified {
		result.FilesFixed++
	}

	failing := false
	for _, v := range violations {
		result.Violations.Add(v)
		if !v.Fixed {
			failing = true
		}
	}
	if failing {
		result.FilesFailing++
	}

	for _, v := range violations {
		r.logger.Debug("Violation", "check", v.Check, "path", path, "line", v.Line, "message", v.Message, "fixed", v.Fixed)
	}
}

func (r *Runner) updateCache(checkName, path string, violations []Violation) {
	var err error
	if len(violations) == 0 {
		err = r.cache.AddFile(checkName, path)
	} else {
		err = r.cache.AddFileWithViolations(checkName, path, violations)
	}
	if err != nil {
		r.logger.Warn("Failed to update cache for file", "path", path, "error", err)
	}
}
