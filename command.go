package cstyle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// commandFlags holds the flag values shared by every check command
type commandFlags struct {
	cfgFile      string
	fix          bool
	verbose      bool
	outputFormat string
	outputFile   string
	groupByCheck bool
	colorMode    string
}

func (f *commandFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.cfgFile, "config", "", "config file")
	cmd.Flags().BoolVar(&f.fix, "fix", false, "rewrite files to correct fixable violations")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "enable verbose logging")
	cmd.Flags().StringVar(&f.outputFormat, "output", "text", "output format: text, json, checkstyle")
	cmd.Flags().StringVar(&f.outputFile, "output-file", "", "write output to file instead of stdout")
	cmd.Flags().BoolVar(&f.groupByCheck, "group-by-check", false, "group violations by check instead of by file")
	cmd.Flags().StringVar(&f.colorMode, "color", "auto", "colorize output: auto, always, never")
}

// NewCheckCommand builds a cobra command that runs the selected checks over
// the files given as arguments. With no arguments it walks the working
// directory for files carrying the configured extensions. A run with any
// violation, including auto-fixed ones, exits non-zero so a pre-commit hook
// aborts the commit and the developer re-stages the rewritten files.
func NewCheckCommand(use, short, long string, selectChecks func(Config) []Check) *cobra.Command {
	flags := &commandFlags{}

	cmd := &cobra.Command{
		Use:           use + " [files...]",
		Short:         short,
		Long:          long,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecks(flags, selectChecks, args)
		},
	}
	flags.register(cmd)

	return cmd
}

func runChecks(flags *commandFlags, selectChecks func(Config) []Check, args []string) error {
	logger := setupLogger(flags.verbose)
	fs := afero.NewOsFs()

	cfg, err := LoadConfig(fs, ".", flags.cfgFile)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		return err
	}

	runner, err := NewRunner(cfg, logger, fs, WithFix(flags.fix))
	if err != nil {
		logger.Error("Failed to initialize runner", "error", err)
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths, err = CollectSourceFiles(fs, ".", cfg)
		if err != nil {
			return err
		}
	}

	start := time.Now()
	result := runner.RunAll(selectChecks(cfg), paths)
	logger.Debug("Checks complete", "duration", time.Since(start), "files", result.FilesExamined)

	if err := outputResult(result, &cfg, flags, logger); err != nil {
		return err
	}

	if !result.Passed() {
		return ErrChecksFailed
	}
	return nil
}

func outputResult(result *Result, cfg *Config, flags *commandFlags, logger *slog.Logger) error {
	var formatter Formatter

	if OutputFormat(flags.outputFormat) == FormatText && flags.outputFile == "" {
		text := NewTextFormatter()
		text.ColorMode = ColorMode(flags.colorMode)
		text.GroupByCheck = flags.groupByCheck
		formatter = text
	} else {
		f, err := NewFormatter(OutputFormat(flags.outputFormat))
		if err != nil {
			return err
		}
		if tf, ok := f.(*TextFormatter); ok {
			tf.GroupByCheck = flags.groupByCheck
		}
		formatter = f
	}

	output, err := formatter.Format(result, cfg)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if flags.outputFile != "" {
		if err := os.WriteFile(flags.outputFile, output, 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("Output written to file", "file", flags.outputFile)
	} else {
		fmt.Print(string(output))
	}

	return nil
}

// NewWatchCommand builds the watch subcommand for continuous checking
func NewWatchCommand() *cobra.Command {
	var (
		cfgFile      string
		groupByCheck bool
		debounceMs   int
	)

	cmd := &cobra.Command{
		Use:          "watch [path]",
		Short:        "Watch a directory and re-run all checks on change",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}

			wm, err := NewWatchMode(WatchConfig{
				Path:         path,
				ConfigPath:   cfgFile,
				DebounceTime: time.Duration(debounceMs) * time.Millisecond,
				GroupByCheck: groupByCheck,
			})
			if err != nil {
				return err
			}
			defer wm.Stop()

			return wm.Start(cmd.Context(), path)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file")
	cmd.Flags().BoolVar(&groupByCheck, "group-by-check", false, "group violations by check instead of by file")
	cmd.Flags().IntVar(&debounceMs, "debounce", 100, "debounce window in milliseconds")

	return cmd
}

// Execute runs a command through fang and exits non-zero on failure.
// Failed checks exit quietly: the formatter already printed the violations.
func Execute(cmd *cobra.Command) {
	if err := fang.Execute(context.Background(), cmd); err != nil {
		if errors.Is(err, ErrChecksFailed) {
			os.Exit(1)
		}
		handleError(err)
	}
}

func setupLogger(verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	if verbose {
		// When verbose is true, log to stderr for better visibility
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
	}

	// Otherwise, log to file so hook output stays clean
	logFile, err := setupLogFile()
	if err != nil {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
		logger.Error("Failed to set up log file, falling back to stderr", "error", err)
		return logger
	}

	return slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

func setupLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cstyleDir := JoinPaths(home, ".cstyle")
	if err := os.MkdirAll(cstyleDir, 0o755); err != nil {
		return nil, err
	}

	logFile := JoinPaths(cstyleDir, "cstyle.log")
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	return file, nil
}

func handleError(err error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	appErr, found := GetErrorInfo(err)
	if found {
		if appErr.Details != "" {
			logger.Error("Additional details", "details", appErr.Details)
		}
		if appErr.File != "" {
			logger.Error("File information", "file", appErr.File)
		}
	}
	logger.Error("Command failed", "error", err)
	os.Exit(1)
}
