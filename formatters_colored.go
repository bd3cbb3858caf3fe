package cstyle

// This file contains the enhanced text formatter with color support

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// ColorMode represents when to use colors in output
type ColorMode string

const (
	// ColorAuto automatically detects TTY and enables colors appropriately
	ColorAuto ColorMode = "auto"
	// ColorAlways forces colors to be enabled
	ColorAlways ColorMode = "always"
	// ColorNever disables colors
	ColorNever ColorMode = "never"
)

// EnhancedTextFormatter outputs violations with ANSI colors
type EnhancedTextFormatter struct {
	// ColorMode controls when to enable colors (auto, always, never)
	ColorMode ColorMode
	// GroupByCheck when true groups violations by check instead of file
	GroupByCheck bool
	// Writer is the output destination (defaults to os.Stdout)
	Writer io.Writer
}

// NewTextFormatter creates a new EnhancedTextFormatter with sensible defaults
func NewTextFormatter() *EnhancedTextFormatter {
	return &EnhancedTextFormatter{
		ColorMode:    ColorAuto,
		GroupByCheck: false,
		Writer:       os.Stdout,
	}
}

func (f *EnhancedTextFormatter) Format(result *Result, cfg *Config) ([]byte, error) {
	if !f.shouldEnableColor() {
		plain := &TextFormatter{GroupByCheck: f.GroupByCheck}
		return plain.Format(result, cfg)
	}

	var sb strings.Builder
	sb.WriteString(f.formatWithColors(result))
	return []byte(sb.String()), nil
}

func (f *EnhancedTextFormatter) ContentType() string {
	return "text/plain"
}

// shouldEnableColor determines if colors should be enabled based on the ColorMode
func (f *EnhancedTextFormatter) shouldEnableColor() bool {
	switch f.ColorMode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		writer := f.Writer
		if writer == nil {
			writer = os.Stdout
		}

		// Colors only when writing to a terminal
		if file, ok := writer.(*os.File); ok {
			fileInfo, err := file.Stat()
			if err != nil {
				return false
			}
			return (fileInfo.Mode() & os.ModeCharDevice) != 0
		}
		return false
	default:
		return false
	}
}

func (f *EnhancedTextFormatter) formatWithColors(result *Result) string {
	var sb strings.Builder

	errorColor := color.New(color.FgRed, color.Bold)
	warningColor := color.New(color.FgYellow, color.Bold)
	infoColor := color.New(color.FgBlue, color.Bold)
	fileColor := color.New(color.FgCyan, color.Bold)
	checkColor := color.New(color.FgYellow)
	fixedColor := color.New(color.FgGreen)
	successColor := color.New(color.FgGreen, color.Bold)

	if result.Violations.IsEmpty() {
		sb.WriteString(successColor.Sprint("No style violations found"))
		sb.WriteString("\n")
		sb.WriteString(color.HiBlackString(result.Summary()))
		sb.WriteString("\n")
		return sb.String()
	}

	total := len(result.Violations.Violations)
	sb.WriteString(errorColor.Sprintf("Found %d style violations", total))
	sb.WriteString("\n\n")

	if f.GroupByCheck {
		f.formatByCheck(&sb, result.Violations, errorColor, warningColor, infoColor, fileColor, checkColor, fixedColor)
	} else {
		f.formatByFile(&sb, result.Violations, errorColor, warningColor, infoColor, fileColor, checkColor, fixedColor)
	}

	sb.WriteString(color.HiBlackString(result.Summary()))
	sb.WriteString("\n")

	return sb.String()
}

// formatByFile groups violations by file
func (f *EnhancedTextFormatter) formatByFile(sb *strings.Builder, violations *Violations,
	errorColor, warningColor, infoColor, fileColor, checkColor, fixedColor *color.Color,
) {
	fileViolations := make(map[string][]Violation)
	for _, v := range violations.Violations {
		fileViolations[v.File] = append(fileViolations[v.File], v)
	}

	for _, file := range sortedKeys(fileViolations) {
		viols := fileViolations[file]
		sb.WriteString(fileColor.Sprint(file))
		sb.WriteString(color.HiBlackString(" (%d violations)", len(viols)))
		sb.WriteString("\n")

		for _, v := range viols {
			f.formatViolation(sb, &v, errorColor, warningColor, infoColor, checkColor, fixedColor, false)
		}

		sb.WriteString("\n")
	}
}

// formatByCheck groups violations by check
func (f *EnhancedTextFormatter) formatByCheck(sb *strings.Builder, violations *Violations,
	errorColor, warningColor, infoColor, fileColor, checkColor, fixedColor *color.Color,
) {
	checkViolations := make(map[string][]Violation)
	for _, v := range violations.Violations {
		checkViolations[v.Check] = append(checkViolations[v.Check], v)
	}

	for _, check := range sortedKeys(checkViolations) {
		viols := checkViolations[check]
		sb.WriteString(checkColor.Sprint(check))
		sb.WriteString(color.HiBlackString(" (%d violations)", len(viols)))
		sb.WriteString("\n")

		for _, v := range viols {
			f.formatViolation(sb, &v, errorColor, warningColor, infoColor, fileColor, fixedColor, true)
		}

		sb.WriteString("\n")
	}
}

// formatViolation formats a single violation with colors
func (f *EnhancedTextFormatter) formatViolation(sb *strings.Builder, v *Violation,
	errorColor, warningColor, infoColor, labelColor, fixedColor *color.Color, showFile bool,
) {
	severity := v.Severity
	if severity == "" {
		severity = SeverityError
	}

	var severityColor *color.Color
	switch severity {
	case SeverityWarning:
		severityColor = warningColor
	case SeverityInfo:
		severityColor = infoColor
	default:
		severityColor = errorColor
	}

	sb.WriteString("  ")
	if v.Fixed {
		sb.WriteString(fixedColor.Sprint("reformatted"))
	} else {
		sb.WriteString(severityColor.Sprint(string(severity)))
	}
	sb.WriteString(" ")

	if showFile {
		sb.WriteString(labelColor.Sprint(v.File))
	} else {
		sb.WriteString(labelColor.Sprint(v.Check))
	}

	if v.Line > 0 {
		sb.WriteString(color.HiBlackString(" line %d", v.Line))
	}
	if v.Cached {
		sb.WriteString(color.HiBlackString(" (cached)"))
	}
	sb.WriteString("\n")

	sb.WriteString("    ")
	sb.WriteString(v.Message)
	sb.WriteString("\n")

	if !v.Fixed && !v.Fixable {
		sb.WriteString("    ")
		sb.WriteString(color.HiBlackString("not auto-fixable, edit the file by hand"))
		sb.WriteString("\n")
	}
}
