package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"cinder/internal/ast"
)

// ErrorLevel represents the severity of a diagnostic
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
)

// CompilerError is a user-facing diagnostic. Diagnostics accumulate; they
// never abort the middle end, which keeps operating on whatever tree the
// front end produced.
type CompilerError struct {
	Level    ErrorLevel
	Code     string // Error code like E0001
	Message  string
	Position ast.Position
	Length   int // Length of the problematic region
	Notes    []string
}

// ErrorReporter handles consistent diagnostic formatting for one file
type ErrorReporter struct {
	filename string
	lines    []string
	errors   int
	warnings int
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// Errors returns the number of error-level diagnostics formatted so far.
func (er *ErrorReporter) Errors() int { return er.errors }

// Warnings returns the number of warning-level diagnostics formatted so far.
func (er *ErrorReporter) Warnings() int { return er.warnings }

// FormatError formats a diagnostic with Rust-like caret styling.
func (er *ErrorReporter) FormatError(err CompilerError) string {
	switch err.Level {
	case Warning:
		er.warnings++
	case Error:
		er.errors++
	}

	var result strings.Builder

	levelColor := er.getLevelColor(err.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	// Header: error[E0001]: message
	if err.Code != "" {
		result.WriteString(fmt.Sprintf("%s[%s]: %s\n",
			levelColor(string(err.Level)), err.Code, err.Message))
	} else {
		result.WriteString(fmt.Sprintf("%s: %s\n",
			levelColor(string(err.Level)), err.Message))
	}

	// Location line: --> filename:line:column
	lineNumberWidth := er.getLineNumberWidth(err.Position.Line)
	indent := strings.Repeat(" ", lineNumberWidth)

	result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n",
		indent, dim("-->"), er.filename, err.Position.Line, err.Position.Column))

	// Offending line plus marker
	if err.Position.Line > 0 && err.Position.Line <= len(er.lines) {
		result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			bold(fmt.Sprintf("%*d", lineNumberWidth, err.Position.Line)),
			dim("│"),
			er.lines[err.Position.Line-1]))
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			indent, dim("│"), er.createMarker(err.Position.Column, err.Length, err.Level)))
	}

	for _, note := range err.Notes {
		noteColor := color.New(color.FgBlue).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n",
			indent, dim("│"), noteColor("note:"), note))
	}

	result.WriteString("\n")
	return result.String()
}

// getLevelColor returns the appropriate color function for an error level
func (er *ErrorReporter) getLevelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// createMarker creates the underline marker for errors
func (er *ErrorReporter) createMarker(column, length int, level ErrorLevel) string {
	if length <= 0 {
		length = 1
	}

	spaces := strings.Repeat(" ", max(0, column-1))

	markerColor := color.New(color.FgRed, color.Bold).SprintFunc()
	if level == Warning {
		markerColor = color.New(color.FgYellow, color.Bold).SprintFunc()
	}

	return spaces + markerColor(strings.Repeat("^", length))
}

// getLineNumberWidth calculates the width needed for line numbers
func (er *ErrorReporter) getLineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3 // minimum width for visual alignment
	}
	return width
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
