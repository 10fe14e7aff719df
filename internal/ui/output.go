package ui

import (
	"fmt"
	"strings"
)

// Status glyphs prefixed to human-readable result lines.
const (
	glyphOK   = "✓"
	glyphFail = "✗"
	glyphWarn = "⚠"
	glyphInfo = "ℹ"
)

// Check marks msg as a completed action.
func Check(msg string) string { return glyphOK + " " + msg }

// Checkf is Check with Sprintf formatting.
func Checkf(format string, args ...interface{}) string {
	return Check(fmt.Sprintf(format, args...))
}

// Error marks msg as a failure.
func Error(msg string) string { return glyphFail + " " + msg }

// Errorf is Error with Sprintf formatting.
func Errorf(format string, args ...interface{}) string {
	return Error(fmt.Sprintf(format, args...))
}

// Warning marks msg as a non-fatal problem.
func Warning(msg string) string { return glyphWarn + " " + msg }

// Warningf is Warning with Sprintf formatting.
func Warningf(format string, args ...interface{}) string {
	return Warning(fmt.Sprintf(format, args...))
}

// Info marks msg as a neutral notice.
func Info(msg string) string { return glyphInfo + " " + msg }

// Infof is Info with Sprintf formatting.
func Infof(format string, args ...interface{}) string {
	return Info(fmt.Sprintf(format, args...))
}

// Header returns msg in bold.
func Header(msg string) string {
	return Bold.Render(msg)
}

// SectionHeader returns a bold header over a muted underline row.
func SectionHeader(msg string) string {
	return Bold.Render(msg) + "\n" + Muted.Render(strings.Repeat("─", len([]rune(msg))))
}

// FilePath styles a catalog path with the accent color.
func FilePath(path string) string {
	return Accent.Render(path)
}

// Selector styles a record selector or folder path with the accent color.
func Selector(sel string) string {
	return Accent.Render(sel)
}

// Hint returns muted hint text, used for next-step suggestions.
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Bullet returns msg as an indented list item.
func Bullet(msg string) string {
	return "  • " + msg
}

// Count formats a parenthesized count with the right plural form,
// e.g. "(3 records)".
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("(%d %s)", n, singular)
	}
	return fmt.Sprintf("(%d %s)", n, plural)
}

// ErrorWarningCounts summarizes check results, e.g. "(3 errors, 2 warnings)".
// Zero counts are omitted; at least one of the two should be nonzero.
func ErrorWarningCounts(errors, warnings int) string {
	if errors > 0 && warnings > 0 {
		return fmt.Sprintf("(%d %s, %d %s)",
			errors, Pluralize("error", errors),
			warnings, Pluralize("warning", warnings))
	}
	if errors > 0 {
		return Count(errors, "error", "errors")
	}
	return Count(warnings, "warning", "warnings")
}

// Pluralize naively appends "s" when count is not one.
func Pluralize(singular string, count int) string {
	if count == 1 {
		return singular
	}
	return singular + "s"
}
