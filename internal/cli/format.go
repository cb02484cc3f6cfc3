// Package cli provides the CLI presentation layer for the timecard application.
// It handles command-line output formatting.
package cli

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"
	"github.com/xolan/timecard/internal/timeutil"
	"github.com/xolan/timecard/internal/week"
)

// FormatDuration formats minutes as a human-readable string
// Examples: "30m", "2h", "1h 30m"
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// FormatDateRangeForDisplay formats a date range for human-readable display.
func FormatDateRangeForDisplay(start, end timeutil.Date) string {
	s, e := start.Time(), end.Time()
	if start == end {
		return s.Format("Mon, Jan 2, 2006")
	}
	if start.Year == end.Year {
		return fmt.Sprintf("%s - %s", s.Format("Jan 2"), e.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("%s - %s", s.Format("Jan 2, 2006"), e.Format("Jan 2, 2006"))
}

// maxWarningWidth is the widest a warning message may print, in cells.
const maxWarningWidth = 100

// FormatWarning formats a Warning for a "Warning:" line on stderr. Long
// messages are cut on a character boundary.
func FormatWarning(w week.Warning) string {
	msg := ansi.Truncate(w.Message, maxWarningWidth, "...")
	if w.Index < 0 {
		return fmt.Sprintf("%s: %s", w.Code, msg)
	}
	return fmt.Sprintf("%s on line %d: %s", w.Code, w.Index+1, msg)
}

// Pluralize returns the singular or plural form of a word based on count
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
