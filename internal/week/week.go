// Package week places parsed time entries on the days of a Monday to Sunday
// week and reconciles the week's totals.
package week

import (
	"errors"
	"fmt"

	"github.com/xolan/timecard/internal/entry"
	"github.com/xolan/timecard/internal/timeutil"
)

// DaysPerWeek is the number of DayRecords in a well-formed week.
const DaysPerWeek = 7

// Code identifies a recoverable problem found while processing a week.
type Code string

const (
	CodeUnparseableEntry   Code = "UnparseableEntry"
	CodeOutOfWeekRange     Code = "OutOfWeekRange"
	CodeDateRangeAmbiguous Code = "DateRangeAmbiguous"
	CodeDuplicateDay       Code = "DuplicateDay"
	CodeDailyTotalMismatch Code = "DailyTotalMismatch"
	CodeTotalMismatch      Code = "TotalMismatch"
)

// Warning is a recoverable problem attached to a week. Index is the source
// line it concerns, or -1 when it concerns the week as a whole.
type Warning struct {
	Code    Code   `json:"code"`
	Index   int    `json:"index"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Index < 0 {
		return fmt.Sprintf("%s: %s", w.Code, w.Message)
	}
	return fmt.Sprintf("%s (line %d): %s", w.Code, w.Index+1, w.Message)
}

func warn(code Code, index int, format string, args ...any) Warning {
	return Warning{Code: code, Index: index, Message: fmt.Sprintf(format, args...)}
}

// UnparseableWarning reports a line the parser gave up on. index is used
// when err does not carry its own line.
func UnparseableWarning(index int, err error) Warning {
	var ue *entry.UnparseableError
	if errors.As(err, &ue) {
		return warn(CodeUnparseableEntry, ue.Index, "%q: %s; day left unreadable", ue.Text, ue.Reason)
	}
	return warn(CodeUnparseableEntry, index, "%v", err)
}

// Status describes what a day holds.
type Status string

const (
	StatusWorked     Status = "worked"
	StatusOff        Status = "off"
	StatusUnreadable Status = "unreadable"
)

// DayRecord is one calendar day and the entry assigned to it, if any.
// A day without an entry is either unworked or unreadable.
type DayRecord struct {
	Date    timeutil.Date    `json:"date"`
	Weekday int              `json:"weekday"` // ISO: Monday=1..Sunday=7
	Entry   *entry.TimeEntry `json:"entry,omitempty"`
	Status  Status           `json:"status"`
}

// Minutes returns the time worked on the day.
func (d DayRecord) Minutes() int {
	if d.Entry == nil {
		return 0
	}
	return d.Entry.Minutes
}

// Hundredths returns the hours entered on the form for the day, in
// hundredths of an hour.
func (d DayRecord) Hundredths() int {
	if d.Entry == nil {
		return 0
	}
	return d.Entry.Hundredths
}

// WeekRecord is a full Monday to Sunday week with its totals.
//
// ComputedHundredths is the sum of the days' form hours and Computed is the
// same value in hours. ComputedMinutes is the clock time behind it.
type WeekRecord struct {
	Start              timeutil.Date `json:"start"`
	Days               []DayRecord   `json:"days"`
	Handwritten        *float64      `json:"handwritten,omitempty"`
	ComputedMinutes    int           `json:"computed_minutes"`
	ComputedHundredths int           `json:"computed_hundredths"`
	Computed           float64       `json:"computed"`
	Mismatch           bool          `json:"mismatch"`
	Difference         *float64      `json:"difference"`
	Warnings           []Warning     `json:"warnings"`
}

// End returns the Sunday closing the week.
func (w WeekRecord) End() timeutil.Date {
	return w.Start.AddDays(DaysPerWeek - 1)
}

// New assembles an unreconciled WeekRecord from an assignment.
func New(a Assignment, handwritten *float64) WeekRecord {
	warnings := make([]Warning, len(a.Warnings))
	copy(warnings, a.Warnings)
	return WeekRecord{
		Start:       a.Start,
		Days:        a.Days,
		Handwritten: handwritten,
		Warnings:    warnings,
	}
}
