// Package service runs a timesheet photo through recognition, parsing, day
// assignment, reconciliation and form filling. It is the layer the CLI talks
// to.
package service

import (
	"fmt"
	"time"

	"github.com/xolan/timecard/internal/entry"
	"github.com/xolan/timecard/internal/sheet"
	"github.com/xolan/timecard/internal/timeutil"
	"github.com/xolan/timecard/internal/week"
)

// Stage is a step of a run. Stages only move forward.
type Stage int

const (
	StageNew Stage = iota
	StageIngested
	StageParsed
	StageAssigned
	StageReconciled
	StageBuilt
	StageExported
)

var stageNames = [...]string{"new", "ingested", "parsed", "assigned", "reconciled", "built", "exported"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Request describes one timesheet to process.
type Request struct {
	// ID names the run in logs and results (usually the input file name).
	ID string
	// Data is the photo, or the transcription for the text and JSON engines.
	Data []byte
	// WeekStart is the Monday of the week. Zero derives it from the dates
	// written on the sheet.
	WeekStart timeutil.Date
	// Reference resolves dates written without a year. Zero means today.
	Reference timeutil.Date
	// Month is the month the sheet was written in, in Reference's year. Bare
	// days of the month ("4 - 9 to 3pm") resolve around its middle. Zero uses
	// Reference.
	Month time.Month
	// Handwritten overrides the total read from the sheet.
	Handwritten *float64
}

// Result is everything a run produced, up to the stage it reached.
type Result struct {
	ID      string
	Stage   Stage
	Entries []entry.TimeEntry
	Week    week.WeekRecord
	Sheet   sheet.Sheet
}

// RunError is a failure that stopped a run before Stage was reached.
type RunError struct {
	ID    string
	Stage Stage
	Err   error
}

func (e *RunError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %s stage failed: %v", e.ID, e.Stage, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
