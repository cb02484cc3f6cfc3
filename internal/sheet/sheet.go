// Package sheet builds the row structure a time card form is filled from.
package sheet

import (
	"errors"
	"fmt"

	"github.com/xolan/timecard/internal/entry"
	"github.com/xolan/timecard/internal/timeutil"
	"github.com/xolan/timecard/internal/week"
)

// ErrIncompleteWeek is returned when a week has fewer than seven days. It
// means the pipeline was wired wrong and aborts the run.
var ErrIncompleteWeek = errors.New("incomplete week")

// WeekdayLabels are the row labels printed on the agency form.
var WeekdayLabels = [week.DaysPerWeek]string{"Mon", "Tue", "Wed", "Thur", "Fri", "Sat", "Sun"}

// Row is one weekday line of the form. Start and End are blank when only a
// duration is known; every text field is blank on a day off. Hours is
// printed from Hundredths, so the printed rows add up to the printed total.
type Row struct {
	Label      string        `json:"label"`
	Date       timeutil.Date `json:"date"`
	Start      string        `json:"start"`
	End        string        `json:"end"`
	Hours      string        `json:"hours"`
	Hundredths int           `json:"hundredths"`
	Minutes    int           `json:"minutes"`
	Status     week.Status   `json:"status"`
}

// Sheet is the filled form. It is a snapshot: nothing in it points back
// into the WeekRecord it was built from.
type Sheet struct {
	From         timeutil.Date  `json:"from"`
	To           timeutil.Date  `json:"to"`
	Rows         []Row          `json:"rows"`
	Total        string         `json:"total"`
	TotalMinutes int            `json:"total_minutes"`
	Handwritten  *float64       `json:"handwritten,omitempty"`
	Mismatch     bool           `json:"mismatch"`
	Difference   *float64       `json:"difference"`
	Warnings     []week.Warning `json:"warnings"`
}

// Build turns a reconciled week into a Sheet.
func Build(w week.WeekRecord) (Sheet, error) {
	if len(w.Days) < week.DaysPerWeek {
		return Sheet{}, fmt.Errorf("%w: got %d day records, need %d", ErrIncompleteWeek, len(w.Days), week.DaysPerWeek)
	}

	s := Sheet{
		From:         w.Start,
		To:           w.End(),
		Rows:         make([]Row, week.DaysPerWeek),
		Total:        entry.FormatHundredths(w.ComputedHundredths),
		TotalMinutes: w.ComputedMinutes,
		Mismatch:     w.Mismatch,
		Handwritten:  copyFloat(w.Handwritten),
		Difference:   copyFloat(w.Difference),
		Warnings:     append([]week.Warning{}, w.Warnings...),
	}

	for i, d := range w.Days[:week.DaysPerWeek] {
		s.Rows[i] = buildRow(i, d)
	}
	return s, nil
}

func buildRow(i int, d week.DayRecord) Row {
	r := Row{Label: WeekdayLabels[i], Date: d.Date, Status: d.Status}
	if d.Entry == nil {
		return r
	}
	if d.Entry.Start != nil && d.Entry.End != nil {
		r.Start = d.Entry.Start.Format12()
		r.End = d.Entry.End.Format12()
	}
	r.Minutes = d.Entry.Minutes
	r.Hundredths = d.Entry.Hundredths
	r.Hours = entry.FormatHundredths(d.Entry.Hundredths)
	return r
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
