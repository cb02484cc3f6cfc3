package week

import (
	"github.com/xolan/timecard/internal/entry"
	"github.com/xolan/timecard/internal/timeutil"
)

// Assignment is the outcome of placing entries on a week.
type Assignment struct {
	Start    timeutil.Date
	Days     []DayRecord
	Warnings []Warning
}

// Assign places entries, in their handwritten top-to-bottom order, on the
// seven days of the week beginning at start. It always returns exactly seven
// DayRecords.
//
// Entries are placed by position (Nth entry on the Nth weekday) unless a line
// carries an anchor: a date wins over a weekday label, which wins over
// position. An unanchored line after an anchored one goes on the following day.
// Problems are reported as warnings and never abort the assignment.
func Assign(start timeutil.Date, entries []entry.TimeEntry) Assignment {
	a := Assignment{Start: start}
	if monday := timeutil.MondayOf(start); monday != start {
		a.Warnings = append(a.Warnings, warn(CodeDateRangeAmbiguous, -1,
			"week start %s is a %s; using Monday %s", start, start.Weekday(), monday))
		a.Start = monday
	}

	a.Days = make([]DayRecord, DaysPerWeek)
	for i, d := range timeutil.WeekDates(a.Start) {
		a.Days[i] = DayRecord{Date: d, Weekday: i + 1, Status: StatusOff}
	}

	anchored := false
	for _, e := range entries {
		if e.Anchored() {
			anchored = true
			break
		}
	}

	if anchored {
		a.placeAnchored(entries)
	} else {
		a.placePositional(entries)
	}
	return a
}

func (a *Assignment) placePositional(entries []entry.TimeEntry) {
	if len(entries) != DaysPerWeek {
		a.Warnings = append(a.Warnings, warn(CodeDateRangeAmbiguous, -1,
			"%d lines and no date column; assigning Monday onward by position", len(entries)))
	}
	for i, e := range entries {
		if i >= DaysPerWeek {
			a.outOfRange(e, "line %d has no day left in the week", i+1)
			continue
		}
		a.place(i, e)
	}
}

func (a *Assignment) placeAnchored(entries []entry.TimeEntry) {
	next := 0
	for _, e := range entries {
		var slot int
		switch {
		case e.Date != nil:
			d, ok := a.resolve(*e.Date)
			if !ok && e.Date.DayOnly() {
				a.outOfRange(e, "%s is not in the week %s to %s", e.Date, a.Start, a.Start.AddDays(DaysPerWeek-1))
				continue
			}
			if !ok {
				a.outOfRange(e, "%s is not a calendar date", e.Date)
				continue
			}
			slot = d.DaysSince(a.Start)
			if e.Weekday != 0 && e.Weekday != d.ISOWeekday() {
				a.Warnings = append(a.Warnings, warn(CodeDateRangeAmbiguous, e.Source.Index,
					"%s is a %s but the line is labelled %s; using the date", e.Date, d.Weekday(), isoWeekdayName(e.Weekday)))
			}
			if slot < 0 || slot >= DaysPerWeek {
				a.outOfRange(e, "%s falls outside %s to %s", d, a.Start, a.Start.AddDays(DaysPerWeek-1))
				continue
			}
		case e.Weekday != 0:
			slot = e.Weekday - 1
		default:
			slot = next
			if slot >= DaysPerWeek {
				a.outOfRange(e, "line follows Sunday")
				continue
			}
		}
		a.place(slot, e)
		next = slot + 1
	}
}

// resolve turns a written date into an absolute one. A missing year is the
// one that puts the date nearest the week. A bare day of the month is the
// day of the week that falls on it.
func (a *Assignment) resolve(mark entry.DateMark) (timeutil.Date, bool) {
	if mark.DayOnly() {
		for _, d := range timeutil.WeekDates(a.Start) {
			if d.Day == mark.Day {
				return d, true
			}
		}
		return timeutil.Date{}, false
	}
	if mark.Year != 0 {
		if !timeutil.IsValidDate(mark.Year, mark.Month, mark.Day) {
			return timeutil.Date{}, false
		}
		return timeutil.Date{Year: mark.Year, Month: mark.Month, Day: mark.Day}, true
	}
	return timeutil.NearestYear(mark.Month, mark.Day, a.Start.AddDays(3))
}

func (a *Assignment) place(slot int, e entry.TimeEntry) {
	day := &a.Days[slot]
	if e.Kind == entry.KindBlank {
		return
	}
	if day.Status != StatusOff {
		a.Warnings = append(a.Warnings, warn(CodeDuplicateDay, e.Source.Index,
			"%s %s already has an entry; ignoring %q", isoWeekdayName(day.Weekday), day.Date, e.Source.Text))
		return
	}
	if e.Kind == entry.KindUnreadable {
		day.Status = StatusUnreadable
		return
	}
	entryCopy := e
	day.Entry = &entryCopy
	day.Status = StatusWorked
}

// outOfRange reports an entry with no day to go on. Blank lines past the end
// of the sheet are expected and not reported.
func (a *Assignment) outOfRange(e entry.TimeEntry, format string, args ...any) {
	if e.Kind == entry.KindBlank {
		return
	}
	a.Warnings = append(a.Warnings, warn(CodeOutOfWeekRange, e.Source.Index, format, args...))
}

// DetectWeekStart returns the Monday of the earliest dated line. Dates
// without a year are resolved against ref. Bare days of the month are used
// only when no line has a full date: the first one is taken as the date
// nearest ref. ok is false when no line carries a usable date.
func DetectWeekStart(entries []entry.TimeEntry, ref timeutil.Date) (timeutil.Date, bool) {
	var earliest timeutil.Date
	found := false
	for _, e := range entries {
		if e.Date == nil || e.Date.DayOnly() {
			continue
		}
		var d timeutil.Date
		if e.Date.Year != 0 {
			if !timeutil.IsValidDate(e.Date.Year, e.Date.Month, e.Date.Day) {
				continue
			}
			d = timeutil.Date{Year: e.Date.Year, Month: e.Date.Month, Day: e.Date.Day}
		} else {
			var ok bool
			if d, ok = timeutil.NearestYear(e.Date.Month, e.Date.Day, ref); !ok {
				continue
			}
		}
		if !found || d.Before(earliest) {
			earliest, found = d, true
		}
	}
	if found {
		return timeutil.MondayOf(earliest), true
	}
	for _, e := range entries {
		if e.Date == nil || !e.Date.DayOnly() {
			continue
		}
		if d, ok := timeutil.NearestDay(e.Date.Day, ref); ok {
			return timeutil.MondayOf(d), true
		}
	}
	return timeutil.Date{}, false
}

var isoWeekdayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func isoWeekdayName(wd int) string {
	if wd < 1 || wd > 7 {
		return "?"
	}
	return isoWeekdayNames[wd]
}
