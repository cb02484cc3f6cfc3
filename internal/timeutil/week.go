package timeutil

import "time"

// StartOfDay returns midnight (00:00:00) of the given day in the same timezone
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns Monday 00:00:00 of the week containing the given time (ISO standard)
// Handles the Sunday edge case where Go's Weekday() returns 0
func StartOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	return StartOfDay(t).AddDate(0, 0, -(weekday - 1))
}

// MondayOf returns the Monday of the ISO week containing d.
func MondayOf(d Date) Date {
	return DateOf(StartOfWeek(d.Time()))
}

// WeekDates returns the seven dates of the week starting at monday.
func WeekDates(monday Date) []Date {
	dates := make([]Date, 7)
	for i := range dates {
		dates[i] = monday.AddDays(i)
	}
	return dates
}

// NearestYear resolves a month/day written without a year to the year that
// places it closest to ref. Handwritten weeks that start in late December run
// into January, so the reference year alone is not enough.
// ok is false when the month/day is not a valid date in any candidate year.
func NearestYear(month time.Month, day int, ref Date) (Date, bool) {
	var best Date
	found := false
	bestDist := 0
	for _, y := range []int{ref.Year - 1, ref.Year, ref.Year + 1} {
		if !IsValidDate(y, month, day) {
			continue
		}
		d := Date{Year: y, Month: month, Day: day}
		dist := d.DaysSince(ref)
		if dist < 0 {
			dist = -dist
		}
		if !found || dist < bestDist {
			best, bestDist, found = d, dist, true
		}
	}
	return best, found
}

// NearestDay resolves a day of the month written without a month to the
// date closest to ref, looking at ref's month and the months either side.
// ok is false when no nearby month has that day.
func NearestDay(day int, ref Date) (Date, bool) {
	var best Date
	found := false
	bestDist := 0
	first := time.Date(ref.Year, ref.Month, 1, 0, 0, 0, 0, time.UTC)
	for _, offset := range []int{-1, 0, 1} {
		m := first.AddDate(0, offset, 0)
		if !IsValidDate(m.Year(), m.Month(), day) {
			continue
		}
		d := Date{Year: m.Year(), Month: m.Month(), Day: day}
		dist := d.DaysSince(ref)
		if dist < 0 {
			dist = -dist
		}
		if !found || dist < bestDist {
			best, bestDist, found = d, dist, true
		}
	}
	return best, found
}
