package week

import (
	"math"

	"github.com/xolan/timecard/internal/entry"
)

// DefaultTolerance is the largest difference, in hours, between the
// handwritten and computed totals that is not flagged.
const DefaultTolerance = 0.01

// toleranceEpsilon absorbs float noise in the difference (22 - 21.99).
const toleranceEpsilon = 1e-9

// Reconcile computes the week's total from its days and compares it with the
// handwritten total. The total is the sum of the hours entered on each row, so
// the printed rows always add up to it. Days without an entry count as zero.
// Without a
// handwritten total the comparison is skipped: Mismatch is false and
// Difference is nil. The input is not modified.
func Reconcile(w WeekRecord, tolerance float64) WeekRecord {
	out := w
	out.Days = make([]DayRecord, len(w.Days))
	copy(out.Days, w.Days)
	out.Warnings = make([]Warning, len(w.Warnings), len(w.Warnings)+len(w.Days)+1)
	copy(out.Warnings, w.Warnings)

	minutes, hundredths := 0, 0
	for _, d := range out.Days {
		minutes += d.Minutes()
		hundredths += d.Hundredths()
		if d.Entry != nil && d.Entry.WrittenMismatch() {
			out.Warnings = append(out.Warnings, warn(CodeDailyTotalMismatch, d.Entry.Source.Index,
				"%s: %gh written but %s is %sh; using %sh",
				d.Date, *d.Entry.Written, spanText(d.Entry), entry.FormatHours(d.Entry.Minutes), entry.FormatHundredths(d.Entry.Hundredths)))
		}
	}

	out.ComputedMinutes = minutes
	out.ComputedHundredths = hundredths
	out.Computed = float64(hundredths) / 100
	out.Mismatch = false
	out.Difference = nil

	if w.Handwritten != nil {
		diff := *w.Handwritten - out.Computed
		rounded := math.Round(diff*100) / 100
		out.Difference = &rounded
		out.Mismatch = math.Abs(diff) > tolerance+toleranceEpsilon
		if out.Mismatch {
			out.Warnings = append(out.Warnings, warn(CodeTotalMismatch, -1,
				"handwritten total %sh, computed %sh (difference %+gh)",
				formatHours(*w.Handwritten), entry.FormatHundredths(hundredths), rounded))
		}
	}
	return out
}

func spanText(e *entry.TimeEntry) string {
	if e.Start == nil || e.End == nil {
		return "the entry"
	}
	return e.Start.String() + "-" + e.End.String()
}

func formatHours(h float64) string {
	return entry.FormatHundredths(entry.HundredthsOfHours(h))
}
