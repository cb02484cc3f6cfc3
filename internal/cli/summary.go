package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xolan/timecard/internal/entry"
	"github.com/xolan/timecard/internal/sheet"
	"github.com/xolan/timecard/internal/week"
)

// RenderSummary writes the filled rows of s and its totals to w.
func RenderSummary(w io.Writer, s sheet.Sheet) {
	st := NewStyles(w)

	_, _ = fmt.Fprintln(w, st.Title.Render("Time card: "+FormatDateRangeForDisplay(s.From, s.To)))
	_, _ = fmt.Fprintln(w)

	header := st.Label.Render("Day") + st.Date.Render("Date") + st.Time.Render("Start") + st.Time.Render("End") + st.Hours.Render("Hours")
	_, _ = fmt.Fprintln(w, st.Header.Render(header))
	_, _ = fmt.Fprintln(w, st.Muted.Render(strings.Repeat("-", 45)))

	for _, r := range s.Rows {
		hours := r.Hours
		if r.Status == week.StatusUnreadable {
			hours = "?"
		}
		line := st.Label.Render(r.Label) +
			st.Date.Render(r.Date.Format("01/02/2006")) +
			st.Time.Render(r.Start) +
			st.Time.Render(r.End) +
			st.Hours.Render(hours)
		_, _ = fmt.Fprintln(w, strings.TrimRight(line, " "))
	}

	_, _ = fmt.Fprintln(w, st.Muted.Render(strings.Repeat("-", 45)))
	total := st.Label.Render("Total") + strings.Repeat(" ", 32) + st.Total.Render(s.Total)
	_, _ = fmt.Fprintln(w, total)
	if entry.FormatHours(s.TotalMinutes) != s.Total {
		_, _ = fmt.Fprintln(w, st.Muted.Render(fmt.Sprintf("Rows are entered to the hundredth of an hour; clock time is %s", FormatDuration(s.TotalMinutes))))
	}

	switch {
	case s.Handwritten == nil:
		_, _ = fmt.Fprintln(w, st.Muted.Render("No handwritten total to compare"))
	case s.Mismatch:
		_, _ = fmt.Fprintln(w, st.Error.Render(fmt.Sprintf("Handwritten total %s does not match (difference %sh)",
			formatFloat(*s.Handwritten), signed(*s.Difference))))
	default:
		_, _ = fmt.Fprintln(w, st.Success.Render(fmt.Sprintf("Handwritten total %s matches", formatFloat(*s.Handwritten))))
	}

	if n := len(s.Warnings); n > 0 {
		_, _ = fmt.Fprintln(w, st.Warning.Render(fmt.Sprintf("%d %s reported", n, Pluralize("warning", n))))
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func signed(f float64) string {
	if f > 0 {
		return "+" + formatFloat(f)
	}
	return formatFloat(f)
}
