package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xolan/timecard/internal/entry"
	"github.com/xolan/timecard/internal/sheet"
	"github.com/xolan/timecard/internal/timeutil"
	"github.com/xolan/timecard/internal/week"
)

func buildSheet(t *testing.T, handwritten *float64, texts ...string) sheet.Sheet {
	t.Helper()
	p := entry.NewParser(entry.DefaultOptions())
	var entries []entry.TimeEntry
	for i, text := range texts {
		e, _ := p.ParseEntry(entry.RawEntry{Index: i, Text: text, Confidence: 1})
		entries = append(entries, e)
	}
	start := timeutil.Date{Year: 2025, Month: time.July, Day: 28}
	s, err := sheet.Build(week.Reconcile(week.New(week.Assign(start, entries), handwritten), week.DefaultTolerance))
	if err != nil {
		t.Fatalf("Build returned unexpected error: %v", err)
	}
	return s
}

func TestRenderSummary(t *testing.T) {
	forty := 40.0
	var buf bytes.Buffer
	RenderSummary(&buf, buildSheet(t, &forty, "8-4", "8-4", "8-4", "8-4", "8-4", "", ""))

	out := buf.String()
	for _, want := range []string{
		"Time card: Jul 28 - Aug 3, 2025",
		"Mon   07/28/2025  8:00 AM   4:00 PM         8",
		"Sun   08/03/2025",
		"Handwritten total 40 matches",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("summary written to a buffer should not contain escape codes:\n%q", out)
	}
}

func TestRenderSummary_Mismatch(t *testing.T) {
	fortyTwo := 42.0
	var buf bytes.Buffer
	RenderSummary(&buf, buildSheet(t, &fortyTwo, "8-4", "8-4", "8-4", "8-4", "8-4", "", ""))

	out := buf.String()
	if !strings.Contains(out, "Handwritten total 42 does not match (difference +2h)") {
		t.Errorf("summary should report the mismatch:\n%s", out)
	}
	if !strings.Contains(out, "1 warning reported") {
		t.Errorf("summary should count warnings:\n%s", out)
	}
}

func TestRenderSummary_UnreadableAndNoTotal(t *testing.T) {
	var buf bytes.Buffer
	RenderSummary(&buf, buildSheet(t, nil, "8-4", "smudge", "", "", "", "", ""))

	out := buf.String()
	if !strings.Contains(out, "Tue   07/29/2025                            ?") {
		t.Errorf("unreadable day should show ?:\n%s", out)
	}
	if !strings.Contains(out, "No handwritten total to compare") {
		t.Errorf("summary should say there is no handwritten total:\n%s", out)
	}
}

func TestRenderSummary_RoundedRows(t *testing.T) {
	twentyTwo := 22.0
	var buf bytes.Buffer
	RenderSummary(&buf, buildSheet(t, &twentyTwo, "8-3:20", "8-3:20", "8-3:20", "", "", "", ""))

	out := buf.String()
	for _, want := range []string{
		"7.33",
		"21.99",
		"Rows are entered to the hundredth of an hour; clock time is 22h",
		"Handwritten total 22 matches",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummary_ExactRowsHaveNoNote(t *testing.T) {
	var buf bytes.Buffer
	RenderSummary(&buf, buildSheet(t, nil, "8-4", "7.5"))
	if strings.Contains(buf.String(), "clock time") {
		t.Errorf("rows that convert exactly should not get a rounding note:\n%s", buf.String())
	}
}
