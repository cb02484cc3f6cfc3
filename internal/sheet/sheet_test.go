package sheet

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xolan/timecard/internal/entry"
	"github.com/xolan/timecard/internal/timeutil"
	"github.com/xolan/timecard/internal/week"
)

var july28 = timeutil.Date{Year: 2025, Month: time.July, Day: 28}

func buildWeek(t *testing.T, handwritten *float64, texts ...string) week.WeekRecord {
	t.Helper()
	p := entry.NewParser(entry.DefaultOptions())
	entries := make([]entry.TimeEntry, 0, len(texts))
	for i, text := range texts {
		e, _ := p.ParseEntry(entry.RawEntry{Index: i, Text: text, Confidence: 1})
		entries = append(entries, e)
	}
	return week.Reconcile(week.New(week.Assign(july28, entries), handwritten), week.DefaultTolerance)
}

func floatPtr(f float64) *float64 { return &f }

func TestBuild_Rows(t *testing.T) {
	s, err := Build(buildWeek(t, floatPtr(40), "8-4", "8-4", "8-4", "8-4", "8-4", "", ""))
	if err != nil {
		t.Fatalf("Build returned unexpected error: %v", err)
	}

	if len(s.Rows) != 7 {
		t.Fatalf("Build returned %d rows, expected 7", len(s.Rows))
	}
	if s.From != july28 || s.To != (timeutil.Date{Year: 2025, Month: time.August, Day: 3}) {
		t.Errorf("period = %v to %v, expected 2025-07-28 to 2025-08-03", s.From, s.To)
	}
	mon := s.Rows[0]
	if mon.Label != "Mon" || mon.Start != "8:00 AM" || mon.End != "4:00 PM" || mon.Hours != "8" {
		t.Errorf("Monday row = %+v", mon)
	}
	sun := s.Rows[6]
	if sun.Label != "Sun" || sun.Start != "" || sun.End != "" || sun.Hours != "" {
		t.Errorf("Sunday row should be blank, got %+v", sun)
	}
	if s.Total != "40" || s.Mismatch {
		t.Errorf("Total = %q, Mismatch = %v; expected \"40\", false", s.Total, s.Mismatch)
	}
}

func TestBuild_DurationOnlyRow(t *testing.T) {
	s, err := Build(buildWeek(t, nil, "7.5"))
	if err != nil {
		t.Fatalf("Build returned unexpected error: %v", err)
	}
	r := s.Rows[0]
	if r.Start != "" || r.End != "" || r.Hours != "7.5" {
		t.Errorf("duration-only row = %+v, expected blank start/end and 7.5 hours", r)
	}
}

func TestBuild_RowTotalsSumToComputed(t *testing.T) {
	weeks := [][]string{
		{"8-4", "8-4", "8-4", "8-4", "8-4", "", ""},
		{"7.5", "9 to 3pm", "8:00-16:20", "", "??", "7h10", "22:00-06:00"},
		{},
		{"7/30 6.33", "8/2 10-2"},
	}
	for _, texts := range weeks {
		w := buildWeek(t, floatPtr(40), texts...)
		s, err := Build(w)
		if err != nil {
			t.Fatalf("Build returned unexpected error: %v", err)
		}
		sum, hundredths := 0, 0
		for _, r := range s.Rows {
			sum += r.Minutes
			hundredths += r.Hundredths
		}
		if sum != w.ComputedMinutes || s.TotalMinutes != w.ComputedMinutes {
			t.Errorf("rows sum to %d minutes, sheet total %d, computed %d", sum, s.TotalMinutes, w.ComputedMinutes)
		}
		if hundredths != w.ComputedHundredths || s.Total != entry.FormatHundredths(hundredths) {
			t.Errorf("rows sum to %d hundredths, sheet total %q, computed %d", hundredths, s.Total, w.ComputedHundredths)
		}
	}
}

func TestBuild_PrintedRowsAddUp(t *testing.T) {
	s, err := Build(buildWeek(t, floatPtr(22), "8-3:20", "8-3:20", "8-3:20", "", "", "", ""))
	if err != nil {
		t.Fatalf("Build returned unexpected error: %v", err)
	}
	for _, r := range s.Rows[:3] {
		if r.Hours != "7.33" {
			t.Errorf("%s row hours = %q, expected %q", r.Label, r.Hours, "7.33")
		}
	}
	if s.Total != "21.99" {
		t.Errorf("Total = %q, expected the sum of the printed rows %q", s.Total, "21.99")
	}
	if s.Mismatch {
		t.Error("22 written against 21.99 printed is within tolerance")
	}
}

func TestBuild_WrittenDecimalHours(t *testing.T) {
	s, err := Build(buildWeek(t, nil, "7.51", "6.67"))
	if err != nil {
		t.Fatalf("Build returned unexpected error: %v", err)
	}
	if s.Rows[0].Hours != "7.51" || s.Rows[1].Hours != "6.67" {
		t.Errorf("rows = %q, %q; expected 7.51 and 6.67 as written", s.Rows[0].Hours, s.Rows[1].Hours)
	}
	if s.Total != "14.18" {
		t.Errorf("Total = %q, expected %q", s.Total, "14.18")
	}
}

func TestBuild_IncompleteWeek(t *testing.T) {
	w := buildWeek(t, nil, "8-4")
	w.Days = w.Days[:5]

	_, err := Build(w)
	if !errors.Is(err, ErrIncompleteWeek) {
		t.Fatalf("Build error = %v, expected ErrIncompleteWeek", err)
	}
	if !strings.Contains(err.Error(), "got 5 day records") {
		t.Errorf("error should say how many days were supplied, got %q", err.Error())
	}
}

func TestBuild_Snapshot(t *testing.T) {
	w := buildWeek(t, floatPtr(42), "8-4")
	s, err := Build(w)
	if err != nil {
		t.Fatalf("Build returned unexpected error: %v", err)
	}
	*w.Difference = 99
	w.Warnings[0].Message = "changed"
	if *s.Difference == 99 || s.Warnings[0].Message == "changed" {
		t.Error("Sheet should not share memory with the WeekRecord")
	}
}

func TestWriteJSON_Deterministic(t *testing.T) {
	build := func() []byte {
		s, err := Build(buildWeek(t, floatPtr(42), "8-4", "8-4", "8-4", "8-4", "8-4", "", ""))
		if err != nil {
			t.Fatalf("Build returned unexpected error: %v", err)
		}
		var buf bytes.Buffer
		if err := WriteJSON(&buf, s); err != nil {
			t.Fatalf("WriteJSON returned unexpected error: %v", err)
		}
		return buf.Bytes()
	}

	a, b := build(), build()
	if !bytes.Equal(a, b) {
		t.Error("WriteJSON output should be byte-identical for identical input")
	}

	var decoded map[string]any
	if err := json.Unmarshal(a, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["from"] != "2025-07-28" || decoded["difference"] != 2.0 || decoded["mismatch"] != true {
		t.Errorf("unexpected JSON fields: from=%v difference=%v mismatch=%v", decoded["from"], decoded["difference"], decoded["mismatch"])
	}
}

func TestWriteCSV(t *testing.T) {
	s, err := Build(buildWeek(t, floatPtr(42), "8-4", "7.5"))
	if err != nil {
		t.Fatalf("Build returned unexpected error: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, s); err != nil {
		t.Fatalf("WriteCSV returned unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 9 {
		t.Fatalf("expected header + 7 rows + total, got %d records", len(records))
	}
	if records[1][1] != "07/28/2025" || records[1][4] != "8" {
		t.Errorf("Monday record = %v", records[1])
	}
	if records[2][2] != "" || records[2][4] != "7.5" {
		t.Errorf("Tuesday record = %v", records[2])
	}
	if records[8][4] != "15.5" || records[8][5] != "mismatch 26.5" {
		t.Errorf("total record = %v", records[8])
	}
}
