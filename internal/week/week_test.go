package week

import (
	"errors"
	"strings"
	"testing"

	"github.com/xolan/timecard/internal/entry"
)

func TestUnparseableWarning(t *testing.T) {
	p := entry.NewParser(entry.DefaultOptions())
	_, err := p.ParseEntry(entry.RawEntry{Index: 3, Text: "??", Confidence: 1})
	if err == nil {
		t.Fatal("ParseEntry(\"??\") should fail")
	}

	w := UnparseableWarning(0, err)
	if w.Code != CodeUnparseableEntry || w.Index != 3 {
		t.Errorf("UnparseableWarning() = %+v, expected code %s at index 3", w, CodeUnparseableEntry)
	}
	if !strings.Contains(w.Message, `"??"`) {
		t.Errorf("message should quote the line, got %q", w.Message)
	}
	if got := w.String(); !strings.HasPrefix(got, "UnparseableEntry (line 4): ") {
		t.Errorf("String() = %q", got)
	}

	other := UnparseableWarning(5, errors.New("boom"))
	if other.Index != 5 || other.Message != "boom" {
		t.Errorf("UnparseableWarning(plain error) = %+v", other)
	}
}

func TestDayRecordMinutes(t *testing.T) {
	if got := (DayRecord{}).Minutes(); got != 0 {
		t.Errorf("Minutes() of an empty day = %d, expected 0", got)
	}
	e := entry.TimeEntry{Kind: entry.KindDuration, Minutes: 450, Hundredths: 750}
	if got := (DayRecord{Entry: &e}).Minutes(); got != 450 {
		t.Errorf("Minutes() = %d, expected 450", got)
	}
	if got := (DayRecord{Entry: &e}).Hundredths(); got != 750 {
		t.Errorf("Hundredths() = %d, expected 750", got)
	}
	if got := (DayRecord{}).Hundredths(); got != 0 {
		t.Errorf("Hundredths() of an empty day = %d, expected 0", got)
	}
}
