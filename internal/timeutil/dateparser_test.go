package timeutil

import (
	"strings"
	"testing"
	"time"
)

func TestParseDate_Valid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Date
	}{
		{"iso", "2025-07-28", Date{2025, time.July, 28}},
		{"iso leap day", "2024-02-29", Date{2024, time.February, 29}},
		{"us padded", "07/28/2025", Date{2025, time.July, 28}},
		{"us short", "7/28/2025", Date{2025, time.July, 28}},
		{"us year end", "12/29/2025", Date{2025, time.December, 29}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseDate(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		errorSubstring string
	}{
		{"empty", "", "date cannot be empty"},
		{"year only", "2025", "missing month and day"},
		{"iso partial", "2025-07", "missing day"},
		{"us partial", "7/28", "missing year"},
		{"too many parts", "7/28/2025/1", "too many date parts"},
		{"garbage", "next monday", "invalid date format"},
		{"impossible", "2025-02-30", "invalid date format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDate(tt.input)
			if err == nil {
				t.Fatalf("ParseDate(%q) expected error", tt.input)
			}
			if !strings.Contains(err.Error(), tt.errorSubstring) {
				t.Errorf("ParseDate(%q) error = %q, expected to contain %q", tt.input, err.Error(), tt.errorSubstring)
			}
		})
	}
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		input string
		want  time.Month
		ok    bool
	}{
		{"7", time.July, true},
		{"12", time.December, true},
		{"July", time.July, true},
		{"jul", time.July, true},
		{"DECEMBER", time.December, true},
		{" 3 ", time.March, true},
		{"0", 0, false},
		{"13", 0, false},
		{"Juli", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMonth(tt.input)
			if (err == nil) != tt.ok {
				t.Fatalf("ParseMonth(%q) error = %v, expected ok = %v", tt.input, err, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseMonth(%q) = %v, expected %v", tt.input, got, tt.want)
			}
		})
	}
}
