// Package entry turns OCR text lines from a handwritten timesheet into
// structured time entries.
package entry

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// MaxMinutes is the longest duration a single day can hold (24 hours).
const MaxMinutes = 24 * 60

// Bounds is the position of a line in the source image, in pixels.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RawEntry is one line candidate detected by OCR.
type RawEntry struct {
	Index      int     `json:"index"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0..1
	Bounds     *Bounds `json:"bounds,omitempty"`
}

// Kind tags what a parsed line turned out to be.
type Kind int

const (
	// KindBlank is an intentionally empty line (nothing written, "off", "-").
	KindBlank Kind = iota
	// KindSpan has a start and an end time.
	KindSpan
	// KindDuration only has a number of hours.
	KindDuration
	// KindUnreadable could not be parsed.
	KindUnreadable
)

var kindNames = map[Kind]string{
	KindBlank:      "blank",
	KindSpan:       "span",
	KindDuration:   "duration",
	KindUnreadable: "unreadable",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Clock is a time of day in minutes since midnight.
type Clock int

// NewClock returns the clock time hour:minute.
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// Hour returns the hour in 24-hour form.
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute within the hour.
func (c Clock) Minute() int { return int(c) % 60 }

// String formats the clock in 24-hour form, e.g. "16:30".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Format12 formats the clock in 12-hour form, e.g. "4:30 PM".
func (c Clock) Format12() string {
	return time.Date(2000, 1, 1, c.Hour(), c.Minute(), 0, 0, time.UTC).Format("3:04 PM")
}

// MarshalText implements encoding.TextMarshaler.
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// DateMark is a date written in the date column of a line. Year is zero when
// the writer left it out. Month is zero when only the day of the month was
// written ("4 - 9 to 3pm").
type DateMark struct {
	Month time.Month `json:"month,omitempty"`
	Day   int        `json:"day"`
	Year  int        `json:"year,omitempty"`
}

// DayOnly reports whether the mark is a bare day of the month.
func (d DateMark) DayOnly() bool {
	return d.Month == 0
}

func (d DateMark) String() string {
	if d.DayOnly() {
		return fmt.Sprintf("day %d", d.Day)
	}
	if d.Year == 0 {
		return fmt.Sprintf("%d/%d", int(d.Month), d.Day)
	}
	return fmt.Sprintf("%d/%d/%d", int(d.Month), d.Day, d.Year)
}

// Source points back at the RawEntry a TimeEntry came from. Diagnostics only.
type Source struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// TimeEntry is the parsed form of one line.
//
// Span entries carry Start, End and Minutes (End - Start, wrapping past
// midnight). Duration entries carry only Minutes. Blank and Unreadable
// entries carry no time at all.
//
// Hundredths is the day's hours as entered on the form, in hundredths of an
// hour. It is Minutes rounded, a written duration as written ("7.51" is 751),
// or the handwritten daily total when it is close enough to the span.
type TimeEntry struct {
	Kind       Kind      `json:"kind"`
	Start      *Clock    `json:"start,omitempty"`
	End        *Clock    `json:"end,omitempty"`
	Minutes    int       `json:"minutes"`
	Hundredths int       `json:"hundredths"`
	Date       *DateMark `json:"date,omitempty"`
	// Weekday is the ISO weekday (Monday=1..Sunday=7) written on the line, or 0.
	Weekday int `json:"weekday,omitempty"`
	// Written is the daily total the writer noted next to the span, if any.
	Written *float64 `json:"written,omitempty"`
	Source  Source   `json:"source"`
}

// Hours returns the clock duration in hours.
func (e TimeEntry) Hours() float64 {
	return float64(e.Minutes) / 60
}

// FormHours returns the hours entered on the form.
func (e TimeEntry) FormHours() float64 {
	return float64(e.Hundredths) / 100
}

// HasTime reports whether the entry contributes worked time.
func (e TimeEntry) HasTime() bool {
	return e.Kind == KindSpan || e.Kind == KindDuration
}

// Anchored reports whether the line carries a date or weekday label.
func (e TimeEntry) Anchored() bool {
	return e.Date != nil || e.Weekday != 0
}

// HundredthsOf converts minutes to hundredths of an hour, rounding half away
// from zero: 440 → 733.
func HundredthsOf(minutes int) int {
	return int(math.Round(float64(minutes) * 100 / 60))
}

// HundredthsOfHours converts decimal hours to hundredths of an hour.
func HundredthsOfHours(hours float64) int {
	return int(math.Round(hours * 100))
}

// FormatHours formats minutes as decimal hours without trailing zeros:
// 480 → "8", 450 → "7.5", 440 → "7.33".
func FormatHours(minutes int) string {
	return FormatHundredths(HundredthsOf(minutes))
}

// FormatHundredths formats hundredths of an hour as decimal hours without
// trailing zeros: 751 → "7.51", 2200 → "22".
func FormatHundredths(h int) string {
	return strconv.FormatFloat(float64(h)/100, 'f', -1, 64)
}
