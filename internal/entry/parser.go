package entry

import (
	"fmt"
	"iter"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Options tune how ambiguous handwriting is read.
type Options struct {
	// AssumePMAfter is an hour threshold on the 12-hour dial: an hour written
	// without am/pm that is below it is read as an afternoon hour ("4" → 16:00).
	AssumePMAfter int
	// DefaultShiftHours is the shift length used when only one end of a shift
	// is legible.
	DefaultShiftHours float64
	// MinConfidence is the OCR confidence floor. Lines below it are rejected;
	// a line exactly at the floor is accepted.
	MinConfidence float64
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		AssumePMAfter:     6,
		DefaultShiftHours: 8,
		MinConfidence:     0.5,
	}
}

// Validate checks that the options are usable.
func (o Options) Validate() error {
	if o.AssumePMAfter < 0 || o.AssumePMAfter > 12 {
		return fmt.Errorf("assume_pm_after must be between 0 and 12, got %d", o.AssumePMAfter)
	}
	if o.DefaultShiftHours <= 0 || o.DefaultShiftHours > 24 {
		return fmt.Errorf("default_shift_hours must be greater than 0 and at most 24, got %g", o.DefaultShiftHours)
	}
	if o.MinConfidence < 0 || o.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be between 0 and 1, got %g", o.MinConfidence)
	}
	return nil
}

// confidenceEpsilon absorbs float noise when comparing against the floor.
const confidenceEpsilon = 1e-9

// writtenTolerance is how far a handwritten daily total may drift from the
// span before it is reported.
const writtenTolerance = 0.25

const clockExpr = `(\d{1,2})(?:[:.](\d{2}))?\s*(am|pm|a|p|h)?`

var (
	// weekdayPattern matches a weekday label in front of the times ("Mon", "Thurs.").
	weekdayPattern = regexp.MustCompile(`^(mon(?:day)?|tue(?:s(?:day)?)?|wed(?:s|nesday)?|thu(?:r(?:s(?:day)?)?)?|fri(?:day)?|sat(?:urday)?|sun(?:day)?)\b\.?\s*[:,-]?\s*`)
	// datePattern matches a month/day date column ("7/28", "7/28/2025").
	datePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\s*[:,-]?\s*`)
	// dashDatePattern matches a month-day date column written with dashes
	// and followed by the times ("7-28 8-4").
	dashDatePattern = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})(?:-(\d{4}|\d{2}))?\s+(\d.*)$`)
	// dayPattern matches a bare day of the month in front of the times ("4 - 9 to 3pm").
	dayPattern = regexp.MustCompile(`^(\d{1,2})\s*-\s*(.+)$`)

	spanPattern     = regexp.MustCompile(`^` + clockExpr + `\s*-\s*` + clockExpr + `(?:\s*[-=:]?\s*(\d{1,2}(?:[.,]\d+)?)\s*(?:hours|hrs|hr|h)?)?$`)
	endOnlyPattern  = regexp.MustCompile(`^-\s*` + clockExpr + `$`)
	hourMinPattern  = regexp.MustCompile(`^(\d{1,2})\s*h\s*(\d{1,2})\s*(?:min|m)?$`)
	durationPattern = regexp.MustCompile(`^(\d{1,2}(?:[.,]\d+)?)\s*(?:hours|hour|hrs|hr|h)$`)
	decimalPattern  = regexp.MustCompile(`^(\d{1,2}[.,]\d+)$`)
	singlePattern   = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm|a|p)?$`)
)

var blankMarks = map[string]bool{
	"": true, "-": true, "--": true, "x": true, "/": true,
	"off": true, "none": true, "n/a": true, "na": true,
}

var weekdayPrefixes = map[string]int{
	"mo": 1, "tu": 2, "we": 3, "th": 4, "fr": 5, "sa": 6, "su": 7,
}

// Result is one element of a parse: the entry, or the reason it failed.
// Entry is always set; on failure its Kind is KindUnreadable and any date or
// weekday anchor found on the line is kept.
type Result struct {
	Entry TimeEntry
	Err   error
}

// Parser reads RawEntry lines into TimeEntry values. It holds no state
// between lines, so the same input always yields the same output.
type Parser struct {
	opts Options
}

// NewParser creates a Parser with the given options.
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Parse lazily parses raws, yielding each line's position and result.
func (p *Parser) Parse(raws []RawEntry) iter.Seq2[int, Result] {
	return func(yield func(int, Result) bool) {
		for i, raw := range raws {
			e, err := p.ParseEntry(raw)
			if !yield(i, Result{Entry: e, Err: err}) {
				return
			}
		}
	}
}

// ParseEntry parses a single line. The returned error, if any, is an
// *UnparseableError.
func (p *Parser) ParseEntry(raw RawEntry) (TimeEntry, error) {
	e := TimeEntry{Kind: KindBlank, Source: Source{Index: raw.Index, Text: raw.Text}}

	rest := Normalize(raw.Text)
	rest = p.readAnchors(rest, &e)

	if blankMarks[rest] {
		return e, nil
	}

	if raw.Confidence < p.opts.MinConfidence-confidenceEpsilon {
		e.Kind = KindUnreadable
		return e, unparseable(raw, "OCR confidence %.2f below minimum %.2f", raw.Confidence, p.opts.MinConfidence)
	}

	if err := p.readTime(rest, &e); err != nil {
		if p.readDashDate(rest, &e) || p.readDayOfMonth(rest, &e) {
			return e, nil
		}
		e.Kind = KindUnreadable
		e.Start, e.End, e.Minutes, e.Hundredths, e.Written = nil, nil, 0, 0, nil
		return e, unparseable(raw, "%s", err.Error())
	}

	// "1 - 8-4" also reads as 1pm to 8pm with 4 hours written next to it.
	// When the written total disagrees, the 1st from 8 to 4 is the better fit.
	if e.WrittenMismatch() && e.Date == nil {
		alt := TimeEntry{Kind: KindBlank, Weekday: e.Weekday, Source: e.Source}
		if p.readDayOfMonth(rest, &alt) && !alt.WrittenMismatch() && alt.Kind == KindSpan {
			return alt, nil
		}
	}
	return e, nil
}

// readDashDate retries a line whose times did not parse with a month-day
// date split off the front ("7-28 8-4"). The whole line is always tried as
// times first, so "8-4" stays a span.
func (p *Parser) readDashDate(s string, e *TimeEntry) bool {
	if e.Date != nil {
		return false
	}
	m := dashDatePattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	mark, ok := readDateMark(m[1], m[2], m[3])
	if !ok || p.readTime(m[4], e) != nil {
		return false
	}
	e.Date = &mark
	return true
}

// readDayOfMonth splits a bare day of the month off the front of s
// ("4 - 9 - 3pm - 6") and reads the span after it.
func (p *Parser) readDayOfMonth(s string, e *TimeEntry) bool {
	if e.Date != nil {
		return false
	}
	m := dayPattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	day, _ := strconv.Atoi(m[1])
	if day < 1 || day > 31 {
		return false
	}
	// The day must be followed by a full span, or "5-5" would read as a shift
	// starting at 5pm on the 5th.
	rest := strings.TrimSpace(m[2])
	if !blankMarks[rest] {
		sm := spanPattern.FindStringSubmatch(rest)
		if sm == nil || p.readSpan(sm, e) != nil {
			return false
		}
	}
	e.Date = &DateMark{Day: day}
	return true
}

// readAnchors strips a leading weekday label and date column from s,
// recording them on e, and returns what is left.
func (p *Parser) readAnchors(s string, e *TimeEntry) string {
	for range 2 {
		if m := weekdayPattern.FindStringSubmatch(s); m != nil && e.Weekday == 0 {
			e.Weekday = weekdayPrefixes[m[1][:2]]
			s = s[len(m[0]):]
			continue
		}
		if m := datePattern.FindStringSubmatch(s); m != nil && e.Date == nil {
			if mark, ok := readDateMark(m[1], m[2], m[3]); ok {
				e.Date = &mark
				s = s[len(m[0]):]
				continue
			}
		}
		break
	}
	return strings.TrimSpace(s)
}

func readDateMark(month, day, year string) (DateMark, bool) {
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return DateMark{}, false
	}
	mark := DateMark{Month: time.Month(mo), Day: d}
	if year != "" {
		y, _ := strconv.Atoi(year)
		if len(year) == 2 {
			y += 2000
		}
		mark.Year = y
	}
	return mark, true
}

func (p *Parser) readTime(s string, e *TimeEntry) error {
	if m := spanPattern.FindStringSubmatch(s); m != nil {
		return p.readSpan(m, e)
	}
	if m := endOnlyPattern.FindStringSubmatch(s); m != nil {
		end, err := p.clock(m[1], m[2], m[3])
		if err != nil {
			return err
		}
		p.setShift(e, wrap(int(end)-p.shiftMinutes()), end)
		return nil
	}
	if m := hourMinPattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		if mins > 59 {
			return fmt.Errorf("minutes out of range in %q", s)
		}
		return setDuration(e, h*60+mins)
	}
	if m := durationPattern.FindStringSubmatch(s); m != nil {
		return setHours(e, m[1])
	}
	if m := decimalPattern.FindStringSubmatch(s); m != nil {
		return setHours(e, m[1])
	}
	if m := singlePattern.FindStringSubmatch(s); m != nil {
		start, err := p.clock(m[1], m[2], m[3])
		if err != nil {
			return err
		}
		p.setShift(e, start, wrap(int(start)+p.shiftMinutes()))
		return nil
	}
	return fmt.Errorf("no time pattern matches %q", s)
}

func (p *Parser) readSpan(m []string, e *TimeEntry) error {
	st, err := readClock(m[1], m[2], m[3])
	if err != nil {
		return err
	}
	et, err := readClock(m[4], m[5], m[6])
	if err != nil {
		return err
	}

	start := NewClock(p.hour24(st), st.minute)
	end := NewClock(p.hour24(et), et.minute)
	// "8-4": an unmarked end at or before the start is an afternoon hour.
	if et.unmarked() && end <= start && int(end)+12*60 < MaxMinutes {
		end += 12 * 60
	}
	if end == start {
		return fmt.Errorf("span starts and ends at %s", start)
	}

	minutes := int(end) - int(start)
	if minutes < 0 {
		minutes += MaxMinutes
	}
	e.Kind = KindSpan
	e.Start, e.End, e.Minutes = &start, &end, minutes
	e.Hundredths = HundredthsOf(minutes)

	if m[7] != "" {
		written, err := strconv.ParseFloat(strings.ReplaceAll(m[7], ",", "."), 64)
		if err == nil {
			e.Written = &written
			// A daily total within tolerance of the span is what the writer
			// meant to claim ("9-3:10pm - 6" is 6 hours, not 6.17).
			if !e.WrittenMismatch() {
				e.Hundredths = HundredthsOfHours(written)
			}
		}
	}
	return nil
}

func (p *Parser) setShift(e *TimeEntry, start, end Clock) {
	e.Kind = KindSpan
	e.Start, e.End, e.Minutes = &start, &end, p.shiftMinutes()
	e.Hundredths = HundredthsOf(e.Minutes)
}

func (p *Parser) shiftMinutes() int {
	return int(math.Round(p.opts.DefaultShiftHours * 60))
}

func (p *Parser) clock(h, m, marker string) (Clock, error) {
	t, err := readClock(h, m, marker)
	if err != nil {
		return 0, err
	}
	return NewClock(p.hour24(t), t.minute), nil
}

// hour24 resolves a written hour to the 24-hour clock.
func (p *Parser) hour24(t clockToken) int {
	switch t.marker {
	case "am", "a":
		if t.hour == 12 {
			return 0
		}
		return t.hour
	case "pm", "p":
		if t.hour < 12 {
			return t.hour + 12
		}
		return t.hour
	}
	if t.explicit24 || t.hour == 12 {
		return t.hour
	}
	if t.hour < p.opts.AssumePMAfter {
		return t.hour + 12
	}
	return t.hour
}

type clockToken struct {
	hour       int
	minute     int
	marker     string
	explicit24 bool
}

func (t clockToken) unmarked() bool {
	return t.marker == "" && !t.explicit24
}

func readClock(h, m, marker string) (clockToken, error) {
	hour, err := strconv.Atoi(h)
	if err != nil {
		return clockToken{}, fmt.Errorf("invalid hour %q", h)
	}
	minute := 0
	if m != "" {
		minute, _ = strconv.Atoi(m)
	}
	if minute > 59 {
		return clockToken{}, fmt.Errorf("invalid minutes %q", m)
	}
	if hour > 24 || (hour == 24 && minute != 0) {
		return clockToken{}, fmt.Errorf("invalid hour %q", h)
	}
	if hour == 24 {
		hour = 0
	}
	t := clockToken{hour: hour, minute: minute, marker: marker}
	switch marker {
	case "am", "a", "pm", "p":
		if hour == 0 || hour > 12 {
			return clockToken{}, fmt.Errorf("hour %d cannot carry %s", hour, marker)
		}
	default:
		// 24-hour when marked with "h", past noon, midnight, or zero-padded ("08:00").
		t.explicit24 = marker == "h" || hour >= 13 || hour == 0 || (len(h) == 2 && h[0] == '0')
	}
	return t, nil
}

// setHours records a duration written in decimal hours. The form shows it as
// written, so Hundredths comes from the text rather than from Minutes.
func setHours(e *TimeEntry, s string) error {
	hours, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return fmt.Errorf("invalid hours %q", s)
	}
	if err := setDuration(e, int(math.Round(hours*60))); err != nil {
		return err
	}
	e.Hundredths = HundredthsOfHours(hours)
	return nil
}

func setDuration(e *TimeEntry, minutes int) error {
	if minutes < 0 || minutes > MaxMinutes {
		return fmt.Errorf("duration %.2fh outside 0-24 hours", float64(minutes)/60)
	}
	e.Kind = KindDuration
	e.Minutes = minutes
	e.Hundredths = HundredthsOf(minutes)
	return nil
}

func wrap(minutes int) Clock {
	minutes %= MaxMinutes
	if minutes < 0 {
		minutes += MaxMinutes
	}
	return Clock(minutes)
}

// WrittenMismatch reports whether the handwritten daily total next to a span
// disagrees with the span by more than a quarter hour.
func (e TimeEntry) WrittenMismatch() bool {
	if e.Written == nil || e.Kind != KindSpan {
		return false
	}
	return math.Abs(*e.Written-e.Hours()) > writtenTolerance
}
