package entry

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// totalPattern matches the week total line ("Total 40", "total hours: 38.5h", "= 40").
	totalPattern = regexp.MustCompile(`^(?:(?:total|tot|ttl|sum)(?:\s*(?:hours|hrs))?\s*[:=-]?|=)\s*(\d{1,3}(?:[.,]\d+)?)\s*(?:hours|hrs|hr|h)?$`)
	// bareTotalPattern matches a total given on its own ("40", "38.5h").
	bareTotalPattern = regexp.MustCompile(`^(\d{1,3}(?:[.,]\d+)?)\s*(?:hours|hrs|hr|h)?$`)
)

// daysPerSheet is the number of day lines on a weekly sheet.
const daysPerSheet = 7

// maxWeekHours bounds a bare number read as the week total.
const maxWeekHours = daysPerSheet * 24

// ExtractTotal removes handwritten week-total lines from raws and returns the
// remaining day lines and the total. When several total lines are present the
// last one wins. The returned total is nil when none was found.
//
// Without a labelled total ("Total 40", "= 40"), a bare number ("42") on the
// last written line counts as the total when at least seven lines, one per
// day of the week, come before it.
func ExtractTotal(raws []RawEntry) ([]RawEntry, *float64) {
	days := make([]RawEntry, 0, len(raws))
	var total *float64
	for _, raw := range raws {
		m := totalPattern.FindStringSubmatch(Normalize(raw.Text))
		if m == nil {
			days = append(days, raw)
			continue
		}
		if v, ok := parseHours(m[1]); ok {
			total = &v
		}
	}
	if total == nil {
		return trailingTotal(days)
	}
	return days, total
}

// trailingTotal splits a bare week total off the end of days.
func trailingTotal(days []RawEntry) ([]RawEntry, *float64) {
	last := len(days) - 1
	for last >= 0 && strings.TrimSpace(days[last].Text) == "" {
		last--
	}
	if last < daysPerSheet {
		return days, nil
	}
	m := bareTotalPattern.FindStringSubmatch(Normalize(days[last].Text))
	if m == nil {
		return days, nil
	}
	v, ok := parseHours(m[1])
	if !ok || v > maxWeekHours {
		return days, nil
	}
	out := make([]RawEntry, 0, len(days)-1)
	out = append(out, days[:last]...)
	out = append(out, days[last+1:]...)
	return out, &v
}

// ParseTotal reads a handwritten total such as "40", "38.5h" or "Total: 40".
func ParseTotal(text string) (float64, bool) {
	s := Normalize(text)
	m := totalPattern.FindStringSubmatch(s)
	if m == nil {
		m = bareTotalPattern.FindStringSubmatch(s)
	}
	if m == nil {
		return 0, false
	}
	return parseHours(m[1])
}

func parseHours(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
