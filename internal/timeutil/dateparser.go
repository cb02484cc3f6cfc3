package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ParseDate parses a date string in YYYY-MM-DD or MM/DD/YYYY format.
// Time cards are filled in the US style, so the slash form is month first.
//
// Valid inputs:
//   - "2025-07-28" (ISO format)
//   - "07/28/2025" or "7/28/2025" (US format)
//
// Invalid inputs return an error with suggested formats.
func ParseDate(input string) (Date, error) {
	if input == "" {
		return Date{}, fmt.Errorf("date cannot be empty (use format YYYY-MM-DD or MM/DD/YYYY, e.g., 2025-07-28 or 07/28/2025)")
	}

	// Try ISO format first (YYYY-MM-DD)
	t, err := time.Parse("2006-01-02", input)
	if err == nil {
		return DateOf(t), nil
	}

	// Try US format (MM/DD/YYYY), single-digit month and day allowed
	t, err = time.Parse("1/2/2006", input)
	if err == nil {
		return DateOf(t), nil
	}

	return Date{}, buildDateParseError(input)
}

// buildDateParseError creates a helpful error message based on the input pattern
func buildDateParseError(input string) error {
	isoPartialRe := regexp.MustCompile(`^\d{4}-\d{1,2}$`)          // YYYY-MM (missing day)
	yearOnlyRe := regexp.MustCompile(`^\d{4}$`)                    // YYYY (year only)
	usPartialRe := regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)         // MM/DD (missing year)
	tooManyPartsRe := regexp.MustCompile(`^\d+[-/]\d+[-/]\d+[-/]`) // Too many separators

	switch {
	case yearOnlyRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing month and day (use format YYYY-MM-DD, e.g., %s-07-28)", input, input)
	case isoPartialRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing day (use format YYYY-MM-DD, e.g., %s-28)", input, input)
	case usPartialRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing year (use format MM/DD/YYYY, e.g., %s/2025)", input, input)
	case tooManyPartsRe.MatchString(input):
		return fmt.Errorf("invalid date '%s': too many date parts (use format YYYY-MM-DD or MM/DD/YYYY)", input)
	default:
		return fmt.Errorf("invalid date format '%s' (use YYYY-MM-DD or MM/DD/YYYY, e.g., 2025-07-28 or 07/28/2025)", input)
	}
}

// ParseMonth parses a month given as a number ("7"), a name ("July") or an
// abbreviation ("Jul"), in any case.
func ParseMonth(input string) (time.Month, error) {
	s := strings.TrimSpace(input)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("invalid month %d (use 1-12 or a month name)", n)
		}
		return time.Month(n), nil
	}
	for _, layout := range []string{"January", "Jan"} {
		if t, err := time.Parse(layout, cases.Title(language.English).String(s)); err == nil {
			return t.Month(), nil
		}
	}
	return 0, fmt.Errorf("invalid month '%s' (use 1-12 or a month name, e.g. 7 or July)", input)
}
