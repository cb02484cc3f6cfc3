package entry

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// symbolReplacer folds the dash and meridiem spellings OCR produces for
// handwriting into one form. Longer spellings come first so "a.m." wins over "a.m".
var symbolReplacer = strings.NewReplacer(
	"–", "-", "—", "-", "−", "-", "‐", "-", "‒", "-", "~", "-",
	"a.m.", "am", "p.m.", "pm", "a.m", "am", "p.m", "pm",
)

// rangeWordPattern matches words written between the two ends of a span ("9 to 5").
var rangeWordPattern = regexp.MustCompile(`\b(to|till|til|until|thru|through)\b`)

var spacePattern = regexp.MustCompile(`\s+`)

// Normalize folds OCR text into the form the line patterns expect: NFKC
// (fullwidth digits and colons become ASCII), lower case, one dash character,
// range words replaced by a dash and collapsed whitespace.
func Normalize(text string) string {
	s := norm.NFKC.String(text)
	s = strings.ToLower(s)
	s = symbolReplacer.Replace(s)
	s = rangeWordPattern.ReplaceAllString(s, "-")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
