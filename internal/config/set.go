package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ErrUnknownKey is returned by Set for a key it does not know.
var ErrUnknownKey = errors.New("unknown setting")

type setter func(c *Config, v string) error

var setters = map[string]setter{
	"log_level":                  stringField(func(c *Config) *string { return &c.LogLevel }),
	"parser.assume_pm_after":     intField(func(c *Config) *int { return &c.Parser.AssumePMAfter }),
	"parser.default_shift_hours": floatField(func(c *Config) *float64 { return &c.Parser.DefaultShiftHours }),
	"parser.min_confidence":      floatField(func(c *Config) *float64 { return &c.Parser.MinConfidence }),
	"reconcile.tolerance":        floatField(func(c *Config) *float64 { return &c.Reconcile.Tolerance }),
	"ocr.languages":              setLanguages,
	"ocr.page_seg_mode":          intField(func(c *Config) *int { return &c.OCR.PageSegMode }),
	"ocr.whitelist":              stringField(func(c *Config) *string { return &c.OCR.Whitelist }),
	"ocr.min_width":              intField(func(c *Config) *int { return &c.OCR.MinWidth }),
	"ocr.skip_lines":             intField(func(c *Config) *int { return &c.OCR.SkipLines }),
	"ocr.timeout_seconds":        intField(func(c *Config) *int { return &c.OCR.TimeoutSeconds }),
	"pdf.template":               stringField(func(c *Config) *string { return &c.PDF.Template }),
	"pdf.employee":               stringField(func(c *Config) *string { return &c.PDF.Employee }),
	"pdf.client":                 stringField(func(c *Config) *string { return &c.PDF.Client }),
	"pdf.timeout_seconds":        intField(func(c *Config) *int { return &c.PDF.TimeoutSeconds }),
	"pdf.layout.grid":            floatField(func(c *Config) *float64 { return &c.PDF.Layout.Grid }),
}

// Keys returns the settings Set accepts, sorted.
func Keys() []string {
	return slices.Sorted(maps.Keys(setters))
}

// Set assigns value to the setting named key ("pdf.employee"). It only
// checks that value has the right type; Validate checks the range.
func Set(c *Config, key, value string) error {
	set, ok := setters[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	if err := set(c, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func stringField(field func(*Config) *string) setter {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func intField(field func(*Config) *int) setter {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%q is not a whole number", v)
		}
		*field(c) = n
		return nil
	}
}

func floatField(field func(*Config) *float64) setter {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", v)
		}
		*field(c) = f
		return nil
	}
}

// setLanguages reads a comma-separated list ("eng,deu").
func setLanguages(c *Config, v string) error {
	var langs []string
	for _, l := range strings.Split(v, ",") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		return errors.New("at least one language is needed")
	}
	c.OCR.Languages = langs
	return nil
}
