package ocr

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TextEngine reads a plain text transcription, one line per row, each with
// full confidence.
type TextEngine struct{}

// Name returns "text".
func (TextEngine) Name() string { return "text" }

// Recognize splits in.Image into lines. Trailing empty lines are dropped;
// empty lines in between are kept since they stand for blank days.
func (TextEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	var lines []Line
	sc := bufio.NewScanner(bytes.NewReader(in.Image))
	for sc.Scan() {
		lines = append(lines, Line{Text: strings.TrimSpace(sc.Text()), Confidence: 1})
	}
	if err := sc.Err(); err != nil {
		return Result{}, fmt.Errorf("read text: %w", err)
	}
	for len(lines) > 0 && lines[len(lines)-1].Text == "" {
		lines = lines[:len(lines)-1]
	}
	return Result{InputID: in.ID, Lines: lines}, nil
}

// JSONEngine reads a pre-extracted JSON array. Elements are either strings,
// {"text", "confidence"} objects, or finished day rows
// {"date": "2025-07-28", "start": "08:00", "end": "16:00"}.
type JSONEngine struct{}

// Name returns "json".
func (JSONEngine) Name() string { return "json" }

type jsonLine struct {
	Text       *string  `json:"text"`
	Confidence *float64 `json:"confidence"`
	Date       string   `json:"date"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
	Hours      *float64 `json:"hours"`
}

// Recognize decodes in.Image.
func (JSONEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(in.Image, &items); err != nil {
		return Result{}, fmt.Errorf("decode OCR JSON: %w", err)
	}

	lines := make([]Line, 0, len(items))
	for i, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			lines = append(lines, Line{Text: s, Confidence: 1})
			continue
		}
		var jl jsonLine
		if err := json.Unmarshal(item, &jl); err != nil {
			return Result{}, fmt.Errorf("decode OCR JSON element %d: %w", i, err)
		}
		line, err := jl.line()
		if err != nil {
			return Result{}, fmt.Errorf("decode OCR JSON element %d: %w", i, err)
		}
		lines = append(lines, line)
	}
	return Result{InputID: in.ID, Lines: lines}, nil
}

func (jl jsonLine) line() (Line, error) {
	conf := 1.0
	if jl.Confidence != nil {
		conf = *jl.Confidence
	}
	if jl.Text != nil {
		return Line{Text: *jl.Text, Confidence: conf}, nil
	}

	var parts []string
	if jl.Date != "" {
		d, err := time.Parse(time.DateOnly, jl.Date)
		if err != nil {
			return Line{}, fmt.Errorf("invalid date %q: %w", jl.Date, err)
		}
		parts = append(parts, d.Format("1/2/2006"))
	}
	switch {
	case jl.Start != "" && jl.End != "":
		parts = append(parts, isoClock(jl.Start)+"-"+isoClock(jl.End))
		if jl.Hours != nil {
			parts = append(parts, fmt.Sprintf("- %g", *jl.Hours))
		}
	case jl.Hours != nil:
		parts = append(parts, fmt.Sprintf("%gh", *jl.Hours))
	default:
		return Line{}, errors.New(`element needs "text", "start" and "end", or "hours"`)
	}
	return Line{Text: strings.Join(parts, " "), Confidence: conf}, nil
}

// isoClockLayouts are the ISO 8601 times accepted for "start" and "end".
// Fractional seconds are accepted after the seconds field.
var isoClockLayouts = []string{"15:04:05", "15:04"}

// isoClock turns an ISO 8601 time ("09:00:00") into the 24-hour form the line
// parser reads ("09:00"). Anything else ("9", "3pm") is passed through as
// handwriting.
func isoClock(v string) string {
	if len(v) < 5 || v[2] != ':' {
		return v
	}
	for _, layout := range isoClockLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("15:04")
		}
	}
	return v
}
