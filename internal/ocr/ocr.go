// Package ocr defines the text recognition contract the pipeline reads a
// timesheet photo through, plus the engines that bypass recognition.
package ocr

import (
	"context"
	"strings"

	"github.com/xolan/timecard/internal/entry"
)

// Input is a single document submitted for recognition.
type Input struct {
	// ID is echoed back in the Result (usually the file name).
	ID string
	// Image is the encoded payload: an image for Tesseract, text or JSON for
	// the bypass engines.
	Image []byte
	// Languages are Tesseract language codes ("eng").
	Languages []string
	// PageSegMode is the Tesseract page segmentation mode; 0 keeps the
	// engine default.
	PageSegMode int
	// Whitelist restricts recognised characters; empty allows all.
	Whitelist string
}

// Line is one recognised line of handwriting, top to bottom.
type Line struct {
	Text       string
	Confidence float64 // 0..1
	Bounds     *entry.Bounds
}

// Result is the recognition output for one Input.
type Result struct {
	InputID string
	Lines   []Line
}

// Engine recognises the lines of a timesheet.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}

// RawEntries converts the recognised lines into parser input, dropping the
// first skip lines (form headers). Indices count from the first kept line.
func (r Result) RawEntries(skip int) []entry.RawEntry {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(r.Lines) {
		return []entry.RawEntry{}
	}
	lines := r.Lines[skip:]
	raws := make([]entry.RawEntry, len(lines))
	for i, l := range lines {
		raws[i] = entry.RawEntry{
			Index:      i,
			Text:       strings.TrimSpace(l.Text),
			Confidence: l.Confidence,
			Bounds:     l.Bounds,
		}
	}
	return raws
}
