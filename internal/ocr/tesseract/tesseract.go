// Package tesseract recognises handwriting with the Tesseract engine through
// gosseract.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/xolan/timecard/internal/entry"
	"github.com/xolan/timecard/internal/ocr"
)

// Engine implements ocr.Engine with one gosseract client per call.
type Engine struct {
	clientFactory func() *gosseract.Client
	minWidth      int
}

// New constructs a Tesseract-backed engine. Photos narrower than minWidth
// pixels are upscaled before recognition.
func New(minWidth int) *Engine {
	return &Engine{clientFactory: gosseract.NewClient, minWidth: minWidth}
}

// Name returns "tesseract".
func (e *Engine) Name() string { return "tesseract" }

// Recognize preprocesses the photo and returns one Line per text line
// Tesseract finds, top to bottom. Tesseract calls cannot be interrupted, so
// ctx is only checked before they start.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	img, err := ocr.Preprocess(in.Image, e.minWidth)
	if err != nil {
		return ocr.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}

	c := e.clientFactory()
	defer func() { _ = c.Close() }()

	if err := c.SetImageFromBytes(img); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return ocr.Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if in.PageSegMode > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(in.PageSegMode)); err != nil {
			return ocr.Result{}, fmt.Errorf("set page segmentation mode: %w", err)
		}
	}
	if in.Whitelist != "" {
		if err := c.SetWhitelist(in.Whitelist); err != nil {
			return ocr.Result{}, fmt.Errorf("set whitelist: %w", err)
		}
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}

	lines := make([]ocr.Line, 0, len(boxes))
	for _, b := range boxes {
		lines = append(lines, ocr.Line{
			Text:       strings.TrimSpace(b.Word),
			Confidence: b.Confidence / 100.0,
			Bounds: &entry.Bounds{
				X:      float64(b.Box.Min.X),
				Y:      float64(b.Box.Min.Y),
				Width:  float64(b.Box.Dx()),
				Height: float64(b.Box.Dy()),
			},
		})
	}
	return ocr.Result{InputID: in.ID, Lines: lines}, nil
}
