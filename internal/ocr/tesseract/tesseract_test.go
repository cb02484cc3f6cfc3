package tesseract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/xolan/timecard/internal/ocr"
)

// ensureTesseractAvailable checks that the tesseract binary is reachable.
func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

func renderLines(t *testing.T, lines ...string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 240, 30+20*len(lines)))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Src: image.Black, Face: basicfont.Face7x13}
	for i, l := range lines {
		d.Dot = fixed.P(10, 25+20*i)
		d.DrawString(l)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestEngineName(t *testing.T) {
	if got := New(0).Name(); got != "tesseract" {
		t.Errorf("Name() = %q, expected %q", got, "tesseract")
	}
}

func TestEngineRecognize(t *testing.T) {
	ensureTesseractAvailable(t)

	in := ocr.Input{ID: "week.png", Image: renderLines(t, "Mon 8-4", "Tue 8-4"), Languages: []string{"eng"}, PageSegMode: 6}
	res, err := New(1200).Recognize(context.Background(), in)
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if res.InputID != "week.png" {
		t.Errorf("InputID = %q, expected %q", res.InputID, "week.png")
	}
	for _, l := range res.Lines {
		if l.Confidence < 0 || l.Confidence > 1 {
			t.Errorf("line %q confidence %g outside 0..1", l.Text, l.Confidence)
		}
		if l.Bounds == nil {
			t.Errorf("line %q has no bounds", l.Text)
		}
	}
}

func TestEngineRecognize_BadImage(t *testing.T) {
	_, err := New(0).Recognize(context.Background(), ocr.Input{Image: []byte("not an image")})
	if err == nil {
		t.Error("Recognize() should fail for undecodable input")
	}
}

func TestEngineRecognize_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(0).Recognize(ctx, ocr.Input{Image: renderLines(t, "8-4")})
	if err != context.Canceled {
		t.Errorf("Recognize() error = %v, expected context.Canceled", err)
	}
}
