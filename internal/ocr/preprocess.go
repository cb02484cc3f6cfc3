package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	// Registered decoders for the accepted photo formats.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Preprocess decodes a photo, converts it to grayscale and upscales it so
// its width is at least minWidth (0 disables scaling). It returns PNG bytes.
func Preprocess(data []byte, minWidth int) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("decode image: %s image is empty", format)
	}
	w, h := b.Dx(), b.Dy()
	if minWidth > 0 && w < minWidth {
		h = h * minWidth / w
		w = minWidth
	}

	gray := image.NewGray(image.Rect(0, 0, w, h))
	if w == b.Dx() {
		draw.Draw(gray, gray.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(gray, gray.Bounds(), src, b, draw.Src, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
