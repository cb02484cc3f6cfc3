package pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/xolan/timecard/internal/config"
	"github.com/xolan/timecard/internal/sheet"
)

// Overlay fills the first page of a template PDF by stamping text onto it.
type Overlay struct {
	Template string
	Header   Header
	Layout   config.Layout
}

// NewOverlay returns an Overlay for the template at path.
func NewOverlay(path string, h Header, l config.Layout) *Overlay {
	return &Overlay{Template: path, Header: h, Layout: l}
}

// Fill stamps s onto the template and writes the result to w. pdfcpu cannot
// be interrupted, so ctx is only checked before it starts.
func (o *Overlay) Fill(ctx context.Context, s sheet.Sheet, w io.Writer) error {
	f, err := os.Open(o.Template)
	if err != nil {
		return fmt.Errorf("failed to open template: %w", err)
	}
	defer func() { _ = f.Close() }()

	stamps := Stamps(s, o.Header, o.Layout)
	if o.Layout.Grid > 0 {
		grid, err := o.grid(f)
		if err != nil {
			return err
		}
		stamps = append(grid, stamps...)
	}
	wms := make([]*model.Watermark, 0, len(stamps))
	for _, st := range stamps {
		wm, err := api.TextWatermark(st.Text, o.description(st), true, false, types.POINTS)
		if err != nil {
			return fmt.Errorf("failed to build stamp %q: %w", st.Text, err)
		}
		wms = append(wms, wm)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	slog.Debug("stamping template", "template", o.Template, "stamps", len(wms))
	if err := api.AddWatermarksSliceMap(f, w, map[int][]*model.Watermark{1: wms}, relaxed()); err != nil {
		return fmt.Errorf("failed to fill template: %w", err)
	}
	return nil
}

func relaxed() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// grid measures the first page of f and rewinds it for the fill.
func (o *Overlay) grid(f io.ReadSeeker) ([]Stamp, error) {
	dims, err := api.PageDims(f, relaxed())
	if err != nil {
		return nil, fmt.Errorf("failed to read template page size: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind template: %w", err)
	}
	if len(dims) == 0 {
		return nil, nil
	}
	slog.Debug("drawing calibration grid", "width", dims[0].Width, "height", dims[0].Height, "step", o.Layout.Grid)
	return GridStamps(dims[0].Width, dims[0].Height, o.Layout.Grid), nil
}

func (o *Overlay) description(st Stamp) string {
	color := st.Color
	if color == "" {
		color = "#000000"
	}
	return fmt.Sprintf("fontname:%s, points:%d, position:bl, offset:%g %g, scalefactor:1 abs, rotation:0, opacity:1, fillcolor:%s",
		o.Layout.Font, st.Size, st.X, st.Y, color)
}
