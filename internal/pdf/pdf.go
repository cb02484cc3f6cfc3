// Package pdf writes a built time sheet onto the agency's PDF form.
package pdf

import (
	"context"
	"fmt"
	"io"

	"github.com/xolan/timecard/internal/config"
	"github.com/xolan/timecard/internal/sheet"
)

// DateLayout is how dates are printed on the form.
const DateLayout = "01/02/2006"

// Filler renders a sheet into a PDF written to w.
type Filler interface {
	Fill(ctx context.Context, s sheet.Sheet, w io.Writer) error
}

// Header carries the form fields that do not come from the handwriting.
type Header struct {
	Employee string
	Client   string
}

// Stamp is one piece of text placed on the form. An empty Color is black.
type Stamp struct {
	Text  string
	X, Y  float64
	Size  int
	Color string
}

const (
	gridColor     = "#B0B0B0"
	gridLabelSize = 5
	gridMarkSize  = 6
)

// GridStamps covers a width by height page with a "+" every step points and
// labels the x coordinates along the bottom edge and the y coordinates along
// the left edge, for lining the layout up with a new form.
func GridStamps(width, height, step float64) []Stamp {
	if step <= 0 {
		return nil
	}
	var out []Stamp
	for x := 0.0; x < width; x += step {
		for y := 0.0; y < height; y += step {
			out = append(out, Stamp{Text: "+", X: x, Y: y, Size: gridMarkSize, Color: gridColor})
		}
		if x > 0 {
			out = append(out, Stamp{Text: fmt.Sprintf("%g", x), X: x + 2, Y: 2, Size: gridLabelSize, Color: gridColor})
		}
	}
	for y := step; y < height; y += step {
		out = append(out, Stamp{Text: fmt.Sprintf("%g", y), X: 2, Y: y + 2, Size: gridLabelSize, Color: gridColor})
	}
	return out
}

// Stamps lays out every non-empty cell of s, header first, then the weekday
// rows top to bottom, then the footer.
func Stamps(s sheet.Sheet, h Header, l config.Layout) []Stamp {
	var out []Stamp
	add := func(text string, x, y float64, size int) {
		if text != "" {
			out = append(out, Stamp{Text: text, X: x, Y: y, Size: size})
		}
	}

	add(h.Employee, l.EmployeeName.X, l.EmployeeName.Y, l.HeaderSize)
	add(s.From.Format(DateLayout), l.PeriodFrom.X, l.PeriodFrom.Y, l.FontSize)
	add(s.To.Format(DateLayout), l.PeriodTo.X, l.PeriodTo.Y, l.FontSize)

	for i, r := range s.Rows {
		y := l.TableOrigin.Y - float64(i)*l.RowHeight
		add(h.Client, l.Columns.Client, y, l.FontSize)
		add(r.Date.Format(DateLayout), l.Columns.Date, y, l.FontSize)
		add(r.Start, l.Columns.Start, y, l.FontSize)
		add(r.End, l.Columns.End, y, l.FontSize)
		add(r.Hours, l.Columns.Hours, y, l.FontSize)
	}

	add(s.Total, l.TotalHours.X, l.TotalHours.Y, l.FontSize)
	add(h.Employee, l.SignatureName.X, l.SignatureName.Y, l.FontSize)
	add(s.To.Format(DateLayout), l.SignatureDate.X, l.SignatureDate.Y, l.FontSize)
	return out
}
