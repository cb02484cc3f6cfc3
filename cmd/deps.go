package cmd

import (
	"io"
	"os"
	"time"

	"github.com/xolan/timecard/internal/config"
	"github.com/xolan/timecard/internal/ocr"
	"github.com/xolan/timecard/internal/ocr/tesseract"
	"github.com/xolan/timecard/internal/pdf"
)

// Deps holds external dependencies for CLI commands, enabling testability.
type Deps struct {
	Stdout     io.Writer
	Stderr     io.Writer
	Exit       func(code int)
	ConfigPath func() (string, error)
	// ImageEngine recognises photos; text and JSON inputs never reach it.
	ImageEngine func(cfg config.Config) ocr.Engine
	NewFiller   func(template string, h pdf.Header, l config.Layout) pdf.Filler
	Now         func() time.Time
}

// DefaultDeps returns the default production dependencies.
func DefaultDeps() *Deps {
	return &Deps{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Exit:       os.Exit,
		ConfigPath: config.GetConfigPath,
		ImageEngine: func(cfg config.Config) ocr.Engine {
			return tesseract.New(cfg.OCR.MinWidth)
		},
		NewFiller: func(template string, h pdf.Header, l config.Layout) pdf.Filler {
			return pdf.NewOverlay(template, h, l)
		},
		Now: time.Now,
	}
}

// deps is the global dependencies instance used by commands.
// In production, this is DefaultDeps(). Tests can replace it.
var deps = DefaultDeps()

// SetDeps sets the global dependencies (for testing).
func SetDeps(d *Deps) {
	deps = d
}

// ResetDeps resets dependencies to defaults (for testing cleanup).
func ResetDeps() {
	deps = DefaultDeps()
}
