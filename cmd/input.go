package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/timecard/internal/cli"
	"github.com/xolan/timecard/internal/config"
	"github.com/xolan/timecard/internal/entry"
	"github.com/xolan/timecard/internal/ocr"
	"github.com/xolan/timecard/internal/pdf"
	"github.com/xolan/timecard/internal/service"
	"github.com/xolan/timecard/internal/sheet"
	"github.com/xolan/timecard/internal/timeutil"
	"github.com/xolan/timecard/internal/week"
)

// inputKind is how an input file is read.
type inputKind int

const (
	inputImage inputKind = iota
	inputText
	inputJSON
)

// addInputFlags registers the flags shared by every command that reads a timesheet.
func addInputFlags(c *cobra.Command) {
	c.Flags().Bool("text", false, "Input is a plain text transcription, one line per day (default for .txt files)")
	c.Flags().Bool("ocr-json", false, "Input is a JSON array of recognised lines (default for .json files)")
	c.Flags().Int("year", 0, "Year the sheet was written in, for dates without a year (default: current year)")
	c.Flags().String("month", "", "Month the sheet was written in, for lines that start with a bare day such as \"4 - 9 to 3pm\" (1-12 or a name)")
}

// addWeekFlags registers the flags that only make sense for a single sheet.
func addWeekFlags(c *cobra.Command) {
	c.Flags().String("week-start", "", "Monday of the week (YYYY-MM-DD or M/D/YYYY); default: from the dates on the sheet")
	c.Flags().Float64("total", 0, "Handwritten week total, overriding the one read from the sheet")
}

// addPDFFlags registers the flags that override the [pdf] config section.
func addPDFFlags(c *cobra.Command) {
	c.Flags().String("template", "", "Blank time card PDF to fill (default from config)")
	c.Flags().String("employee", "", "Employee name for the time card header (default from config)")
	c.Flags().String("client", "", "Client name for the time card rows (default from config)")
	c.Flags().Bool("debug-grid", false, "Stamp a coordinate grid on the form to calibrate the [pdf.layout] positions")
}

// debugGridStep is the grid spacing --debug-grid uses when the config sets none.
const debugGridStep = 25

// commandContext is the command's context, or Background when it has none.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func inputKindFor(cmd *cobra.Command, path string) inputKind {
	if text, _ := cmd.Flags().GetBool("text"); text {
		return inputText
	}
	if js, _ := cmd.Flags().GetBool("ocr-json"); js {
		return inputJSON
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return inputText
	case ".json":
		return inputJSON
	}
	return inputImage
}

// sheetEngine picks the engine for each input from its file name and the
// input flags, so a batch may mix photos and transcriptions.
type sheetEngine struct {
	cmd   *cobra.Command
	image ocr.Engine
}

func newSheetEngine(cmd *cobra.Command, cfg config.Config) *sheetEngine {
	return &sheetEngine{cmd: cmd, image: deps.ImageEngine(cfg)}
}

func (e *sheetEngine) Name() string { return "timesheet" }

func (e *sheetEngine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	switch inputKindFor(e.cmd, in.ID) {
	case inputText:
		return ocr.TextEngine{}.Recognize(ctx, in)
	case inputJSON:
		return ocr.JSONEngine{}.Recognize(ctx, in)
	}
	return e.image.Recognize(ctx, in)
}

// newPipeline builds the pipeline for cmd, or reports the problem and exits.
func newPipeline(cmd *cobra.Command, cfg config.Config, filler pdf.Filler) (*service.Pipeline, bool) {
	p, err := service.NewPipeline(cfg, newSheetEngine(cmd, cfg), filler)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Invalid configuration")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check the [parser] section of the config file")
		deps.Exit(1)
		return nil, false
	}
	return p, true
}

// loadConfig loads the config file, or reports the problem and exits.
func loadConfig() (config.Config, bool) {
	svc, ok := configService()
	if !ok {
		return config.Config{}, false
	}
	return svc.Get(), true
}

// loadConfigQuiet loads the config file without reporting errors.
func loadConfigQuiet() (config.Config, bool) {
	configPath, err := deps.ConfigPath()
	if err != nil {
		return config.Config{}, false
	}
	cfg, err := config.LoadOrDefault(configPath)
	return cfg, err == nil
}

// applyPDFFlags lets --template, --employee, --client and --debug-grid
// override the config.
func applyPDFFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("template"); v != "" {
		cfg.PDF.Template = v
	}
	if v, _ := cmd.Flags().GetString("employee"); v != "" {
		cfg.PDF.Employee = v
	}
	if v, _ := cmd.Flags().GetString("client"); v != "" {
		cfg.PDF.Client = v
	}
	if v, _ := cmd.Flags().GetBool("debug-grid"); v && cfg.PDF.Layout.Grid == 0 {
		cfg.PDF.Layout.Grid = debugGridStep
	}
}

func requireTemplate(cfg config.Config) bool {
	if cfg.PDF.Template == "" {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: No time card template given")
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Pass --template <form.pdf> or set template in the [pdf] section of the config file")
		deps.Exit(1)
		return false
	}
	if _, err := os.Stat(cfg.PDF.Template); err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Cannot read time card template %s\n", cfg.PDF.Template)
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return false
	}
	return true
}

func newFiller(cfg config.Config) pdf.Filler {
	return deps.NewFiller(cfg.PDF.Template, pdf.Header{Employee: cfg.PDF.Employee, Client: cfg.PDF.Client}, cfg.PDF.Layout)
}

// newRequest reads path and the week flags into a pipeline request.
func newRequest(cmd *cobra.Command, path string) (service.Request, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to read %s\n", path)
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return service.Request{}, false
	}
	req := service.Request{ID: filepath.Base(path), Data: data}

	now := deps.Now()
	req.Reference = timeutil.DateOf(now)
	if year, _ := cmd.Flags().GetInt("year"); year != 0 {
		if year < 1900 || year > 2999 {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid --year %d\n", year)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use a four-digit year such as 2025")
			deps.Exit(1)
			return service.Request{}, false
		}
		req.Reference = timeutil.NewDate(year, now.Month(), now.Day())
	}
	if s, _ := cmd.Flags().GetString("month"); s != "" {
		month, err := timeutil.ParseMonth(s)
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid --month: %v\n", err)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use a month number or name, e.g. 7 or July")
			deps.Exit(1)
			return service.Request{}, false
		}
		req.Month = month
	}

	if cmd.Flags().Lookup("week-start") != nil {
		if s, _ := cmd.Flags().GetString("week-start"); s != "" {
			start, err := timeutil.ParseDate(s)
			if err != nil {
				_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid --week-start date: %v\n", err)
				_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use YYYY-MM-DD or M/D/YYYY, e.g. 2025-07-28")
				deps.Exit(1)
				return service.Request{}, false
			}
			req.WeekStart = start
		}
	}
	if cmd.Flags().Changed("total") {
		total, _ := cmd.Flags().GetFloat64("total")
		if total < 0 || total > float64(entry.MaxMinutes*week.DaysPerWeek)/60 {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid --total %g\n", total)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: The week total is between 0 and 168 hours")
			deps.Exit(1)
			return service.Request{}, false
		}
		req.Handwritten = &total
	}
	return req, true
}

// printWarnings writes one "Warning:" line per warning to stderr.
func printWarnings(ws []week.Warning) {
	st := cli.NewStyles(deps.Stderr)
	for _, w := range ws {
		_, _ = fmt.Fprintln(deps.Stderr, st.Warning.Render("Warning: "+cli.FormatWarning(w)))
	}
}

// reportRunError explains why a run stopped and exits.
func reportRunError(err error) {
	stage := service.StageNew
	var runErr *service.RunError
	if errors.As(err, &runErr) {
		stage = runErr.Stage
	}

	switch {
	case errors.Is(err, sheet.ErrIncompleteWeek):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: The week could not be built")
	case stage == service.StageIngested:
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read the timesheet")
	case stage == service.StageExported:
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to fill the time card")
	default:
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to process the timesheet")
	}
	_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Raise timeout_seconds in the [ocr] or [pdf] section of the config file")
	case stage == service.StageIngested:
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check the photo, or pass a transcription with --text or --ocr-json")
	}
	deps.Exit(1)
}
