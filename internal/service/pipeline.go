package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xolan/timecard/internal/config"
	"github.com/xolan/timecard/internal/entry"
	"github.com/xolan/timecard/internal/ocr"
	"github.com/xolan/timecard/internal/osutil"
	"github.com/xolan/timecard/internal/pdf"
	"github.com/xolan/timecard/internal/sheet"
	"github.com/xolan/timecard/internal/timeutil"
	"github.com/xolan/timecard/internal/week"
)

// Pipeline runs requests through every stage. It holds no per-run state and
// may be shared by concurrent runs.
type Pipeline struct {
	cfg    config.Config
	engine ocr.Engine
	filler pdf.Filler
	parser *entry.Parser
	now    func() time.Time
}

// NewPipeline returns a pipeline reading through engine and writing through
// filler. filler may be nil when only Build is used.
func NewPipeline(cfg config.Config, engine ocr.Engine, filler pdf.Filler) (*Pipeline, error) {
	opts := cfg.ParserOptions()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parser options: %w", err)
	}
	if engine == nil {
		return nil, fmt.Errorf("no OCR engine configured")
	}
	return &Pipeline{
		cfg:    cfg,
		engine: engine,
		filler: filler,
		parser: entry.NewParser(opts),
		now:    time.Now,
	}, nil
}

// Build runs req up to StageBuilt. Lines that cannot be parsed or placed
// become warnings; only recognition failures, cancellation and an
// incomplete week stop the run.
func (p *Pipeline) Build(ctx context.Context, req Request) (Result, error) {
	res := Result{ID: req.ID, Stage: StageNew}
	fail := func(stage Stage, err error) (Result, error) {
		slog.Debug("run failed", "id", req.ID, "stage", stage, "error", err)
		return res, &RunError{ID: req.ID, Stage: stage, Err: err}
	}

	// Ingested
	in := ocr.Input{
		ID:          req.ID,
		Image:       req.Data,
		Languages:   p.cfg.OCR.Languages,
		PageSegMode: p.cfg.OCR.PageSegMode,
		Whitelist:   p.cfg.OCR.Whitelist,
	}
	started := time.Now()
	recognized, err := withTimeout(ctx, seconds(p.cfg.OCR.TimeoutSeconds), func(ctx context.Context) (ocr.Result, error) {
		return p.engine.Recognize(ctx, in)
	})
	if err != nil {
		return fail(StageIngested, fmt.Errorf("%s recognition: %w", p.engine.Name(), err))
	}
	raws := recognized.RawEntries(p.cfg.OCR.SkipLines)
	p.advance(&res, StageIngested, "engine", p.engine.Name(), "lines", len(raws), "elapsed", time.Since(started))

	// Parsed
	if err := ctx.Err(); err != nil {
		return fail(StageParsed, err)
	}
	dayRaws, written := entry.ExtractTotal(raws)
	var warnings []week.Warning
	res.Entries = make([]entry.TimeEntry, 0, len(dayRaws))
	for i, r := range p.parser.Parse(dayRaws) {
		res.Entries = append(res.Entries, r.Entry)
		if r.Err != nil {
			warnings = append(warnings, week.UnparseableWarning(dayRaws[i].Index, r.Err))
		}
	}
	p.advance(&res, StageParsed, "entries", len(res.Entries), "unparseable", len(warnings))

	// Assigned
	if err := ctx.Err(); err != nil {
		return fail(StageAssigned, err)
	}
	start, startWarning := p.weekStart(req, res.Entries)
	if startWarning != nil {
		warnings = append(warnings, *startWarning)
	}
	assignment := week.Assign(start, res.Entries)
	p.advance(&res, StageAssigned, "week_start", assignment.Start)

	// Reconciled
	handwritten := written
	if req.Handwritten != nil {
		handwritten = req.Handwritten
	}
	rec := week.New(assignment, handwritten)
	rec.Warnings = append(warnings, rec.Warnings...)
	res.Week = week.Reconcile(rec, p.cfg.Reconcile.Tolerance)
	p.advance(&res, StageReconciled, "computed", res.Week.Computed, "mismatch", res.Week.Mismatch)

	// Built
	s, err := sheet.Build(res.Week)
	if err != nil {
		return fail(StageBuilt, err)
	}
	res.Sheet = s
	p.advance(&res, StageBuilt, "warnings", len(s.Warnings))
	return res, nil
}

// Run builds req and writes the filled form to w. Nothing is written unless
// every stage succeeds.
func (p *Pipeline) Run(ctx context.Context, req Request, w io.Writer) (Result, error) {
	res, err := p.Build(ctx, req)
	if err != nil {
		return res, err
	}
	data, err := p.Export(ctx, res.Sheet)
	if err != nil {
		return res, &RunError{ID: req.ID, Stage: StageExported, Err: err}
	}
	if _, err := w.Write(data); err != nil {
		return res, &RunError{ID: req.ID, Stage: StageExported, Err: fmt.Errorf("failed to write PDF: %w", err)}
	}
	p.advance(&res, StageExported, "bytes", len(data))
	return res, nil
}

// RunToFile is Run writing to path. The file is replaced atomically, so a
// failed run leaves any previous output untouched.
func (p *Pipeline) RunToFile(ctx context.Context, req Request, path string) (Result, error) {
	var buf bytes.Buffer
	res, err := p.Run(ctx, req, &buf)
	if err != nil {
		return res, err
	}
	if err := osutil.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		res.Stage = StageBuilt
		return res, &RunError{ID: req.ID, Stage: StageExported, Err: fmt.Errorf("failed to write %s: %w", path, err)}
	}
	return res, nil
}

// Export renders s through the filler under the PDF timeout.
func (p *Pipeline) Export(ctx context.Context, s sheet.Sheet) ([]byte, error) {
	if p.filler == nil {
		return nil, fmt.Errorf("no PDF filler configured")
	}
	started := time.Now()
	data, err := withTimeout(ctx, seconds(p.cfg.PDF.TimeoutSeconds), func(ctx context.Context) ([]byte, error) {
		var buf bytes.Buffer
		if err := p.filler.Fill(ctx, s, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("filled form", "elapsed", time.Since(started))
	return data, nil
}

func (p *Pipeline) weekStart(req Request, entries []entry.TimeEntry) (timeutil.Date, *week.Warning) {
	if !req.WeekStart.IsZero() {
		return req.WeekStart, nil
	}
	ref := req.Reference
	if ref.IsZero() {
		ref = timeutil.DateOf(p.now())
	}
	if req.Month != 0 {
		ref = timeutil.NewDate(ref.Year, req.Month, 15)
	}
	if start, ok := week.DetectWeekStart(entries, ref); ok {
		return start, nil
	}
	start := timeutil.MondayOf(ref)
	return start, &week.Warning{
		Code:    week.CodeDateRangeAmbiguous,
		Index:   -1,
		Message: fmt.Sprintf("no week start given and no dates on the sheet; using the week of %s", start),
	}
}

func (p *Pipeline) advance(res *Result, stage Stage, attrs ...any) {
	res.Stage = stage
	slog.Debug("stage complete", append([]any{"id", res.ID, "stage", stage}, attrs...)...)
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// withTimeout runs fn in its own goroutine and gives up when ctx is done or d
// elapses. fn keeps running in the background after a timeout; its result is
// discarded.
func withTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	type outcome struct {
		v   T
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		v, err := fn(ctx)
		ch <- outcome{v, err}
	}()

	select {
	case o := <-ch:
		return o.v, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
