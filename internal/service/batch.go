package service

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// BatchItem is one timesheet of a batch and where its filled form goes.
type BatchItem struct {
	Request Request
	Output  string
}

// BatchResult is the outcome of one BatchItem.
type BatchResult struct {
	Output string
	Result Result
	Err    error
}

// ProgressFunc is called after each item finishes, from the goroutine that
// ran it.
type ProgressFunc func(done, total int, r BatchResult)

// RunBatch runs items with at most parallel runs at a time. A failed run does
// not stop the others; results are in the same order as items. Cancelling
// ctx abandons the runs that have not finished.
func (p *Pipeline) RunBatch(ctx context.Context, items []BatchItem, parallel int, progress ProgressFunc) []BatchResult {
	if parallel < 1 {
		parallel = 1
	}

	results := make([]BatchResult, len(items))
	var done int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, item := range items {
		g.Go(func() error {
			res, err := p.RunToFile(ctx, item.Request, item.Output)
			results[i] = BatchResult{Output: item.Output, Result: res, Err: err}
			n := atomic.AddInt64(&done, 1)
			if progress != nil {
				progress(int(n), len(items), results[i])
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
