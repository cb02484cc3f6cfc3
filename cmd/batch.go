package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/xolan/timecard/internal/cli"
	"github.com/xolan/timecard/internal/service"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <photo>...",
	Short: "Fill one time card per timesheet photo",
	Long: `Fill a time card for each photo, several at a time.

Each card is written to the output directory under the photo's name with a
.pdf extension. The week of each card comes from the dates on its sheet. A
photo that fails does not stop the others; the exit code is 1 if any failed.

Examples:
  timecard batch scans/*.jpg --out-dir cards
  timecard batch week30.jpg week31.jpg --parallel 2`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBatch(cmd, args)
	},
}

func init() {
	addInputFlags(batchCmd)
	addPDFFlags(batchCmd)
	batchCmd.Flags().StringP("out-dir", "o", ".", "Directory for the filled time cards")
	batchCmd.Flags().IntP("parallel", "p", 4, "Number of photos processed at the same time")
}

// outputPath is where the card for input goes inside dir.
func outputPath(dir, input string) string {
	base := filepath.Base(input)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".pdf")
}

// runBatch fills a card per input and reports each as it finishes.
func runBatch(cmd *cobra.Command, inputs []string) {
	parallel, _ := cmd.Flags().GetInt("parallel")
	if parallel < 1 {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid --parallel %d\n", parallel)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use 1 or more")
		deps.Exit(1)
		return
	}

	cfg, ok := loadConfig()
	if !ok {
		return
	}
	applyPDFFlags(cmd, &cfg)
	if !requireTemplate(cfg) {
		return
	}

	outDir, _ := cmd.Flags().GetString("out-dir")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to create output directory %s\n", outDir)
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	items := make([]service.BatchItem, 0, len(inputs))
	seen := make(map[string]string, len(inputs))
	for _, input := range inputs {
		out := outputPath(outDir, input)
		if prev, dup := seen[out]; dup {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: %s and %s would both be written to %s\n", prev, input, out)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Rename one of the photos or run them in separate batches")
			deps.Exit(1)
			return
		}
		seen[out] = input

		req, ok := newRequest(cmd, input)
		if !ok {
			return
		}
		items = append(items, service.BatchItem{Request: req, Output: out})
	}

	p, ok := newPipeline(cmd, cfg, newFiller(cfg))
	if !ok {
		return
	}

	st := cli.NewStyles(deps.Stdout)
	var mu sync.Mutex
	results := p.RunBatch(commandContext(cmd), items, parallel, func(done, total int, r service.BatchResult) {
		mu.Lock()
		defer mu.Unlock()
		if r.Err != nil {
			_, _ = fmt.Fprintln(deps.Stdout, st.Error.Render(fmt.Sprintf("[%d/%d] %s failed", done, total, r.Result.ID)))
			return
		}
		line := fmt.Sprintf("[%d/%d] %s -> %s (%s)", done, total, r.Result.ID, r.Output, r.Result.Sheet.Total)
		if r.Result.Sheet.Mismatch {
			line += " " + st.Warning.Render("total mismatch")
		}
		_, _ = fmt.Fprintln(deps.Stdout, line)
	})

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", r.Err)
			continue
		}
		for _, w := range r.Result.Sheet.Warnings {
			_, _ = fmt.Fprintf(deps.Stderr, "Warning: %s: %s\n", r.Result.ID, cli.FormatWarning(w))
		}
	}

	_, _ = fmt.Fprintln(deps.Stdout)
	summary := fmt.Sprintf("%d of %d %s filled", len(results)-failed, len(results), cli.Pluralize("time card", len(results)))
	if failed > 0 {
		_, _ = fmt.Fprintln(deps.Stdout, st.Error.Render(summary))
		deps.Exit(1)
		return
	}
	_, _ = fmt.Fprintln(deps.Stdout, st.Success.Render(summary))
}
