package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xolan/timecard/internal/cli"
	"github.com/xolan/timecard/internal/sheet"
)

// fillCmd represents the fill command
var fillCmd = &cobra.Command{
	Use:   "fill <photo> <output.pdf>",
	Short: "Read a timesheet photo and fill the time card",
	Long: `Read a photo of a handwritten weekly timesheet and fill the time card PDF.

The week runs Monday to Sunday. Without --week-start the week is taken from
the dates written on the sheet; dates without a year are read in the current
year (or --year). Problems with single lines are reported as warnings and the
day is left unreadable; the card is still written.

A .txt file is read as a typed transcription, one line per day, and a .json
file as a list of recognised lines. Anything else is read with Tesseract.

Examples:
  timecard fill week31.jpg week31.pdf --template timecard.pdf
  timecard fill week31.jpg week31.pdf --week-start 2025-07-28 --total 40
  timecard fill week31.txt week31.pdf --employee "Jane Doe"`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		fillTimecard(cmd, args[0], args[1])
	},
}

func init() {
	addInputFlags(fillCmd)
	addWeekFlags(fillCmd)
	addPDFFlags(fillCmd)
	fillCmd.Flags().Bool("json", false, "Print the filled rows as JSON instead of the summary")
}

// fillTimecard runs the whole pipeline for one photo and writes output.
func fillTimecard(cmd *cobra.Command, input, output string) {
	cfg, ok := loadConfig()
	if !ok {
		return
	}
	applyPDFFlags(cmd, &cfg)
	if !requireTemplate(cfg) {
		return
	}

	req, ok := newRequest(cmd, input)
	if !ok {
		return
	}
	p, ok := newPipeline(cmd, cfg, newFiller(cfg))
	if !ok {
		return
	}

	res, err := p.RunToFile(commandContext(cmd), req, output)
	if err != nil {
		reportRunError(err)
		return
	}
	printWarnings(res.Sheet.Warnings)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if err := sheet.WriteJSON(deps.Stdout, res.Sheet); err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to write JSON")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			deps.Exit(1)
		}
		return
	}

	cli.RenderSummary(deps.Stdout, res.Sheet)
	_, _ = fmt.Fprintln(deps.Stdout)
	_, _ = fmt.Fprintln(deps.Stdout, cli.NewStyles(deps.Stdout).Success.Render("Wrote "+output))
}
