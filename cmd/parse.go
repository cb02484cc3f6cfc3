package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xolan/timecard/internal/cli"
	"github.com/xolan/timecard/internal/sheet"
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <photo>",
	Short: "Show what was read from a timesheet without filling a time card",
	Long: `Read a timesheet and print the rows that would go on the time card.

Formats:
  text   Table with the week total and the handwritten total (default)
  json   The rows, totals and warnings as JSON
  csv    One row per day plus a total row

Examples:
  timecard parse week31.jpg
  timecard parse week31.txt --week-start 2025-07-28
  timecard parse week31.jpg --format csv > week31.csv`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parseTimesheet(cmd, args[0])
	},
}

func init() {
	addInputFlags(parseCmd)
	addWeekFlags(parseCmd)
	parseCmd.Flags().StringP("format", "f", "text", "Output format: text, json or csv")
}

// parseTimesheet runs the pipeline up to the built sheet and prints it.
func parseTimesheet(cmd *cobra.Command, input string) {
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" && format != "csv" {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid format '%s'\n", format)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use text, json or csv")
		deps.Exit(1)
		return
	}

	cfg, ok := loadConfig()
	if !ok {
		return
	}
	req, ok := newRequest(cmd, input)
	if !ok {
		return
	}
	p, ok := newPipeline(cmd, cfg, nil)
	if !ok {
		return
	}

	res, err := p.Build(commandContext(cmd), req)
	if err != nil {
		reportRunError(err)
		return
	}
	printWarnings(res.Sheet.Warnings)

	switch format {
	case "json":
		err = sheet.WriteJSON(deps.Stdout, res.Sheet)
	case "csv":
		err = sheet.WriteCSV(deps.Stdout, res.Sheet)
	default:
		cli.RenderSummary(deps.Stdout, res.Sheet)
	}
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to write %s\n", format)
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
	}
}
