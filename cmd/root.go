package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xolan/timecard/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "timecard",
	Short: "Fill an agency time card PDF from a photo of a handwritten timesheet",
	Long: `timecard reads a photo of a handwritten weekly timesheet, works out the
hours for each day of the Monday-Sunday week, checks them against the
handwritten total and fills the agency's PDF time card.

Usage:
  timecard fill <photo> <output.pdf>     Read the photo and fill the time card
  timecard parse <photo>                 Show what was read without writing a PDF
  timecard batch <photo>...              Fill one time card per photo
  timecard config                        Show the current configuration
  timecard config init                   Create a sample config file
  timecard config set <key> <value>      Change one setting

Handwriting the parser understands:
  8-4, 8:00-16:30, 9 to 3pm, 7a-3p       Start and end times
  7.5, 7,5, 8h, 6 hrs                    Hours worked
  8am, until 5pm                         One end of the shift (the other is
                                         filled in from default_shift_hours)
  off, x, -, n/a, (empty)                Day off
  9 to 3pm - 6                           Times followed by the hours written for the day
  7/28 8-4, 7-28 8-4, Mon 8-4            Lines may start with a date or weekday
  4 - 9 to 3pm                           ...or a day of the month (see --month)
  Total 40, or 40 on the last line       The handwritten week total`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (default from config)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)

	registerCompletions()
}

// setupLogging sends logs to stderr at the level from --log-level, or from
// the config file when the flag is not given. --log-format json writes one
// JSON object per line for log collectors.
func setupLogging(cmd *cobra.Command) {
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		if cfg, ok := loadConfigQuiet(); ok {
			level = cfg.LogLevel
		}
	}
	format, _ := cmd.Flags().GetString("log-format")
	switch format {
	case "text", "json":
	default:
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid log format '%s'\n", format)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use --log-format text or --log-format json")
		deps.Exit(1)
		return
	}
	logging.Init(deps.Stderr, format == "json", logging.ParseLevel(level))
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"timecard version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
