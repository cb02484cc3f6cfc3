package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/timecard/internal/config"
	"github.com/xolan/timecard/internal/service"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the current effective configuration settings for timecard.

Shows the configuration file location, whether it exists, and the settings
in use. Values missing from the file keep their defaults, and flags such as
--template or --employee override the file for a single run.

Examples:
  timecard config                  Show all current settings
  timecard config --toml           Print the settings as a config file
  timecard config init             Create a commented sample config file
  timecard config set pdf.employee "Jane Doe"
                                   Change one setting

Configuration file location:
  ~/.config/timecard/config.toml        Linux
  %APPDATA%\timecard\config.toml        Windows`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showConfig(cmd)
	},
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample config file",
	Long: `Create a config file listing every option with its default value.

Every line is commented out, so the new file changes nothing until a line is
uncommented. An existing config file is never overwritten.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initConfig()
	},
}

// configSetCmd represents the config set command
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting in the config file",
	Long: `Change one setting and save the config file.

The file is rewritten with every current setting, so comments in it are lost.
The new value is checked before anything is written.

Settings:
  log_level, parser.assume_pm_after, parser.default_shift_hours,
  parser.min_confidence, reconcile.tolerance, ocr.languages (comma-separated),
  ocr.page_seg_mode, ocr.whitelist, ocr.min_width, ocr.skip_lines,
  ocr.timeout_seconds, pdf.template, pdf.employee, pdf.client,
  pdf.timeout_seconds

Examples:
  timecard config set pdf.template ~/forms/timecard.pdf
  timecard config set parser.default_shift_hours 7.5
  timecard config set ocr.languages eng,deu`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		setConfig(args[0], args[1])
	},
}

func init() {
	configCmd.Flags().Bool("toml", false, "Print the effective settings as TOML")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
}

// configService loads the config file into a ConfigService, or reports the
// problem and exits.
func configService() (*service.ConfigService, bool) {
	configPath, err := deps.ConfigPath()
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to determine config file location")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check that your home directory is accessible")
		deps.Exit(1)
		return nil, false
	}
	svc := service.NewServicesWithPath(configPath, config.DefaultConfig()).Config
	if err := svc.Reload(); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to load configuration")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that your config file is valid TOML format: %s\n", configPath)
		deps.Exit(1)
		return nil, false
	}
	return svc, true
}

// showConfig displays the current effective configuration
func showConfig(cmd *cobra.Command) {
	svc, ok := configService()
	if !ok {
		return
	}
	cfg := svc.Get()

	if asTOML, _ := cmd.Flags().GetBool("toml"); asTOML {
		content, err := service.Encode(cfg)
		if err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to encode configuration")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			deps.Exit(1)
			return
		}
		_, _ = deps.Stdout.Write(content)
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration for timecard")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 60))
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintf(deps.Stdout, "Config file:     %s\n", svc.GetPath())
	if svc.Exists() {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          File exists (using custom configuration)")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          No config file (using defaults)")
	}
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintln(deps.Stdout, "Current Settings:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "Log Level:       %s\n", cfg.LogLevel)
	_, _ = fmt.Fprintf(deps.Stdout, "Assume PM After: %d\n", cfg.Parser.AssumePMAfter)
	_, _ = fmt.Fprintf(deps.Stdout, "Shift Length:    %gh\n", cfg.Parser.DefaultShiftHours)
	_, _ = fmt.Fprintf(deps.Stdout, "Min Confidence:  %g\n", cfg.Parser.MinConfidence)
	_, _ = fmt.Fprintf(deps.Stdout, "Tolerance:       %gh\n", cfg.Reconcile.Tolerance)
	_, _ = fmt.Fprintf(deps.Stdout, "OCR Languages:   %s\n", strings.Join(cfg.OCR.Languages, ", "))
	_, _ = fmt.Fprintf(deps.Stdout, "OCR Timeout:     %ds\n", cfg.OCR.TimeoutSeconds)
	_, _ = fmt.Fprintf(deps.Stdout, "Template:        %s\n", orDefault(cfg.PDF.Template, "(none)"))
	_, _ = fmt.Fprintf(deps.Stdout, "Employee:        %s\n", orDefault(cfg.PDF.Employee, "(none)"))
	_, _ = fmt.Fprintf(deps.Stdout, "Client:          %s\n", orDefault(cfg.PDF.Client, "(none)"))
	_, _ = fmt.Fprintf(deps.Stdout, "PDF Timeout:     %ds\n", cfg.PDF.TimeoutSeconds)
	_, _ = fmt.Fprintln(deps.Stdout)

	if !svc.Exists() {
		_, _ = fmt.Fprintln(deps.Stdout, "Tip: Run 'timecard config init' to create a config file with every option.")
		_, _ = fmt.Fprintln(deps.Stdout)
	}
}

// initConfig writes the sample config file
func initConfig() {
	svc, ok := configService()
	if !ok {
		return
	}
	if err := svc.Init(); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to create config file")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		if errors.Is(err, service.ErrConfigExists) {
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Edit the existing file, or remove it first")
		}
		deps.Exit(1)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Created %s\n", svc.GetPath())
}

// setConfig changes one setting and saves the file
func setConfig(key, value string) {
	svc, ok := configService()
	if !ok {
		return
	}
	cfg := svc.Get()
	if err := config.Set(&cfg, key, value); err != nil {
		if errors.Is(err, config.ErrUnknownKey) {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Unknown setting '%s'\n", key)
			_, _ = fmt.Fprintf(deps.Stderr, "Hint: Valid settings are %s\n", strings.Join(config.Keys(), ", "))
		} else {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid value for %s\n", key)
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		}
		deps.Exit(1)
		return
	}
	if err := svc.Update(cfg); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to save configuration")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Set %s = %s in %s\n", key, value, svc.GetPath())
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
