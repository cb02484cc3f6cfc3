package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xolan/timecard/internal/config"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for timecard.

Completion covers commands, flags, photo and transcription file names, and
the values of --format.

Bash:
  source <(timecard completion bash)
  timecard completion bash > ~/.local/share/bash-completion/completions/timecard

Zsh:
  timecard completion zsh > "${fpath[1]}/_timecard"

Fish:
  timecard completion fish > ~/.config/fish/completions/timecard.fish

PowerShell:
  timecard completion powershell | Out-String | Invoke-Expression`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		generateCompletion(args[0])
	},
}

// inputExtensions are the files offered when completing a timesheet argument.
var inputExtensions = []string{"jpg", "jpeg", "png", "tif", "tiff", "bmp", "webp", "gif", "txt", "json"}

// registerCompletions wires argument and flag completion. It runs after
// every command has registered its flags.
func registerCompletions() {
	fillCmd.ValidArgsFunction = completeFillArgs
	parseCmd.ValidArgsFunction = completeInputs
	batchCmd.ValidArgsFunction = completeInputs

	for _, c := range []*cobra.Command{fillCmd, batchCmd} {
		_ = c.MarkFlagFilename("template", "pdf")
	}
	_ = batchCmd.MarkFlagDirname("out-dir")
	configSetCmd.ValidArgsFunction = completeConfigKeys
	_ = parseCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text\tTable with totals", "json\tRows, totals and warnings", "csv\tOne row per day"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// completeInputs offers photos and transcriptions.
func completeInputs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return inputExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completeConfigKeys offers the setting names for the first argument of
// config set.
func completeConfigKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.Keys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// completeFillArgs offers a timesheet first, then a PDF to write.
func completeFillArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return completeInputs(cmd, args, toComplete)
	case 1:
		return []string{"pdf"}, cobra.ShellCompDirectiveFilterFileExt
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// generateCompletion generates the appropriate completion script based on shell type
func generateCompletion(shell string) {
	var err error

	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletionV2(deps.Stdout, true)
	case "zsh":
		err = rootCmd.GenZshCompletion(deps.Stdout)
	case "fish":
		err = rootCmd.GenFishCompletion(deps.Stdout, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(deps.Stdout)
	default:
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Unsupported shell '%s'\n", shell)
		_, _ = fmt.Fprintln(deps.Stderr, "Supported shells: bash, zsh, fish, powershell")
		deps.Exit(1)
		return
	}

	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to generate %s completion: %v\n", shell, err)
		deps.Exit(1)
		return
	}
}
