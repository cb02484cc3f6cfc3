package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestGenerateCompletion(t *testing.T) {
	tests := []struct {
		shell  string
		marker string
	}{
		{"bash", "bash completion V2 for timecard"},
		{"zsh", "#compdef timecard"},
		{"fish", "fish completion for timecard"},
		{"powershell", "powershell completion for timecard"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			env := newTestEnv(t)
			d, stdout, stderr := testDeps(env)
			SetDeps(d)
			defer ResetDeps()

			generateCompletion(tt.shell)

			if stderr.Len() != 0 {
				t.Errorf("Expected no errors, got: %s", stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.marker) {
				t.Errorf("Expected %s script to contain %q", tt.shell, tt.marker)
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	env := newTestEnv(t)
	d, stdout, stderr := testDeps(env)
	SetDeps(d)
	defer ResetDeps()

	generateCompletion("tcsh")

	if env.exitCode != 1 {
		t.Errorf("Expected exit code 1, got %d", env.exitCode)
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected no script output, got: %s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Error: Unsupported shell 'tcsh'") {
		t.Errorf("Expected unsupported shell error, got: %s", stderr.String())
	}
}

func TestCompleteFillArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		first     string
		directive cobra.ShellCompDirective
	}{
		{"photo first", nil, "jpg", cobra.ShellCompDirectiveFilterFileExt},
		{"pdf second", []string{"week.jpg"}, "pdf", cobra.ShellCompDirectiveFilterFileExt},
		{"nothing third", []string{"week.jpg", "week.pdf"}, "", cobra.ShellCompDirectiveNoFileComp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, directive := completeFillArgs(fillCmd, tt.args, "")
			if directive != tt.directive {
				t.Errorf("completeFillArgs(%v) directive = %d, expected %d", tt.args, directive, tt.directive)
			}
			first := ""
			if len(got) > 0 {
				first = got[0]
			}
			if first != tt.first {
				t.Errorf("completeFillArgs(%v) first = %q, expected %q", tt.args, first, tt.first)
			}
		})
	}
}

func TestCompleteConfigKeys(t *testing.T) {
	got, directive := completeConfigKeys(configSetCmd, nil, "")
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %d, expected %d", directive, cobra.ShellCompDirectiveNoFileComp)
	}
	found := false
	for _, k := range got {
		if k == "pdf.employee" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected pdf.employee among %v", got)
	}

	if got, _ := completeConfigKeys(configSetCmd, []string{"pdf.employee"}, ""); len(got) != 0 {
		t.Errorf("Expected no completions for the value, got %v", got)
	}
}
