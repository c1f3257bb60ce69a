package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/toolwire/internal/normalize"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(toolwire completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ toolwire completion bash > /etc/bash_completion.d/toolwire
  # macOS:
  $ toolwire completion bash > $(brew --prefix)/etc/bash_completion.d/toolwire

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ toolwire completion zsh > "${fpath[1]}/_toolwire"

Fish:
  $ toolwire completion fish | source

PowerShell:
  PS> toolwire completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:                  runCompletion,
}

func init() {
	normalizeCmd.ValidArgsFunction = completeKinds
	_ = rootCmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", cobra.FixedCompletions(
		[]string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", cobra.FixedCompletions(
		[]string{"json", "text"}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	switch args[0] {
	case "bash":
		return rootCmd.GenBashCompletion(out)
	case "zsh":
		return rootCmd.GenZshCompletion(out)
	case "fish":
		return rootCmd.GenFishCompletion(out, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(out)
	}
	return nil
}

// completeKinds completes the KIND argument of normalize; later arguments
// are files.
func completeKinds(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	var kinds []cobra.Completion
	for _, n := range normalize.New().Normalizers() {
		kinds = append(kinds, cobra.CompletionWithDesc(n.Kind, n.Description))
	}
	return kinds, cobra.ShellCompDirectiveNoFileComp
}

func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	return outputFormats(), cobra.ShellCompDirectiveNoFileComp
}
