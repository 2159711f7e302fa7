package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for erwd.

Load completions in the current shell:

  bash:        source <(erwd completion bash)
  zsh:         source <(erwd completion zsh)
  fish:        erwd completion fish | source
  powershell:  erwd completion powershell | Out-String | Invoke-Expression

To load them in every session, write the script to your shell's completion
directory, for example:

  erwd completion bash > /etc/bash_completion.d/erwd
  erwd completion zsh > "${fpath[1]}/_erwd"
  erwd completion fish > ~/.config/fish/completions/erwd.fish
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
