package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for tiltmaze.

Besides commands and flags, the scripts complete saved level names for
"play", "render", "levels show" and "levels delete", so a level kept with
"generate --save" can be reopened by name.

Bash:
  $ source <(tiltmaze completion bash)
  $ tiltmaze completion bash > /etc/bash_completion.d/tiltmaze

Zsh:
  $ tiltmaze completion zsh > "${fpath[1]}/_tiltmaze"

Fish:
  $ tiltmaze completion fish > ~/.config/fish/completions/tiltmaze.fish

PowerShell:
  PS> tiltmaze completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.out)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.out)
			}
			return nil
		},
	}

	return cmd
}

// completeLevelRefs completes the first argument with saved levels, keyed
// by name where one is set. withFiles also allows file paths.
func completeLevelRefs(withFiles bool) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		directive := cobra.ShellCompDirectiveNoFileComp
		if withFiles {
			directive = cobra.ShellCompDirectiveDefault
		}
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		s, err := openLevelStore()
		if err != nil {
			return nil, directive
		}
		defer s.Close()
		summaries, err := s.List(cmd.Context())
		if err != nil {
			return nil, directive
		}

		var out []cobra.Completion
		for _, sum := range summaries {
			ref := sum.ID
			if sum.Name != "" {
				ref = sum.Name
			}
			if !strings.HasPrefix(ref, toComplete) {
				continue
			}
			out = append(out, cobra.CompletionWithDesc(ref, fmt.Sprintf("%dx%d seed %d", sum.Size, sum.Size, sum.Seed)))
		}
		return out, directive
	}
}
