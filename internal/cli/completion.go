package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// completionShells maps each supported shell to its generator and install hint.
var completionShells = []struct {
	name    string
	install string
	gen     func(root *cobra.Command, w io.Writer) error
}{
	{
		name: "bash",
		install: `  $ source <(statuspane completion bash)
  $ statuspane completion bash > /etc/bash_completion.d/statuspane`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	},
	{
		name: "zsh",
		install: `  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  $ statuspane completion zsh > "${fpath[1]}/_statuspane"`,
		gen: func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	},
	{
		name:    "fish",
		install: `  $ statuspane completion fish > ~/.config/fish/completions/statuspane.fish`,
		gen:     func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	},
	{
		name:    "powershell",
		install: `  PS> statuspane completion powershell | Out-String | Invoke-Expression`,
		gen:     func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	},
}

func newCompletionCmd() *cobra.Command {
	completion := &cobra.Command{
		Use:     "completion [bash|zsh|fish|powershell]",
		Short:   "Generate shell completion scripts",
		GroupID: "utility",
		// buildDeps creates the config file, which must not happen while the
		// shell is merely loading completions.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
	}

	for _, sh := range completionShells {
		gen := sh.gen
		completion.AddCommand(&cobra.Command{
			Use:                   sh.name,
			Short:                 "Generate " + sh.name + " completion script",
			Long:                  "Generate the autocompletion script for " + sh.name + ".\n\nTo load completions:\n" + sh.install,
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return gen(cmd.Root(), cmd.OutOrStdout())
			},
		})
	}
	return completion
}
