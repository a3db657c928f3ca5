package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// mazeExtensions are offered when completing maze arguments.
var mazeExtensions = []string{"png", "gif", "jpg", "jpeg", "bmp", "tif", "tiff", "txt"}

var completionGenerators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Print a shell completion script",
		Long: `Completion prints a completion script for the given shell. Maze arguments
complete to image and text files.

  source <(mazeroute completion bash)
  mazeroute completion zsh > "${fpath[1]}/_mazeroute"
  mazeroute completion fish > ~/.config/fish/completions/mazeroute.fish
  mazeroute completion powershell | Out-String | Invoke-Expression`,
		Annotations:           map[string]string{annotationSkipConfig: "true"},
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, ok := completionGenerators[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell %q", args[0])
			}
			return gen(cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// completeMazes completes maze file arguments; limit caps how many may be
// given, 0 meaning any number.
func completeMazes(limit int) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if limit > 0 && len(args) >= limit {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return mazeExtensions, cobra.ShellCompDirectiveFilterFileExt
	}
}

func completeDirs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveFilterDirs
}
