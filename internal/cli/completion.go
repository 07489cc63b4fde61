package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skillgalaxy/pkg/catalog"
	"github.com/matzehuels/skillgalaxy/pkg/core/build"
	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
)

// inputExtensions are the files every galaxy command accepts: catalogs in
// any encoding, and layout JSON.
var inputExtensions = []string{"toml", "yaml", "yml", "json"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for skillgalaxy.

Besides commands and flags, completions offer catalog files for the input
argument and, for 'chain', the node ids found in the chosen catalog.

Bash:
  $ source <(skillgalaxy completion bash)

Zsh:
  $ skillgalaxy completion zsh > "${fpath[1]}/_skillgalaxy"

Fish:
  $ skillgalaxy completion fish > ~/.config/fish/completions/skillgalaxy.fish

PowerShell:
  PS> skillgalaxy completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(c.Out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.Out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.Out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.Out)
			}
			return nil
		},
	}
}

// completeInput offers catalog and layout files for the first argument.
func completeInput(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return inputExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completeChainArgs completes the input file, then the node ids it holds.
func completeChainArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return completeInput(cmd, args, toComplete)
	case 1:
		ids, err := nodeIDs(args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var out []string
		for _, id := range ids {
			if strings.HasPrefix(id, toComplete) {
				out = append(out, id)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// nodeIDs lists the node ids of a layout file, or of a catalog built
// without proficiency data. It never lays out or touches the cache, so
// completion stays fast.
func nodeIDs(input string) ([]string, error) {
	var g *galaxy.Graph
	p, ok, err := readLayoutFile(input)
	switch {
	case err != nil:
		return nil, err
	case ok:
		g = p.Graph
	default:
		cat, err := catalog.LoadFile(input)
		if err != nil {
			return nil, err
		}
		res, err := build.Build(cat, nil, nil)
		if err != nil {
			return nil, err
		}
		g = res.Graph
	}

	ids := make([]string, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	slices.Sort(ids)
	return ids, nil
}
