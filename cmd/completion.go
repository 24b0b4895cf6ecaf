package cmd

import (
	"github.com/derickschaefer/streamify/internal/model"
	"github.com/derickschaefer/streamify/internal/render"
	"github.com/derickschaefer/streamify/internal/table"
	"github.com/spf13/cobra"
)

// completionCmd wraps Cobra's built-in shell completion generator.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for streamify. Flag values such as
--range, --format and --sort complete too.

  # bash
  source <(streamify completion bash)

  # zsh
  source <(streamify completion zsh)

  # fish
  streamify completion fish | source`,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cmd.Root()
		switch args[0] {
		case "bash":
			return root.GenBashCompletionV2(cmd.OutOrStdout(), true)
		case "zsh":
			return root.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return root.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		default:
			return cmd.Help()
		}
	},
}

// fixedValues completes a flag from a fixed list.
func fixedValues(vals ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return vals, cobra.ShellCompDirectiveNoFileComp
	}
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// registerCompletions wires flag value completion. It runs from Execute,
// after every command's init has registered its flags.
func registerCompletions() {
	ranges := make([]string, len(model.Ranges))
	for i, r := range model.Ranges {
		ranges[i] = string(r) + "\t" + r.Label()
	}
	_ = rootCmd.RegisterFlagCompletionFunc("range", fixedValues(ranges...))
	_ = rootCmd.RegisterFlagCompletionFunc("format", fixedValues(render.Formats...))
	_ = rootCmd.RegisterFlagCompletionFunc("source", fixedValues("memory", "store"))

	cols := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = string(c)
	}
	for _, c := range []*cobra.Command{streamsListCmd, streamsExportCmd, streamsTableCmd} {
		_ = c.RegisterFlagCompletionFunc("sort", fixedValues(cols...))
	}
}
