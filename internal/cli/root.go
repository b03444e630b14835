package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared across every subcommand.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand builds the memplan root command and wires its
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "memplan",
		Short: "memplan - static memory planner for DLA graphs",
		Long: `memplan assigns scratchpad offsets to the tensors of a compiled
DLA graph, inserting DMA load/store boundary nodes and tiling
operators that don't fit the device's local memory budget.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose diagnostics on stderr")

	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewVisualizeCommand(opts))

	return cmd
}
