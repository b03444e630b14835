package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/honorpeter/onnc-memplan/internal/config"
	"github.com/honorpeter/onnc-memplan/internal/graphio"
	"github.com/honorpeter/onnc-memplan/internal/memplan"
	"github.com/honorpeter/onnc-memplan/internal/sizeinfo"
)

// defaultOracle is the byte-size value_memory_size() implementation every
// subcommand plans against; a backend with tile-aligned padding would
// substitute its own sizeinfo.Oracle here without touching the CLI.
type defaultOracle = sizeinfo.ByteSizeOracle

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	Device string
}

// NewPlanCommand creates the plan command: memplan plan <graph.json> --device <device.yaml>.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan <graph.json>",
		Short: "Assign scratchpad offsets to a compiled graph's tensors",
		Long: `plan loads a JSON graph document and a device spec, runs the
memory allocation pass, and prints each value's offset range alongside
the peak and worst-case memory requirement.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Device, "device", "", "device spec YAML (required)")

	return cmd
}

func runPlan(opts *PlanOptions, graphFile string, cmd *cobra.Command) error {
	formatter := NewOutputFormatter(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.Verbose)

	if opts.Device == "" {
		return WrapExitError(ExitCommandError, "--device is required", nil)
	}

	g, err := graphio.ReadGraph(graphFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading graph", err)
	}
	formatter.VerboseLog("loaded graph: %d input(s), %d output(s), %d node(s)",
		len(g.Inputs()), len(g.Outputs()), len(g.Nodes()))

	spec, err := config.LoadDeviceSpec(opts.Device)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading device spec", err)
	}
	formatter.VerboseLog("device %q: local_mem_bytes=%s", spec.Name, formatter.FormatBytes(spec.LocalMemBytes))

	dev := memplan.Device{Device: spec.Device(), Oracle: defaultOracle{}}

	report, err := memplan.NewPass().Run(g, dev)
	if err != nil {
		return mapPassError(err)
	}

	if err := report.WriteEntries(formatter.Writer); err != nil {
		return err
	}
	if err := report.WriteSummary(formatter.Writer); err != nil {
		return err
	}

	if report.Peak > dev.LocalMemSize() {
		fmt.Fprintf(formatter.GetErrWriter(), "warning: peak usage %s exceeds device budget %s\n",
			formatter.FormatBytes(report.Peak), formatter.FormatBytes(dev.LocalMemSize()))
	}

	return nil
}

// mapPassError turns a memplan.PassError into the CLI's exit-code
// vocabulary: a missing backend or unsupported operator is a usage
// mistake (ExitCommandError); anything else is a run failure.
func mapPassError(err error) error {
	if errors.Is(err, memplan.ErrMissingBackend) {
		return WrapExitError(ExitCommandError, "missing backend", err)
	}
	if memplan.IsUnsupportedOperator(err) {
		return WrapExitError(ExitCommandError, "unsupported operator", err)
	}
	return WrapExitError(ExitFailure, "running memory plan", err)
}
