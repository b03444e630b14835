package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/honorpeter/onnc-memplan/internal/config"
	"github.com/honorpeter/onnc-memplan/internal/graph"
	"github.com/honorpeter/onnc-memplan/internal/graphio"
	"github.com/honorpeter/onnc-memplan/internal/memplan"
)

// VisualizeOptions holds flags for the visualize command.
type VisualizeOptions struct {
	*RootOptions
	Device string
	Output string
}

// NewVisualizeCommand creates the visualize command: it runs the plan,
// then renders the graph as a Graphviz DOT file with nodes colored by
// their allocator offset band, in the teacher's DOT-writing idiom
// (visualize.go's VisualizeSolution) retargeted from the tensor/op DAG
// to this module's graph.Graph/memplan.Report.
func NewVisualizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VisualizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "visualize <graph.json>",
		Short:         "Render a planned graph as a Graphviz DOT file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVisualize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Device, "device", "", "device spec YAML (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "graph.dot", "output DOT file path")

	return cmd
}

func runVisualize(opts *VisualizeOptions, graphFile string, cmd *cobra.Command) error {
	formatter := NewOutputFormatter(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.Verbose)

	if opts.Device == "" {
		return WrapExitError(ExitCommandError, "--device is required", nil)
	}

	g, err := graphio.ReadGraph(graphFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading graph", err)
	}
	formatter.VerboseLog("loaded graph: %d node(s)", len(g.Nodes()))

	spec, err := config.LoadDeviceSpec(opts.Device)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading device spec", err)
	}
	dev := memplan.Device{Device: spec.Device(), Oracle: defaultOracle{}}

	report, err := memplan.NewPass().Run(g, dev)
	if err != nil {
		return WrapExitError(ExitFailure, "running memory plan", err)
	}
	formatter.VerboseLog("peak = %s, sum = %s", formatter.FormatBytes(report.Peak), formatter.FormatBytes(report.Sum))

	dot := renderDOT(g, report)
	if err := os.WriteFile(opts.Output, []byte(dot), 0o644); err != nil {
		return WrapExitError(ExitCommandError, "writing DOT file", err)
	}

	fmt.Fprintf(formatter.Writer, "wrote %s\n", opts.Output)
	return nil
}

// bandColor buckets an offset into one of a handful of fixed colors so
// adjacent, non-overlapping allocations are visually distinguishable
// without computing a continuous palette.
func bandColor(offset uint64) string {
	palette := []string{"lightyellow", "lightpink", "lightcyan", "lightgoldenrod", "palegreen", "thistle"}
	return palette[(offset/4096)%uint64(len(palette))]
}

func renderDOT(g *graph.Graph, report *memplan.Report) string {
	offsetOf := make(map[string]uint64, len(report.Entries))
	sizeOf := make(map[string]uint64, len(report.Entries))
	for _, e := range report.Entries {
		offsetOf[e.Value.Name] = e.StartAddr
		sizeOf[e.Value.Name] = e.Size
	}

	var sb strings.Builder
	sb.WriteString("digraph MemPlan {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Arial\"];\n")
	sb.WriteString("  edge [fontname=\"Arial\", fontsize=10];\n\n")

	seen := make(map[string]bool)
	writeValue := func(v *graph.Value) {
		if v == nil || seen[v.Name] {
			return
		}
		seen[v.Name] = true
		if off, ok := offsetOf[v.Name]; ok {
			label := fmt.Sprintf("%s\\n[%d, %d)", v.Name, off, off+sizeOf[v.Name])
			fmt.Fprintf(&sb, "  %q [label=\"%s\", fillcolor=\"%s\"];\n", v.Name, label, bandColor(off))
		} else {
			fmt.Fprintf(&sb, "  %q [label=\"%s\", fillcolor=\"white\"];\n", v.Name, v.Name)
		}
	}

	for _, n := range g.Nodes() {
		for _, v := range n.Inputs {
			writeValue(v)
		}
		for _, v := range n.Outputs {
			writeValue(v)
		}
	}

	sb.WriteString("\n")
	for i, n := range g.Nodes() {
		fmt.Fprintf(&sb, "  %q [label=%q, shape=ellipse, fillcolor=\"lightgrey\"];\n", nodeID(i), string(n.Kind))
		for _, v := range n.Inputs {
			fmt.Fprintf(&sb, "  %q -> %q;\n", v.Name, nodeID(i))
		}
		for _, v := range n.Outputs {
			fmt.Fprintf(&sb, "  %q -> %q;\n", nodeID(i), v.Name)
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func nodeID(i int) string { return fmt.Sprintf("op%d", i) }
