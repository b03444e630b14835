package memplan

import (
	"fmt"

	"github.com/honorpeter/onnc-memplan/internal/graph"
	"github.com/honorpeter/onnc-memplan/internal/xmath"
)

// DefaultTileAxis and DefaultTileFactor are C7's default proposal: divide
// axis 0 by 2, rounding up (spec §4.4 step 2).
const (
	DefaultTileAxis   = 0
	DefaultTileFactor = int64(2)
)

// MaxTileFactor bounds Driver.RunUntilFits's factor escalation (spec
// §4.4's open "MAY iterate factor ∈ {2, 4, 8, …}" question) so the loop
// is guaranteed to terminate even against a device with an unreachable
// budget.
const MaxTileFactor = int64(1 << 10)

// Driver is C7, the greedy backward tiling driver: it owns exactly one
// SplitNode descriptor per non-Undefined node in the graph — built once
// at construction and discarded with the Driver, per spec §3's SplitNode
// lifecycle ("constructed once ... destroyed at driver end") — and walks
// backward from every graph output, proposing progressively smaller tile
// shapes and asking each producer's descriptor (C6) what shape its own
// inputs would need to be to satisfy it.
type Driver struct {
	g      *graph.Graph
	splits map[*graph.Node]SplitNode
}

// NewDriver builds a SplitNode descriptor for every non-Undefined node in
// g. It fails fast, exactly as the tiling driver treats an unsupported
// kind as fatal to splitting (spec §4.3's "Unsupported kind" case): a
// single node this package has no split rule for aborts the whole
// driver, not just that node's contribution.
func NewDriver(g *graph.Graph) (*Driver, error) {
	splits := make(map[*graph.Node]SplitNode, len(g.Nodes()))
	for _, n := range g.Nodes() {
		if n.Kind == graph.KindUndefined {
			continue
		}
		sn, err := NewSplitNode(n)
		if err != nil {
			return nil, newUnsupportedOperatorError(string(n.Kind), err)
		}
		splits[n] = sn
	}
	return &Driver{g: g, splits: splits}, nil
}

// Result returns the final tile shape chosen for n, or (nil, false) if n
// has no descriptor (an Undefined node, or a node outside this Driver's
// graph).
func (d *Driver) Result(n *graph.Node) (Shape, bool) {
	sn, ok := d.splits[n]
	if !ok {
		return nil, false
	}
	return sn.CurrentOutShape(), true
}

// SplitByFactor is spec §4.4's default proposal, and the original pass's
// splitNodeByFactor: divide axis's current dimension by factor, rounding
// up, then propagate via SplitBySize.
func (d *Driver) SplitByFactor(n *graph.Node, axis int, factor int64, updateUpper bool) error {
	sn, ok := d.splits[n]
	if !ok {
		return fmt.Errorf("tiling: node %s has no split descriptor", n)
	}
	newOut := cloneShape(sn.CurrentOutShape())
	if axis < 0 || axis >= len(newOut) {
		return fmt.Errorf("tiling: axis %d out of range for shape of rank %d", axis, len(newOut))
	}
	newOut[axis] = xmath.CeilDivInt64(newOut[axis], factor)
	return d.SplitBySize(n, newOut, updateUpper)
}

// SplitBySize is spec §4.4's "SplitBySize" entry point (supplemented from
// original_source per SPEC_FULL.md §4): apply newOut as n's tile shape,
// and, when updateUpper is true, recurse into every input's producer with
// the input shape n's own descriptor says it now requires.
//
// A producer-less input (a graph boundary value) simply stops the
// recursion along that edge, matching the original: there is no
// descriptor for something that isn't a node.
func (d *Driver) SplitBySize(n *graph.Node, newOut Shape, updateUpper bool) error {
	sn, ok := d.splits[n]
	if !ok {
		return fmt.Errorf("tiling: node %s has no split descriptor", n)
	}
	if !sn.UseNewOutSize(newOut) {
		return nil
	}
	if !updateUpper {
		return nil
	}

	for i, in := range n.Inputs {
		producer := in.Producer()
		if producer == nil {
			continue
		}
		newInS, err := sn.CalcNewInputSize(i)
		if err != nil {
			return fmt.Errorf("tiling: node %s input %d: %w", n, i, err)
		}
		if err := d.SplitBySize(producer, newInS, true); err != nil {
			return err
		}
	}
	return nil
}

// RunFromOutputs is spec §4.4 steps 1-2: for every graph output whose
// value has a producer, propose dividing axis 0 by 2 (rounding up) and
// propagate backward. It runs exactly once — no re-check of peak against
// budget, no factor escalation — matching spec §4.4's stated default
// ("the driver is greedy ... does not re-run C5").
func (d *Driver) RunFromOutputs() error {
	for _, v := range d.g.Outputs() {
		producer := v.Producer()
		if producer == nil {
			continue
		}
		if err := d.SplitByFactor(producer, DefaultTileAxis, DefaultTileFactor, true); err != nil {
			return err
		}
	}
	return nil
}

// RunUntilFits is the opt-in resolution of spec §4.4's open
// factor-escalation question: it re-runs RunFromOutputs with an
// escalating factor (2, 4, 8, ...) until fits reports satisfaction or
// MaxTileFactor is reached, guaranteeing termination either way. It is
// never invoked by the default `plan` CLI flow (see DESIGN.md); callers
// that want it must call it explicitly.
func (d *Driver) RunUntilFits(fits func() bool) error {
	for factor := DefaultTileFactor; factor <= MaxTileFactor; factor *= 2 {
		for _, v := range d.g.Outputs() {
			producer := v.Producer()
			if producer == nil {
				continue
			}
			if err := d.SplitByFactor(producer, DefaultTileAxis, factor, true); err != nil {
				return err
			}
		}
		if fits() {
			return nil
		}
	}
	return nil
}
