package memplan

import (
	"github.com/honorpeter/onnc-memplan/internal/graph"
	"github.com/honorpeter/onnc-memplan/internal/liveness"
	"github.com/honorpeter/onnc-memplan/internal/sizeinfo"
)

// Pass is C8, the entry point: it owns the Allocator for the duration of
// its lifetime and clears it on every Run, making re-invocation safe
// (spec §5).
type Pass struct {
	alloc *Allocator
}

// NewPass returns a Pass with no prior allocation state.
func NewPass() *Pass {
	return &Pass{alloc: NewAllocator()}
}

// Device is the backend collaborator C8 consumes: local memory capacity
// plus a value-size oracle (spec §6's backend interface).
type Device struct {
	sizeinfo.Device
	sizeinfo.Oracle
}

// Run is spec §4.5's flow, verbatim: clear prior state, insert Load/Store
// (C4), compute liveness (C3) over the mutated graph, allocate offsets
// (C5), and — on overflow — invoke the tiling driver (C7). It always
// returns a *Report on success, even when tiling failed to bring the
// plan under budget (spec §7: "report via the summary line; return
// without failing the pass" — overflow is not an error here).
//
// Run reports the graph as structurally unchanged to its own caller
// (there is no "module changed" return value in this API, mirroring the
// original pass's kModuleNoChanged result) even though it mutates g in
// place via C4 — callers that need to observe the mutation inspect g
// directly. The tile shapes C7 computes on overflow are held only in the
// Driver's split descriptors: they are not written back to g's values and
// are discarded when Run returns.
func (p *Pass) Run(g *graph.Graph, dev Device) (*Report, error) {
	if dev.LocalMemSize() == 0 {
		return nil, newMissingBackendError("")
	}

	if err := InsertLoadStore(g); err != nil {
		return nil, err
	}

	sum := sumDistinctValueSizes(g, dev)

	intervals := liveness.Compute(g)
	p.alloc.Run(intervals, dev)

	peak := p.alloc.Peak()
	if peak > dev.LocalMemSize() {
		// Best-effort: an operator with no split rule skips tiling and a
		// tiling error is dropped; neither is surfaced as a pass error. A
		// remaining overflow shows only in the report's peak.
		if driver, err := NewDriver(g); err == nil {
			_ = driver.RunFromOutputs()
		}
	}

	return NewReport(p.alloc.Entries(), sum), nil
}

// sumDistinctValueSizes is spec §8 property 4's pessimistic upper bound:
// the sum of size_oracle(v) over every distinct value visited, walking
// the graph's nodes (post Load/Store insertion, so Load/Store's own
// edges are included; the original input/output value a Load or Store
// stands in for is swapped out for an equal-sized replacement, not
// duplicated, so the sum is unaffected by exactly when this runs).
func sumDistinctValueSizes(g *graph.Graph, oracle sizeinfo.Oracle) uint64 {
	seen := make(map[*graph.Value]bool)
	var sum uint64
	visit := func(v *graph.Value) {
		if v == nil || seen[v] {
			return
		}
		seen[v] = true
		sum += oracle.ValueMemorySize(v)
	}
	for _, n := range g.Nodes() {
		for _, v := range n.Inputs {
			visit(v)
		}
		for _, v := range n.Outputs {
			visit(v)
		}
	}
	return sum
}
