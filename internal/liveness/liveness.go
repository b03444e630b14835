// Package liveness is a concrete implementation of the liveness
// collaborator spec.md §6 describes: an ordered collection of
// LiveIntervals, each exposing Value/Start/End.
//
// Grounded on the backward dataflow shape used by
// wippyai-wasm-runtime's LivenessAnalyzer (def/use over a linear
// instruction stream) and SnellerInc-sneller's ssastack value-lifetime
// bookkeeping, simplified to this module's single-def SSA-like values:
// every Value has exactly one producer (or none, if it's a graph input),
// so liveness reduces to "first definition to last use" rather than a
// full dataflow fixpoint.
package liveness

import (
	"sort"

	"github.com/honorpeter/onnc-memplan/internal/graph"
)

// LiveInterval is spec §3's (value, start, end) with start < end, half-open
// over the linear schedule (here: node-list index).
type LiveInterval struct {
	Value *graph.Value
	Start uint64
	End   uint64
}

// Intersects reports whether two live intervals overlap, per spec §4.2's
// overlap predicate applied to [start, end) ranges.
func (a LiveInterval) Intersects(b LiveInterval) bool {
	return !(a.End <= b.Start || b.End <= a.Start)
}

// Compute derives, for the graph's current node order (its linear
// schedule), every value's live interval: [index of its producer,
// index of its last use + 1). Values that some node produces but no node
// consumes, such as graph outputs with no consumer at all, get a minimal
// one-instruction interval at their definition point so they still
// receive a placement. Only values that appear as some node's input or
// output are visited: a value no node reads or writes (e.g. a graph input
// whose uses were all redirected onto a Load's output) gets no interval.
//
// The returned slice is ordered start ascending, then end ascending, then
// value name ascending — the deterministic order spec §4.2 requires C3 to
// supply and spec §8 property 5 demands stay stable run to run.
func Compute(g *graph.Graph) []LiveInterval {
	nodes := g.Nodes()
	posOf := make(map[*graph.Node]int, len(nodes))
	for i, n := range nodes {
		posOf[n] = i
	}

	seen := make(map[*graph.Value]bool)
	var intervals []LiveInterval

	visit := func(v *graph.Value) {
		if v == nil || seen[v] {
			return
		}
		seen[v] = true

		start := uint64(0)
		if p := v.Producer(); p != nil {
			start = uint64(posOf[p])
		}

		end := start + 1
		for _, u := range v.Uses() {
			if pos, ok := posOf[u.User]; ok {
				if e := uint64(pos) + 1; e > end {
					end = e
				}
			}
		}

		intervals = append(intervals, LiveInterval{Value: v, Start: start, End: end})
	}

	for _, n := range nodes {
		for _, in := range n.Inputs {
			visit(in)
		}
		for _, out := range n.Outputs {
			visit(out)
		}
	}

	sort.SliceStable(intervals, func(i, j int) bool {
		a, b := intervals[i], intervals[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return a.Value.Name < b.Value.Name
	})

	return intervals
}
