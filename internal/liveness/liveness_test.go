package liveness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honorpeter/onnc-memplan/internal/graph"
)

// a -> Relu -> b -> Sigmoid -> c
func buildChain(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.NewGraph(nil)
	a := graph.NewValue("a", []int64{2, 2}, graph.Float32)
	g.AddInput(a)
	b := graph.NewValue("b", []int64{2, 2}, graph.Float32)
	g.AddNode(&graph.Node{Kind: graph.KindRelu, Inputs: []*graph.Value{a}, Outputs: []*graph.Value{b}})
	c := graph.NewValue("c", []int64{2, 2}, graph.Float32)
	g.AddNode(&graph.Node{Kind: graph.KindSigmoid, Inputs: []*graph.Value{b}, Outputs: []*graph.Value{c}})
	g.AddOutput(c)
	return g
}

func TestComputeOrdersByStartThenEnd(t *testing.T) {
	g := buildChain(t)
	intervals := Compute(g)
	require.Len(t, intervals, 3)

	byName := make(map[string]LiveInterval, len(intervals))
	for _, iv := range intervals {
		byName[iv.Value.Name] = iv
	}

	// a: defined at node -1 equivalent -> 0 (no producer), last used by Relu (node 0) -> end 1.
	assert.Equal(t, LiveInterval{Value: byName["a"].Value, Start: 0, End: 1}, byName["a"])
	// b: defined by Relu (node 0), used by Sigmoid (node 1) -> [0, 2).
	assert.Equal(t, uint64(0), byName["b"].Start)
	assert.Equal(t, uint64(2), byName["b"].End)
	// c: defined by Sigmoid (node 1), never consumed in-graph (it's a graph output) -> [1, 2).
	assert.Equal(t, uint64(1), byName["c"].Start)
	assert.Equal(t, uint64(2), byName["c"].End)

	for i := 1; i < len(intervals); i++ {
		prev, cur := intervals[i-1], intervals[i]
		assert.True(t, prev.Start < cur.Start || (prev.Start == cur.Start && prev.End <= cur.End))
	}
}

func TestIntersects(t *testing.T) {
	a := LiveInterval{Start: 0, End: 5}
	b := LiveInterval{Start: 5, End: 10}
	c := LiveInterval{Start: 2, End: 8}

	assert.False(t, a.Intersects(b))
	assert.False(t, b.Intersects(a))
	assert.True(t, a.Intersects(c))
	assert.True(t, c.Intersects(b))
}
