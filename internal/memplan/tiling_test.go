package memplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honorpeter/onnc-memplan/internal/graph"
)

// x -> Conv -> y -> Relu -> z (graph output)
func buildConvReluChain(t *testing.T) (*graph.Graph, *graph.Node, *graph.Node) {
	t.Helper()
	g := graph.NewGraph(nil)

	x := graph.NewValue("x", []int64{1, 3, 32, 32}, graph.Float32)
	g.AddInput(x)
	w := graph.NewValue("w", []int64{16, 3, 3, 3}, graph.Float32)
	b := graph.NewValue("b", []int64{16}, graph.Float32)
	y := graph.NewValue("y", []int64{1, 16, 16, 16}, graph.Float32)

	conv := &graph.Node{
		Kind:    graph.KindConv,
		Inputs:  []*graph.Value{x, w, b},
		Outputs: []*graph.Value{y},
		Attrs: graph.Attrs{
			"kernel_shape": []int64{3, 3},
			"strides":      []int64{1, 1},
			"pads":         []int64{1, 1, 1, 1},
		},
	}
	g.AddNode(conv)

	z := graph.NewValue("z", []int64{1, 16, 16, 16}, graph.Float32)
	relu := &graph.Node{Kind: graph.KindRelu, Inputs: []*graph.Value{y}, Outputs: []*graph.Value{z}}
	g.AddNode(relu)
	g.AddOutput(z)

	return g, conv, relu
}

func TestDriverRunFromOutputsPropagatesThroughIdentityIntoConv(t *testing.T) {
	g, conv, relu := buildConvReluChain(t)

	d, err := NewDriver(g)
	require.NoError(t, err)

	require.NoError(t, d.RunFromOutputs())

	// Relu's identity rule halves axis 0: [1,16,16,16] -> [1,16,16,16]
	// (axis 0 has dim 1, ceil(1/2) = 1), so Conv's output doesn't actually
	// shrink on this particular chain -- assert the propagation reached
	// Conv's descriptor with a shape of the right rank regardless.
	reluOut, ok := d.Result(relu)
	require.True(t, ok)
	assert.Len(t, reluOut, 4)

	convOut, ok := d.Result(conv)
	require.True(t, ok)
	assert.Equal(t, Shape(reluOut), convOut)
}

func TestDriverSplitByFactorDividesAxis(t *testing.T) {
	g, conv, _ := buildConvReluChain(t)

	d, err := NewDriver(g)
	require.NoError(t, err)

	require.NoError(t, d.SplitByFactor(conv, 1, 2, true))

	out, ok := d.Result(conv)
	require.True(t, ok)
	assert.EqualValues(t, 8, out[1])
}

func TestDriverUnsupportedKindFailsFast(t *testing.T) {
	g := graph.NewGraph(nil)
	in := graph.NewValue("in", []int64{1}, graph.Float32)
	g.AddInput(in)
	out := graph.NewValue("out", []int64{1}, graph.Float32)
	g.AddNode(&graph.Node{Kind: graph.Kind("Dropout"), Inputs: []*graph.Value{in}, Outputs: []*graph.Value{out}})
	g.AddOutput(out)

	_, err := NewDriver(g)
	require.Error(t, err)
	assert.True(t, IsUnsupportedOperator(err))
}

func TestDriverRunUntilFitsTerminates(t *testing.T) {
	g, _, _ := buildConvReluChain(t)
	d, err := NewDriver(g)
	require.NoError(t, err)

	calls := 0
	neverFits := func() bool { calls++; return false }

	require.NoError(t, d.RunUntilFits(neverFits))
	assert.Greater(t, calls, 0)
}
