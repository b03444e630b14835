package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildChain(t *testing.T) (*Graph, *Value, *Value, *Value) {
	t.Helper()
	g := NewGraph(&FixedGenerator{Names: []string{"load.a", "store.c"}})

	a := NewValue("a", []int64{4, 4}, Float32)
	b := NewValue("b", []int64{4, 4}, Float32)
	g.AddInput(a)

	relu := g.AddNode(&Node{Kind: KindRelu, Inputs: []*Value{a}, Outputs: []*Value{b}})
	require.NotNil(t, relu)

	c := NewValue("c", []int64{4, 4}, Float32)
	sig := g.AddNode(&Node{Kind: KindSigmoid, Inputs: []*Value{b}, Outputs: []*Value{c}})
	require.NotNil(t, sig)
	g.AddOutput(c)

	return g, a, b, c
}

func TestIsBeforeMatchesProgramOrder(t *testing.T) {
	g, _, _, _ := buildChain(t)
	nodes := g.Nodes()
	require.Len(t, nodes, 2)
	assert.True(t, nodes[0].IsBefore(nodes[1]))
	assert.False(t, nodes[1].IsBefore(nodes[0]))
}

func TestReplaceAllUsesWith(t *testing.T) {
	g, a, _, _ := buildChain(t)
	relu := g.Nodes()[0]

	repl := NewValue("a.load", a.Shape, a.DType)
	a.ReplaceAllUsesWith(repl)

	assert.Empty(t, a.Uses())
	require.Len(t, repl.Uses(), 1)
	assert.Same(t, relu, repl.Uses()[0].User)
	assert.Same(t, repl, relu.Inputs[0])
}

func TestCreateThenInsertBefore(t *testing.T) {
	g, a, _, _ := buildChain(t)
	relu := g.Nodes()[0]

	load := g.Create(KindLoad, nil, 1)
	load.Output().CopyMetadata(a)
	require.NoError(t, g.InsertBefore(relu, load))

	nodes := g.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, KindLoad, nodes[0].Kind)
	assert.True(t, nodes[0].IsBefore(nodes[1]))
}

func TestInsertBeforeUnknownAnchorErrors(t *testing.T) {
	g := NewGraph(nil)
	stray := &Node{Kind: KindRelu}
	newNode := g.Create(KindLoad, nil, 1)
	err := g.InsertBefore(stray, newNode)
	assert.Error(t, err)
}
