package graphio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honorpeter/onnc-memplan/internal/graph"
)

const sampleGraph = `{
  "values": [
    {"name": "x", "shape": [1, 3, 32, 32], "dtype": "float32"},
    {"name": "w", "shape": [16, 3, 3, 3], "dtype": "float32"},
    {"name": "b", "shape": [16], "dtype": "float32"},
    {"name": "y", "shape": [1, 16, 16, 16], "dtype": "float32"}
  ],
  "inputs": ["x"],
  "outputs": ["y"],
  "nodes": [
    {
      "kind": "Conv",
      "inputs": ["x", "w", "b"],
      "outputs": ["y"],
      "attrs": {
        "kernel_shape": [3, 3],
        "strides": [1, 1],
        "pads": [1, 1, 1, 1]
      }
    }
  ]
}`

func TestReadGraph(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleGraph), 0o644))

	g, err := ReadGraph(path)
	require.NoError(t, err)

	require.Len(t, g.Inputs(), 1)
	require.Len(t, g.Outputs(), 1)
	require.Len(t, g.Nodes(), 1)

	conv := g.Nodes()[0]
	assert.Equal(t, graph.KindConv, conv.Kind)

	kernelShape, err := conv.Attrs.Ints("kernel_shape")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 3}, kernelShape)

	assert.Equal(t, "x", g.Inputs()[0].Name)
	assert.Equal(t, "y", g.Outputs()[0].Name)
}

func TestReadGraphRejectsUndeclaredValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"inputs":["missing"]}`), 0o644))

	_, err := ReadGraph(path)
	assert.Error(t, err)
}
