package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualizeCommandWritesDOTFile(t *testing.T) {
	graphPath, devicePath := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "graph.dot")

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"visualize", graphPath, "--device", devicePath, "-o", outPath})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	dot := string(data)
	assert.Contains(t, dot, "digraph MemPlan")
	assert.Contains(t, dot, `"x"`)
	assert.Contains(t, dot, `"y"`)
	assert.Contains(t, dot, "op0")
}

func TestBandColorCyclesPalette(t *testing.T) {
	c1 := bandColor(0)
	c2 := bandColor(4096)
	assert.NotEqual(t, c1, c2)
	assert.Equal(t, c1, bandColor(4096*6))
}
