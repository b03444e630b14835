// Package graphio loads the JSON graph documents the CLI's subcommands
// take as input, in the pattern of the teacher's io.go
// (ReadProblem/WriteSolution over a parallel-array JSON schema): a raw
// JSON struct, decoded once, then assembled into the real in-memory
// type (here, *graph.Graph) by a single constructor function.
package graphio

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/honorpeter/onnc-memplan/internal/graph"
)

type valueJSON struct {
	Name  string  `json:"name"`
	Shape []int64 `json:"shape"`
	DType string  `json:"dtype"`
}

type nodeJSON struct {
	Kind    string         `json:"kind"`
	Inputs  []string       `json:"inputs"`
	Outputs []string       `json:"outputs"`
	Attrs   map[string]any `json:"attrs"`
}

type graphJSON struct {
	Values  []valueJSON `json:"values"`
	Inputs  []string    `json:"inputs"`
	Outputs []string    `json:"outputs"`
	Nodes   []nodeJSON  `json:"nodes"`
}

// ReadGraph reads a JSON graph document and assembles a *graph.Graph from
// it: every declared value is constructed first, then wired into nodes
// and graph boundaries by name.
func ReadGraph(filename string) (*graph.Graph, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading graph file: %w", err)
	}

	var gj graphJSON
	if err := json.Unmarshal(data, &gj); err != nil {
		return nil, fmt.Errorf("parsing graph JSON: %w", err)
	}

	values := make(map[string]*graph.Value, len(gj.Values))
	for _, vj := range gj.Values {
		dtype, err := graph.ParseDType(vj.DType)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", vj.Name, err)
		}
		values[vj.Name] = graph.NewValue(vj.Name, vj.Shape, dtype)
	}

	lookup := func(name string) (*graph.Value, error) {
		v, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("undeclared value %q", name)
		}
		return v, nil
	}

	g := graph.NewGraph(nil)

	for _, name := range gj.Inputs {
		v, err := lookup(name)
		if err != nil {
			return nil, err
		}
		g.AddInput(v)
	}

	for _, nj := range gj.Nodes {
		ins := make([]*graph.Value, len(nj.Inputs))
		for i, name := range nj.Inputs {
			v, err := lookup(name)
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", nj.Kind, err)
			}
			ins[i] = v
		}
		outs := make([]*graph.Value, len(nj.Outputs))
		for i, name := range nj.Outputs {
			v, err := lookup(name)
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", nj.Kind, err)
			}
			outs[i] = v
		}

		g.AddNode(&graph.Node{
			Kind:    graph.Kind(nj.Kind),
			Inputs:  ins,
			Outputs: outs,
			Attrs:   convertAttrs(nj.Attrs),
		})
	}

	// Graph outputs are added last: their position in program order
	// doesn't matter (Inputs()/Outputs() are boundary lists, not nodes),
	// but lookups must resolve to values produced by the nodes above.
	for _, name := range gj.Outputs {
		v, err := lookup(name)
		if err != nil {
			return nil, err
		}
		g.AddOutput(v)
	}

	return g, nil
}

// convertAttrs turns the loosely-typed attribute map encoding/json
// produces (JSON numbers decode as float64, arrays as []any) into the
// concrete []int64/bool values graph.Attrs.Ints/Bool expect.
func convertAttrs(raw map[string]any) graph.Attrs {
	if raw == nil {
		return nil
	}
	attrs := make(graph.Attrs, len(raw))
	for k, v := range raw {
		switch tv := v.(type) {
		case []any:
			ints := make([]int64, len(tv))
			for i, elem := range tv {
				if f, ok := elem.(float64); ok {
					ints[i] = int64(f)
				}
			}
			attrs[k] = ints
		case float64:
			attrs[k] = int64(tv)
		case bool:
			attrs[k] = tv
		default:
			attrs[k] = v
		}
	}
	return attrs
}
