// Package graph is a concrete implementation of the graph collaborator
// spec.md §6 treats as external: nodes, values, uses, topological order,
// and attribute accessors, plus the mutation primitives (insert_before,
// replace_all_uses) the Load/Store and tiling passes need.
package graph

import "fmt"

// Graph owns the node list, in program order: nodes are only ever appended
// or inserted in a position consistent with their dependencies, so list
// index doubles as the topological rank IsBefore compares on. Per spec §5,
// a Graph is owned by exactly one pass at a time and is never observed
// concurrently.
type Graph struct {
	nodes   []*Node
	inputs  []*Value
	outputs []*Value
	nameGen NameGenerator
}

// NewGraph creates an empty graph. gen names values the graph synthesizes
// for itself (Load/Store outputs); pass nil to use UUIDv7Generator.
func NewGraph(gen NameGenerator) *Graph {
	if gen == nil {
		gen = UUIDv7Generator{}
	}
	return &Graph{nameGen: gen}
}

// AddInput declares v a graph input: a boundary value with no producer in
// this graph, the kind of value C4 inserts a Load ahead of.
func (g *Graph) AddInput(v *Value) { g.inputs = append(g.inputs, v) }

// AddOutput declares v a graph output: a boundary value C4 appends a Store
// after the last use of.
func (g *Graph) AddOutput(v *Value) { g.outputs = append(g.outputs, v) }

// Inputs returns the graph's boundary input values.
func (g *Graph) Inputs() []*Value { return g.inputs }

// Outputs returns the graph's boundary output values.
func (g *Graph) Outputs() []*Value { return g.outputs }

// Nodes returns all nodes in program order, including Undefined ones (the
// call site that skips Undefined — tiling driver construction — does so
// explicitly rather than relying on a filter here).
func (g *Graph) Nodes() []*Node { return g.nodes }

// AddNode appends an already-built node — inputs, outputs and kind already
// populated by whatever built the graph (a test fixture, a frontend
// adapter) — to the end of the program order, wiring up use-tracking on
// every input.
func (g *Graph) AddNode(n *Node) *Node {
	n.graph = g
	n.position = len(g.nodes)
	g.nodes = append(g.nodes, n)
	for i, in := range n.Inputs {
		in.addUse(n, i)
	}
	for _, out := range n.Outputs {
		out.producer = n
	}
	return n
}

// Create builds a new node of kind with the given inputs and numOutputs
// freshly named outputs. This is the primitive spec §6 calls "create a
// node of a named kind with given inputs and output arity" — used by the
// Load/Store inserter, which is the only place in this pass that needs to
// synthesize new nodes rather than mutate existing ones.
//
// The returned node is detached: it records its inputs as used (so
// ReplaceAllUsesWith sees it immediately) but has no position
// in the program order yet. Callers place it with InsertBefore, mirroring
// the original graph API's two-step create-then-insertBefore.
func (g *Graph) Create(kind Kind, inputs []*Value, numOutputs int) *Node {
	n := &Node{Kind: kind, Inputs: inputs, position: -1}
	for i, in := range inputs {
		in.addUse(n, i)
	}
	for i := 0; i < numOutputs; i++ {
		out := NewValue(g.nameGen.Generate(), nil, UnknownDType)
		out.producer = n
		n.Outputs = append(n.Outputs, out)
	}
	return n
}

// InsertBefore splices newNode into the program order immediately before
// anchor, renumbering positions so IsBefore keeps matching actual order.
// newNode must not already be in the graph.
func (g *Graph) InsertBefore(anchor, newNode *Node) error {
	idx := g.indexOf(anchor)
	if idx < 0 {
		return fmt.Errorf("InsertBefore: anchor node %v not found in graph", anchor)
	}

	newNode.graph = g
	g.nodes = append(g.nodes, nil)
	copy(g.nodes[idx+1:], g.nodes[idx:])
	g.nodes[idx] = newNode

	for i, v := range g.nodes {
		v.position = i
	}
	return nil
}

func (g *Graph) indexOf(n *Node) int {
	for i, m := range g.nodes {
		if m == n {
			return i
		}
	}
	return -1
}
