package graph

import (
	"fmt"
	"strings"
)

// Node is an operator: a kind tag, ordered inputs/outputs, and a
// kind-specific attribute bag. position is this node's index in its
// owning Graph's node list and is what IsBefore compares — it is assigned
// by the Graph on Create/AddNode/InsertBefore and never touched directly.
type Node struct {
	Kind     Kind
	Inputs   []*Value
	Outputs  []*Value
	Attrs    Attrs
	position int
	graph    *Graph
}

// IsBefore reports whether n appears before o in the graph's program
// order. Program order is topological: no node is before a node that
// produces one of its inputs. Spec §4.1 calls this the is_before
// predicate; here it's backed by the node list index assigned at
// insertion time, so it's O(1) and trivially deterministic.
func (n *Node) IsBefore(o *Node) bool {
	return n.position < o.position
}

// Output returns the node's sole output, for the common single-output
// case (Load, Conv, Gemm, MaxPool, Reshape, the identity-class kinds).
func (n *Node) Output() *Value {
	if len(n.Outputs) == 0 {
		return nil
	}
	return n.Outputs[0]
}

func (n *Node) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(", n.Kind)
	for i, in := range n.Inputs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(in.Name)
	}
	sb.WriteString(") -> ")
	for i, out := range n.Outputs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(out.Name)
	}
	return sb.String()
}
