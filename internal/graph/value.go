package graph

// Use records one consumption of a Value by a Node, at a fixed input
// position. The position lets ReplaceAllUsesWith patch the exact input
// slot rather than searching for it.
type Use struct {
	User  *Node
	Index int
}

// Value is a typed tensor edge between nodes, identified by a stable name.
// Shape is read-only for the allocator proper; the tiling driver (C7)
// records tile shapes on the node's split descriptor
// (SplitNode.CurrentOutShape), never on the Value itself, so values keep
// their original shape as provenance.
type Value struct {
	Name     string
	Shape    []int64
	DType    DType
	producer *Node
	uses     []Use
}

// NewValue creates a detached Value. Detached values become graph inputs
// once attached via Graph.AddInput, or inline intermediates once they
// appear as a Node's output.
func NewValue(name string, shape []int64, dtype DType) *Value {
	return &Value{Name: name, Shape: append([]int64(nil), shape...), DType: dtype}
}

// Producer returns the Node that produces this Value, or nil if the Value
// is a graph input / external constant with no producer in this graph.
func (v *Value) Producer() *Node { return v.producer }

// Uses returns this Value's uses in the order they were recorded — the
// order spec §4.1 ties-breaks "first use" and "last use" scans on.
func (v *Value) Uses() []Use {
	return v.uses
}

func (v *Value) addUse(n *Node, idx int) {
	v.uses = append(v.uses, Use{User: n, Index: idx})
}

// ReplaceAllUsesWith redirects every recorded use of v onto newV, per
// spec §6's "replace-all-uses-of-a-value" graph primitive. v keeps its
// name and shape; it simply becomes unused.
func (v *Value) ReplaceAllUsesWith(newV *Value) {
	for _, u := range v.uses {
		u.User.Inputs[u.Index] = newV
		newV.addUse(u.User, u.Index)
	}
	v.uses = nil
}

// CopyMetadata copies shape and dtype from src, matching the ONNX
// Value::copyMetadata helper the original Load/Store insertion pass relies
// on to give a Load's output the same shape/type as the value it replaces.
func (v *Value) CopyMetadata(src *Value) {
	v.Shape = append([]int64(nil), src.Shape...)
	v.DType = src.DType
}
