package graph

import "fmt"

// Attrs is a node's kind-specific attribute bag (kernel shape, strides,
// pads, transposeA/B, broadcast, …), keyed by the attribute name spec §6
// lists as queryable: "kernel_shape", "strides", "pads", "transA",
// "transB".
type Attrs map[string]any

// Ints returns the attribute as a []int64, or an error if absent or of the
// wrong type.
func (a Attrs) Ints(name string) ([]int64, error) {
	v, ok := a[name]
	if !ok {
		return nil, fmt.Errorf("attribute %q not set", name)
	}
	ints, ok := v.([]int64)
	if !ok {
		return nil, fmt.Errorf("attribute %q is not []int64", name)
	}
	return ints, nil
}

// Bool returns the attribute as a bool, defaulting to false when absent —
// matching ONNX's convention that transA/transB/broadcast default to 0.
func (a Attrs) Bool(name string) bool {
	v, ok := a[name]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
