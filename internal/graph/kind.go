package graph

// Kind tags the operator a Node represents. ONNX-style string symbols are
// used rather than an enum so the graph can carry operator kinds this
// package has no built-in rule for (spec §4.3's "unsupported kind" case).
type Kind string

const (
	KindUndefined Kind = "Undefined"

	// Pseudo-operators inserted by the Load/Store pass (C4). No arithmetic
	// semantics; they only mark DMA boundaries.
	KindLoad  Kind = "Load"
	KindStore Kind = "Store"

	KindConv     Kind = "Conv"
	KindGemm     Kind = "Gemm"
	KindMaxPool  Kind = "MaxPool"
	KindReshape  Kind = "Reshape"
	KindRelu     Kind = "Relu"
	KindSigmoid  Kind = "Sigmoid"
	KindLRN      Kind = "LRN"
	KindBatchNorm Kind = "BatchNorm"
)

// identityKinds is the "input size equals output size" registry spec
// §4.3 calls for: a fixed set built at init, never mutated at run time.
var identityKinds = map[Kind]bool{
	KindRelu:      true,
	KindSigmoid:   true,
	KindLRN:       true,
	KindBatchNorm: true,

	// Load/Store are 0/1-arity DMA boundary markers with no real shape
	// arithmetic of their own; they satisfy "input size equals output
	// size" vacuously, and the tiling driver needs a rule for them since
	// it builds a descriptor for every non-Undefined node up front.
	KindLoad:  true,
	KindStore: true,
}

// IsIdentityKind reports whether kind belongs to the size-equals-size
// registry used by the split-node model's identity rule.
func IsIdentityKind(kind Kind) bool {
	return identityKinds[kind]
}
