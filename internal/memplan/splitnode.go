package memplan

import (
	"fmt"

	"github.com/honorpeter/onnc-memplan/internal/graph"
)

// Shape is an ordered sequence of tensor dimensions.
type Shape []int64

func cloneShape(s Shape) Shape { return append(Shape(nil), s...) }

// SplitNode is spec §3/§4.3's per-operator tile descriptor: it knows how
// to turn a candidate new output shape into the input shape(s) that would
// produce it. original_out_shape is captured once at construction time
// from the node's existing output Value (never mutated); current_out_shape
// is the only field C7's shape updates touch, per spec §3's note that
// Value itself stays read-only to the allocator outside this mechanism.
type SplitNode interface {
	// UseNewOutSize records a candidate output shape and reports whether
	// it accepted it. The base implementation always accepts; per-kind
	// rules that can't express arbitrary output shapes (none currently
	// do, but the hook exists because spec §4.4 step 4 requires rules be
	// able to refuse) would return false here.
	UseNewOutSize(newOut Shape) bool

	// CalcNewInputSize returns the input shape required at input index
	// idx to produce the descriptor's current output shape.
	CalcNewInputSize(idx int) (Shape, error)

	// Node returns the underlying graph node this descriptor describes.
	Node() *graph.Node

	// CurrentOutShape returns the tile shape currently in effect.
	CurrentOutShape() Shape
}

// baseSplitNode implements the identity rule (spec §4.3's "Identity
// class": Relu, Sigmoid, LRN, BatchNorm, and anything registered as
// input-size-equals-output-size): CalcNewInputSize returns the current
// output shape unchanged, for every input index. It is also the
// fallback Reshape uses.
type baseSplitNode struct {
	node             *graph.Node
	originalOutShape Shape
	currentOutShape  Shape
}

func newBaseSplitNode(n *graph.Node) *baseSplitNode {
	out := n.Output()
	var shape Shape
	if out != nil {
		shape = Shape(out.Shape)
	}
	return &baseSplitNode{
		node:             n,
		originalOutShape: cloneShape(shape),
		currentOutShape:  cloneShape(shape),
	}
}

func (b *baseSplitNode) UseNewOutSize(newOut Shape) bool {
	b.currentOutShape = cloneShape(newOut)
	return true
}

func (b *baseSplitNode) CalcNewInputSize(int) (Shape, error) {
	return cloneShape(b.currentOutShape), nil
}

func (b *baseSplitNode) Node() *graph.Node      { return b.node }
func (b *baseSplitNode) CurrentOutShape() Shape { return b.currentOutShape }

// splitConv implements spec §4.3's Conv rule.
type splitConv struct {
	*baseSplitNode
	kernelShape []int64
	strides     []int64
	padBegin    []int64
	padEnd      []int64
}

func newSplitConv(n *graph.Node) (*splitConv, error) {
	kernelShape, err := n.Attrs.Ints("kernel_shape")
	if err != nil {
		return nil, fmt.Errorf("Conv node missing kernel_shape: %w", err)
	}
	strides, err := n.Attrs.Ints("strides")
	if err != nil {
		return nil, fmt.Errorf("Conv node missing strides: %w", err)
	}
	padBegin, padEnd, err := splitPads(n, len(kernelShape))
	if err != nil {
		return nil, err
	}
	return &splitConv{
		baseSplitNode: newBaseSplitNode(n),
		kernelShape:   kernelShape,
		strides:       strides,
		padBegin:      padBegin,
		padEnd:        padEnd,
	}, nil
}

// CalcNewInputSize implements Conv's rule:
//
//	x (input 0): [N, x_dim[1], (O1-1)*s1 - b1 - e1 + k1, ...]
//	w (input 1): [M, w_dim[1], ..., w_dim[rank-1]] (kernel dims preserved)
//	B (input 2, optional): [M]
func (s *splitConv) CalcNewInputSize(idx int) (Shape, error) {
	out := s.currentOutShape
	switch idx {
	case 0:
		xDim := s.node.Inputs[0].Shape
		newIS := make(Shape, len(xDim))
		newIS[0] = out[0]
		newIS[1] = xDim[1]
		numAxis := len(xDim) - 2
		for i := 0; i < numAxis; i++ {
			newIS[i+2] = (out[i+2]-1)*s.strides[i] - s.padBegin[i] - s.padEnd[i] + s.kernelShape[i]
		}
		return newIS, nil
	case 1:
		wDim := s.node.Inputs[1].Shape
		newIS := make(Shape, len(wDim))
		newIS[0] = out[1]
		copy(newIS[1:], wDim[1:])
		return newIS, nil
	case 2:
		return Shape{out[1]}, nil
	default:
		return nil, fmt.Errorf("SplitConv.CalcNewInputSize: invalid input index %d", idx)
	}
}

// splitMaxPool implements spec §4.3's MaxPool rule: same formula as
// Conv's input 0, but the channel dimension is preserved from the *new*
// output shape rather than the original input.
type splitMaxPool struct {
	*baseSplitNode
	kernelShape []int64
	strides     []int64
	padBegin    []int64
	padEnd      []int64
}

func newSplitMaxPool(n *graph.Node) (*splitMaxPool, error) {
	kernelShape, err := n.Attrs.Ints("kernel_shape")
	if err != nil {
		return nil, fmt.Errorf("MaxPool node missing kernel_shape: %w", err)
	}
	strides, err := n.Attrs.Ints("strides")
	if err != nil {
		return nil, fmt.Errorf("MaxPool node missing strides: %w", err)
	}
	padBegin, padEnd, err := splitPads(n, len(kernelShape))
	if err != nil {
		return nil, err
	}
	return &splitMaxPool{
		baseSplitNode: newBaseSplitNode(n),
		kernelShape:   kernelShape,
		strides:       strides,
		padBegin:      padBegin,
		padEnd:        padEnd,
	}, nil
}

func (s *splitMaxPool) CalcNewInputSize(idx int) (Shape, error) {
	if idx != 0 {
		return nil, fmt.Errorf("SplitMaxPool.CalcNewInputSize: invalid input index %d", idx)
	}
	out := s.currentOutShape
	xDim := s.node.Inputs[0].Shape
	newIS := make(Shape, len(xDim))
	newIS[0] = out[0]
	newIS[1] = out[1]
	numAxis := len(xDim) - 2
	for i := 0; i < numAxis; i++ {
		newIS[i+2] = (out[i+2]-1)*s.strides[i] - s.padBegin[i] - s.padEnd[i] + s.kernelShape[i]
	}
	return newIS, nil
}

// splitGemm implements spec §4.3's Gemm rule. Input 2 (C) is left at its
// original shape: a documented, conservative over-approximation carried
// over from the original pass's own FIXME, not a gap this module closes.
type splitGemm struct {
	*baseSplitNode
	transA, transB bool
}

func newSplitGemm(n *graph.Node) *splitGemm {
	return &splitGemm{
		baseSplitNode: newBaseSplitNode(n),
		transA:        n.Attrs.Bool("transA"),
		transB:        n.Attrs.Bool("transB"),
	}
}

func (s *splitGemm) CalcNewInputSize(idx int) (Shape, error) {
	aDim := s.node.Inputs[0].Shape
	var k int64
	if s.transA {
		k = aDim[0]
	} else {
		k = aDim[1]
	}
	out := s.currentOutShape

	switch idx {
	case 0:
		if s.transA {
			return Shape{k, out[0]}, nil
		}
		return Shape{out[0], k}, nil
	case 1:
		if s.transB {
			return Shape{out[1], k}, nil
		}
		return Shape{k, out[1]}, nil
	case 2:
		cDim := s.node.Inputs[2].Shape
		return Shape{cDim[0], cDim[1]}, nil
	default:
		return nil, fmt.Errorf("SplitGemm.CalcNewInputSize: invalid input index %d", idx)
	}
}

// splitReshape implements spec §4.3's Reshape rule: treated as identity
// on the output shape. Rank may legitimately differ from the input in
// practice (a true reshape changes rank); this module does not attempt to
// re-factor the flattened element count across a rank change, so Reshape
// splitting is only sound when producer and consumer share rank — callers
// that need to split across a genuine rank-changing Reshape should refuse
// (spec §4.3 explicitly permits the driver to refuse reshape splitting).
type splitReshape struct {
	*baseSplitNode
}

func newSplitReshape(n *graph.Node) *splitReshape {
	return &splitReshape{baseSplitNode: newBaseSplitNode(n)}
}

// splitPads splits the concatenated ONNX-style "pads" attribute
// ([b1..bn, e1..en]) into begin/end slices of length numAxis.
func splitPads(n *graph.Node, numAxis int) (begin, end []int64, err error) {
	pads, err := n.Attrs.Ints("pads")
	if err != nil {
		return nil, nil, fmt.Errorf("%s node missing pads: %w", n.Kind, err)
	}
	if len(pads) != 2*numAxis {
		return nil, nil, fmt.Errorf("%s node pads has %d entries, want %d", n.Kind, len(pads), 2*numAxis)
	}
	return pads[:numAxis], pads[numAxis:], nil
}

// NewSplitNode is spec §4.3's split-model factory: it builds the rule
// appropriate to n's kind, or refuses (returns an error) for an
// unsupported kind — spec §4.3's "Unsupported kind" case, which the
// tiling driver (C7) treats as fatal to splitting.
func NewSplitNode(n *graph.Node) (SplitNode, error) {
	if graph.IsIdentityKind(n.Kind) {
		return newBaseSplitNode(n), nil
	}

	switch n.Kind {
	case graph.KindConv:
		return newSplitConv(n)
	case graph.KindMaxPool:
		return newSplitMaxPool(n)
	case graph.KindGemm:
		return newSplitGemm(n), nil
	case graph.KindReshape:
		return newSplitReshape(n), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperator, n.Kind)
	}
}
