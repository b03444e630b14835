// Package sizeinfo is a concrete implementation of the backend collaborator
// spec.md §6 describes: local_mem_size() and value_memory_size(value).
package sizeinfo

import "github.com/honorpeter/onnc-memplan/internal/graph"

// MemSize is a non-negative byte count, per spec §3.
type MemSize = uint64

// Oracle answers "how many bytes does this value need" — spec §6's
// value_memory_size. The byte-size implementation below is the default;
// it is an interface so a backend with e.g. tile-aligned padding can be
// substituted without touching the allocator.
type Oracle interface {
	ValueMemorySize(v *graph.Value) MemSize
}

// ByteSizeOracle computes a value's footprint as the product of its shape
// and its dtype's byte width — the simplest faithful accounting, and what
// spec §3's MemSize is defined against.
type ByteSizeOracle struct{}

func (ByteSizeOracle) ValueMemorySize(v *graph.Value) MemSize {
	if v == nil {
		return 0
	}
	n := int64(1)
	for _, d := range v.Shape {
		n *= d
	}
	if n < 0 {
		n = 0
	}
	return MemSize(n) * MemSize(v.DType.ByteWidth())
}

// Device exposes the backend's local memory capacity — spec §6's
// local_mem_size().
type Device struct {
	LocalMemBytes MemSize
}

func (d Device) LocalMemSize() MemSize { return d.LocalMemBytes }
