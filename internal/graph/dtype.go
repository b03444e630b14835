package graph

import "fmt"

// DType is an element type for a Value's tensor.
type DType int

const (
	UnknownDType DType = iota
	Float32
	Float16
	Int8
	Int32
	Int64
)

// ByteWidth returns the per-element size in bytes.
func (d DType) ByteWidth() int64 {
	switch d {
	case Float32, Int32:
		return 4
	case Float16:
		return 2
	case Int8:
		return 1
	case Int64:
		return 8
	default:
		return 0
	}
}

func (d DType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float16:
		return "float16"
	case Int8:
		return "int8"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return "undefined"
	}
}

// ParseDType converts a textual dtype name (as found in JSON/YAML fixtures)
// to a DType.
func ParseDType(s string) (DType, error) {
	switch s {
	case "float32":
		return Float32, nil
	case "float16":
		return Float16, nil
	case "int8":
		return Int8, nil
	case "int32":
		return Int32, nil
	case "int64":
		return Int64, nil
	default:
		return UnknownDType, fmt.Errorf("unknown dtype %q", s)
	}
}
