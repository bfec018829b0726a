package dtype

// Conversion Strategy
//
// A bulk projection hands back one contiguous buffer of float64 values. The buffer
// is never walked value by value to build the float64 slice: Float64s points a
// slice header at the same memory, the same way a direct copy fast path works for
// datasets whose on-disk type already matches the Go type. Only a misaligned
// buffer is copied, and then as one block.
//
// Narrow is the single place values are touched one at a time, and only when the
// declared type is narrower than float64.

import (
	"fmt"
	"unsafe"
)

const float64Size = int(unsafe.Sizeof(float64(0)))

// Float64s reinterprets a native-endian float64 byte buffer as []float64.
// The returned slice shares memory with buf whenever buf is aligned.
func Float64s(buf []byte) ([]float64, error) {
	if len(buf)%float64Size != 0 {
		return nil, fmt.Errorf("buffer of %d bytes is not a multiple of %d", len(buf), float64Size)
	}
	if len(buf) == 0 {
		return []float64{}, nil
	}

	n := len(buf) / float64Size
	if uintptr(unsafe.Pointer(&buf[0]))%unsafe.Alignof(float64(0)) != 0 {
		out := make([]float64, n)
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(buf)), buf)
		return out, nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&buf[0])), n), nil
}

type number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// Narrow converts src to a freshly allocated slice of the native type of d.
// Float64 (and Unknown) return src itself.
func Narrow(d DType, src []float64) (any, error) {
	switch d.Native() {
	case Int8:
		return narrow[int8](src), nil
	case Uint8:
		return narrow[uint8](src), nil
	case Int16:
		return narrow[int16](src), nil
	case Uint16:
		return narrow[uint16](src), nil
	case Int32:
		return narrow[int32](src), nil
	case Uint32:
		return narrow[uint32](src), nil
	case Int64:
		return narrow[int64](src), nil
	case Uint64:
		return narrow[uint64](src), nil
	case Float32:
		return narrow[float32](src), nil
	case Float64:
		return src, nil
	case Bool:
		out := make([]bool, len(src))
		for i, v := range src {
			out[i] = v != 0
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot narrow to %s", d)
	}
}

func narrow[T number](src []float64) []T {
	out := make([]T, len(src))
	for i, v := range src {
		out[i] = T(v)
	}
	return out
}

// Of returns the DType of a typed slice produced by Narrow.
func Of(data any) (DType, error) {
	switch data.(type) {
	case []int8:
		return Int8, nil
	case []uint8:
		return Uint8, nil
	case []int16:
		return Int16, nil
	case []uint16:
		return Uint16, nil
	case []int32:
		return Int32, nil
	case []uint32:
		return Uint32, nil
	case []int64:
		return Int64, nil
	case []uint64:
		return Uint64, nil
	case []float32:
		return Float32, nil
	case []float64:
		return Float64, nil
	case []bool:
		return Bool, nil
	default:
		return Unknown, fmt.Errorf("unsupported slice type %T", data)
	}
}

// Len returns the number of elements of a typed slice produced by Narrow.
func Len(data any) int {
	switch s := data.(type) {
	case []int8:
		return len(s)
	case []uint8:
		return len(s)
	case []int16:
		return len(s)
	case []uint16:
		return len(s)
	case []int32:
		return len(s)
	case []uint32:
		return len(s)
	case []int64:
		return len(s)
	case []uint64:
		return len(s)
	case []float32:
		return len(s)
	case []float64:
		return len(s)
	case []bool:
		return len(s)
	default:
		return 0
	}
}

// Bytes returns the native-endian memory of a typed slice without copying.
func Bytes(data any) ([]byte, error) {
	switch s := data.(type) {
	case []int8:
		return asBytes(s), nil
	case []uint8:
		return s, nil
	case []int16:
		return asBytes(s), nil
	case []uint16:
		return asBytes(s), nil
	case []int32:
		return asBytes(s), nil
	case []uint32:
		return asBytes(s), nil
	case []int64:
		return asBytes(s), nil
	case []uint64:
		return asBytes(s), nil
	case []float32:
		return asBytes(s), nil
	case []float64:
		return asBytes(s), nil
	case []bool:
		return asBytes(s), nil
	default:
		return nil, fmt.Errorf("unsupported slice type %T", data)
	}
}

func asBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return []byte{}
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}

// Slice returns elements [lo, hi) of a typed slice produced by Narrow.
func Slice(data any, lo, hi int) (any, error) {
	switch s := data.(type) {
	case []int8:
		return s[lo:hi], nil
	case []uint8:
		return s[lo:hi], nil
	case []int16:
		return s[lo:hi], nil
	case []uint16:
		return s[lo:hi], nil
	case []int32:
		return s[lo:hi], nil
	case []uint32:
		return s[lo:hi], nil
	case []int64:
		return s[lo:hi], nil
	case []uint64:
		return s[lo:hi], nil
	case []float32:
		return s[lo:hi], nil
	case []float64:
		return s[lo:hi], nil
	case []bool:
		return s[lo:hi], nil
	default:
		return nil, fmt.Errorf("unsupported slice type %T", data)
	}
}
