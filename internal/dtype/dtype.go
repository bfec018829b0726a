package dtype

import (
	"fmt"
	"reflect"
)

// DType is the declared element type of a leaf.
type DType uint8

const (
	Unknown DType = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
	Bool
)

var typeNames = map[string]DType{
	"Char_t":     Int8,
	"UChar_t":    Uint8,
	"Short_t":    Int16,
	"UShort_t":   Uint16,
	"Int_t":      Int32,
	"UInt_t":     Uint32,
	"Long_t":     Int64,
	"Long64_t":   Int64,
	"ULong_t":    Uint64,
	"ULong64_t":  Uint64,
	"Float_t":    Float32,
	"Double_t":   Float64,
	"Double32_t": Float64,
	"Bool_t":     Bool,
}

var dtypeStrings = [...]string{
	Unknown: "unknown",
	Int8:    "int8",
	Uint8:   "uint8",
	Int16:   "int16",
	Uint16:  "uint16",
	Int32:   "int32",
	Uint32:  "uint32",
	Int64:   "int64",
	Uint64:  "uint64",
	Float32: "float32",
	Float64: "float64",
	Bool:    "bool",
}

// FromTypeName returns the DType for a type name announced by a leaf.
func FromTypeName(name string) DType {
	return typeNames[name]
}

// Parse parses the String form of a DType.
func Parse(s string) (DType, error) {
	for d, name := range dtypeStrings {
		if name == s {
			return DType(d), nil
		}
	}
	return Unknown, fmt.Errorf("unknown dtype %q", s)
}

func (d DType) String() string {
	if int(d) < len(dtypeStrings) {
		return dtypeStrings[d]
	}
	return fmt.Sprintf("DType(%d)", d)
}

// Native returns the type values are stored as. Unknown falls back to Float64.
func (d DType) Native() DType {
	if d == Unknown || int(d) >= len(dtypeStrings) {
		return Float64
	}
	return d
}

// Size returns the size of one element of the native type in bytes.
func (d DType) Size() int {
	return int(d.GoType().Size())
}

// GoType returns the Go element type of the native representation.
func (d DType) GoType() reflect.Type {
	switch d.Native() {
	case Int8:
		return reflect.TypeOf(int8(0))
	case Uint8:
		return reflect.TypeOf(uint8(0))
	case Int16:
		return reflect.TypeOf(int16(0))
	case Uint16:
		return reflect.TypeOf(uint16(0))
	case Int32:
		return reflect.TypeOf(int32(0))
	case Uint32:
		return reflect.TypeOf(uint32(0))
	case Int64:
		return reflect.TypeOf(int64(0))
	case Uint64:
		return reflect.TypeOf(uint64(0))
	case Float32:
		return reflect.TypeOf(float32(0))
	case Bool:
		return reflect.TypeOf(false)
	default:
		return reflect.TypeOf(float64(0))
	}
}

// IsInteger reports whether the native type is a signed or unsigned integer.
func (d DType) IsInteger() bool {
	switch d.Native() {
	case Int8, Uint8, Int16, Uint16, Int32, Uint32, Int64, Uint64:
		return true
	}
	return false
}
