// Package dtype maps the element types announced by tree files onto Go types and
// converts bulk-projected buffers into typed slices.
//
// # Type Mapping
//
// Leaves announce their element type by name. The fixed table is:
//
//	Type name             | DType    | Go type
//	----------------------|----------|---------
//	Char_t                | Int8     | int8
//	UChar_t               | Uint8    | uint8
//	Short_t               | Int16    | int16
//	UShort_t              | Uint16   | uint16
//	Int_t                 | Int32    | int32
//	UInt_t                | Uint32   | uint32
//	Long_t, Long64_t      | Int64    | int64
//	ULong_t, ULong64_t    | Uint64   | uint64
//	Float_t               | Float32  | float32
//	Double_t, Double32_t  | Float64  | float64
//	Bool_t                | Bool     | bool
//
// Any other name is [Unknown], whose native representation is float64.
//
// # Bulk Buffers
//
// A bulk projection yields native-endian float64 values as raw bytes. [Float64s]
// reinterprets such a buffer in place; the bytes are only copied when the buffer is
// not 8-byte aligned. [Narrow] then casts the float64 values to the declared type:
//
//	vals, err := dtype.Float64s(buf)
//	data, err := dtype.Narrow(dtype.Uint8, vals) // data.([]uint8)
//
// Narrowing is lossy on purpose: the float64 stage is an artifact of the projection,
// the declared type is the precision the file stores.
package dtype
