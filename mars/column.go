package mars

import (
	"fmt"

	"github.com/minio/highwayhash"
	"github.com/robert-malhotra/go-readmars/internal/dtype"
)

// Column is the extracted content of one leaf. It does not reference the file
// it was read from.
type Column struct {
	Tree string
	Name string
	Type dtype.DType

	// Shape is (entries) for scalar leaves and (entries, 1440) for per-pixel
	// leaves. Data is row major.
	Shape []int

	// Data is a slice of the native type of Type: []uint8 for UChar_t,
	// []float32 for Float_t, []float64 for unknown types, and so on.
	Data any
}

// Len returns the number of events.
func (c *Column) Len() int {
	if len(c.Shape) == 0 {
		return 0
	}
	return c.Shape[0]
}

// Width returns the number of values per event.
func (c *Column) Width() int {
	if len(c.Shape) < 2 {
		return 1
	}
	return c.Shape[1]
}

// IsVector reports whether the column has one row of values per event.
func (c *Column) IsVector() bool {
	return len(c.Shape) == 2
}

// Row returns the values of event i: a one element slice for scalar columns,
// a Width() long slice for per-pixel columns. The slice shares memory with Data.
func (c *Column) Row(i int) (any, error) {
	if i < 0 || i >= c.Len() {
		return nil, fmt.Errorf("row %d out of range [0, %d)", i, c.Len())
	}
	w := c.Width()
	return dtype.Slice(c.Data, i*w, (i+1)*w)
}

// Values returns the data of c as []T.
func Values[T any](c *Column) ([]T, error) {
	v, ok := c.Data.([]T)
	if !ok {
		var zero T
		return nil, fmt.Errorf("column %s holds %T, not []%T", c.Name, c.Data, zero)
	}
	return v, nil
}

// Bytes returns the native-endian memory of the data without copying.
func (c *Column) Bytes() ([]byte, error) {
	return dtype.Bytes(c.Data)
}

var digestKey = []byte("readmars-column-digest-key-32byt")

// Digest returns a 64 bit HighwayHash of the column's type, shape and bytes.
// Two extractions of the same leaf have the same digest exactly when their
// arrays are bit identical.
func (c *Column) Digest() (uint64, error) {
	h, err := highwayhash.New64(digestKey)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(h, "%s:%v:", c.Type.Native(), c.Shape)
	b, err := c.Bytes()
	if err != nil {
		return 0, err
	}
	if _, err := h.Write(b); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
