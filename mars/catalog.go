package mars

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-readmars/internal/camera"
	"github.com/robert-malhotra/go-readmars/internal/dtype"
)

// LeafDescriptor identifies a leaf and its declared element type.
type LeafDescriptor struct {
	Tree string
	Name string

	// Type is the declared element type; TypeName is the name the file used.
	Type     dtype.DType
	TypeName string

	// PerEvent is the number of values per event, 1 for scalar leaves and
	// camera.NumPixels for per-pixel leaves.
	PerEvent int
}

// IsVector reports whether the leaf holds one value per pixel and event.
func (l LeafDescriptor) IsVector() bool {
	return l.PerEvent == camera.NumPixels
}

var bookkeepingSuffixes = []string{".", "fBits", "fUniqueID"}

// ValidLeafName reports whether a leaf holds an interpretable value. Names
// ending in ".", "fBits" or "fUniqueID" belong to container bookkeeping.
func ValidLeafName(name string) bool {
	for _, s := range bookkeepingSuffixes {
		if strings.HasSuffix(name, s) {
			return false
		}
	}
	return true
}

// Leaves returns the catalog of the file: every valid leaf of every tree, or
// of the tree given by WithTree, in file order. Type announcements come from
// the file itself; no values are read.
func (f *File) Leaves(opts ...Option) ([]LeafDescriptor, error) {
	o := buildOptions(opts)

	trees := f.Trees()
	if o.tree != "" {
		trees = []string{o.tree}
	}

	want := make(map[string]bool, len(o.only))
	for _, n := range o.only {
		want[n] = true
	}
	found := make(map[string]bool, len(o.only))

	var out []LeafDescriptor
	for _, name := range trees {
		t, err := f.tree(name)
		if err != nil {
			return nil, err
		}
		for _, l := range t.Leaves() {
			if o.skip[l.Name] {
				continue
			}
			if len(want) > 0 {
				if !want[l.Name] {
					continue
				}
				found[l.Name] = true
			} else if !ValidLeafName(l.Name) {
				continue
			}
			out = append(out, LeafDescriptor{
				Tree:     name,
				Name:     l.Name,
				Type:     dtype.FromTypeName(l.TypeName),
				TypeName: l.TypeName,
				PerEvent: o.perEvent(l.Name, l.Len),
			})
		}
	}

	for _, n := range o.only {
		if !found[n] {
			return nil, fmt.Errorf("leaf %s: %w", n, ErrNotFound)
		}
	}
	return out, nil
}

func (o *options) perEvent(name string, length int) int {
	if length > 1 {
		return length
	}
	for _, p := range o.vectorPrefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return camera.NumPixels
		}
	}
	return 1
}
