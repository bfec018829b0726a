package memstore

import (
	"fmt"

	"github.com/robert-malhotra/go-readmars/backend"
)

// Named is a plain object with a name and a class.
type Named struct {
	ObjName string
	Class   string
}

// NewObject returns a plain object of the given class.
func NewObject(name, class string) *Named {
	return &Named{ObjName: name, Class: class}
}

func (n *Named) Name() string      { return n.ObjName }
func (n *Named) ClassName() string { return n.Class }

// List is an ordered container: a canvas, a pad or a status array.
type List struct {
	Named
	Children []backend.Object
}

// NewList returns a container of the given class.
func NewList(name, class string, children ...backend.Object) *List {
	return &List{Named: Named{ObjName: name, Class: class}, Children: children}
}

// NewStatusArray returns a status display holding the given objects.
func NewStatusArray(name string, objs ...backend.Object) *List {
	return NewList(name, "MStatusArray", objs...)
}

// NewCanvas returns a TCanvas.
func NewCanvas(name string, children ...backend.Object) *List {
	return NewList(name, "TCanvas", children...)
}

// NewPad returns a TPad.
func NewPad(name string, children ...backend.Object) *List {
	return NewList(name, "TPad", children...)
}

func (l *List) Primitives() []backend.Object { return l.Children }

// Hist is a fixed-binning histogram.
//
// Edges holds the NbinsX+1 edges of the regular bins. Contents holds the
// NbinsX+2 bin contents including underflow and overflow.
type Hist struct {
	Named
	Edges    []float64
	Contents []float64
}

// NewHist returns a histogram. contents may omit underflow and overflow, in
// which case they are zero.
func NewHist(name, class string, edges, contents []float64) (*Hist, error) {
	if len(edges) < 2 {
		return nil, fmt.Errorf("histogram %s needs at least two edges", name)
	}
	n := len(edges) - 1
	switch len(contents) {
	case n + 2:
	case n:
		padded := make([]float64, n+2)
		copy(padded[1:], contents)
		contents = padded
	default:
		return nil, fmt.Errorf("histogram %s: %d bins but %d contents", name, n, len(contents))
	}
	return &Hist{Named: Named{ObjName: name, Class: class}, Edges: edges, Contents: contents}, nil
}

// NewCamera returns an MHCamera histogram with one bin per pixel. values is
// in softID order: bin softID+1 holds values[softID].
func NewCamera(name string, values []float64) *Hist {
	edges := make([]float64, len(values)+1)
	for i := range edges {
		edges[i] = float64(i) - 0.5
	}
	contents := make([]float64, len(values)+2)
	copy(contents[1:], values)
	return &Hist{Named: Named{ObjName: name, Class: "MHCamera"}, Edges: edges, Contents: contents}
}

func (h *Hist) NbinsX() int { return len(h.Edges) - 1 }

func (h *Hist) BinLowEdge(bin int) float64 {
	switch {
	case bin <= 0:
		return h.Edges[0] - (h.Edges[1] - h.Edges[0])
	case bin > h.NbinsX():
		return h.Edges[len(h.Edges)-1]
	default:
		return h.Edges[bin-1]
	}
}

func (h *Hist) BinContent(bin int) float64 {
	if bin < 0 || bin >= len(h.Contents) {
		return 0
	}
	return h.Contents[bin]
}

// Func is a TF1 backed by a sampled histogram.
type Func struct {
	Named
	Hist backend.Histogram
}

// NewFunc returns a TF1 sampled into h. h may be nil.
func NewFunc(name string, h backend.Histogram) *Func {
	return &Func{Named: Named{ObjName: name, Class: "TF1"}, Hist: h}
}

func (f *Func) Histogram() (backend.Histogram, error) {
	if f.Hist == nil {
		return nil, fmt.Errorf("function %s has no histogram", f.ObjName)
	}
	return f.Hist, nil
}
