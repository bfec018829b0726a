package mars

import (
	"fmt"

	"github.com/robert-malhotra/go-readmars/backend"
	"github.com/robert-malhotra/go-readmars/internal/camera"
)

// Hist is the plain form of a one dimensional histogram.
//
// With overflow bins, BinEdges holds the low edges of bins 0..N+1 and Content
// the contents of bins 0..N+1. Without, BinEdges holds the N+1 edges of bins
// 1..N and Content the contents of bins 1..N.
type Hist struct {
	BinEdges []float64
	Content  []float64
}

// TransformFunc converts a raw object into a plain value.
type TransformFunc func(obj backend.Object) (any, error)

// Transformer converts raw status display objects by kind. Kinds without a
// registered function are passed through unchanged.
type Transformer struct {
	funcs    map[Kind]TransformFunc
	overflow bool
	pixels   *camera.Map
}

// NewTransformer returns a transformer with the built-in conversions:
//
//	KindCamera          -> []float64 of 1440 values in CHID order
//	KindHist1F/1D       -> Hist
//	KindFunc            -> Hist of the function's histogram
func NewTransformer(opts ...Option) *Transformer {
	o := buildOptions(opts)
	t := &Transformer{
		funcs:    make(map[Kind]TransformFunc),
		overflow: o.overflow,
		pixels:   o.pixels,
	}
	t.Register(KindCamera, t.camera)
	t.Register(KindHist1F, t.hist)
	t.Register(KindHist1D, t.hist)
	t.Register(KindFunc, t.function)
	return t
}

// Register sets the conversion for kind, replacing any previous one.
func (t *Transformer) Register(kind Kind, fn TransformFunc) {
	t.funcs[kind] = fn
}

// Transform converts obj according to the kind of its class.
func (t *Transformer) Transform(obj backend.Object) (any, error) {
	fn, ok := t.funcs[KindOf(obj.ClassName())]
	if !ok {
		return obj, nil
	}
	return fn(obj)
}

func (t *Transformer) camera(obj backend.Object) (any, error) {
	h, ok := obj.(backend.Histogram)
	if !ok {
		return nil, fmt.Errorf("%s (%s): %w", obj.Name(), obj.ClassName(), ErrMalformedObject)
	}
	if h.NbinsX() != camera.NumPixels {
		return nil, fmt.Errorf("%s: camera histogram has %d bins, want %d: %w",
			obj.Name(), h.NbinsX(), camera.NumPixels, ErrMalformedObject)
	}

	soft := make([]float64, camera.NumPixels)
	for i := range soft {
		soft[i] = h.BinContent(i + 1)
	}
	out := make([]float64, camera.NumPixels)
	if err := camera.ToCHID(t.pixels, out, soft); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Transformer) hist(obj backend.Object) (any, error) {
	h, ok := obj.(backend.Histogram)
	if !ok {
		return nil, fmt.Errorf("%s (%s): %w", obj.Name(), obj.ClassName(), ErrMalformedObject)
	}
	return t.histValues(h), nil
}

func (t *Transformer) function(obj backend.Object) (any, error) {
	fn, ok := obj.(backend.Function)
	if !ok {
		return nil, fmt.Errorf("%s (%s): %w", obj.Name(), obj.ClassName(), ErrMalformedObject)
	}
	h, err := fn.Histogram()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", obj.Name(), err)
	}
	return t.histValues(h), nil
}

func (t *Transformer) histValues(h backend.Histogram) Hist {
	n := h.NbinsX()
	if t.overflow {
		out := Hist{BinEdges: make([]float64, n+2), Content: make([]float64, n+2)}
		for bin := 0; bin <= n+1; bin++ {
			out.BinEdges[bin] = h.BinLowEdge(bin)
			out.Content[bin] = h.BinContent(bin)
		}
		return out
	}

	out := Hist{BinEdges: make([]float64, n+1), Content: make([]float64, n)}
	for bin := 1; bin <= n+1; bin++ {
		out.BinEdges[bin-1] = h.BinLowEdge(bin)
		if bin <= n {
			out.Content[bin-1] = h.BinContent(bin)
		}
	}
	return out
}
