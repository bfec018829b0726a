package mars

import (
	"testing"

	"github.com/robert-malhotra/go-readmars/backend"
	"github.com/robert-malhotra/go-readmars/backend/memstore"
	"github.com/robert-malhotra/go-readmars/internal/camera"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformCameraCHIDOrder(t *testing.T) {
	cam := memstore.NewCamera("Gain", ramp(camera.NumPixels, 0))

	v, err := NewTransformer().Transform(cam)
	require.NoError(t, err)
	out, ok := v.([]float64)
	require.True(t, ok)
	require.Len(t, out, camera.NumPixels)

	m := camera.Default()
	for chid := range out {
		require.Equal(t, float64(m.SoftID(chid)), out[chid], "chid %d", chid)
	}
}

func TestTransformCameraCustomMap(t *testing.T) {
	identity := make([]int, camera.NumPixels)
	for i := range identity {
		identity[i] = i
	}
	m, err := camera.New(identity)
	require.NoError(t, err)

	cam := memstore.NewCamera("Gain", ramp(camera.NumPixels, 10))
	v, err := NewTransformer(WithPixelMap(m)).Transform(cam)
	require.NoError(t, err)
	assert.Equal(t, ramp(camera.NumPixels, 10), v)
}

func TestTransformHist(t *testing.T) {
	h := mustHist(t, "Size", "TH1F", []float64{0, 1, 2, 3}, []float64{9, 1, 2, 3, 8})

	tests := []struct {
		name     string
		overflow bool
		want     Hist
	}{
		{
			name:     "with overflow",
			overflow: true,
			want: Hist{
				BinEdges: []float64{-1, 0, 1, 2, 3},
				Content:  []float64{9, 1, 2, 3, 8},
			},
		},
		{
			name:     "without overflow",
			overflow: false,
			want: Hist{
				BinEdges: []float64{0, 1, 2, 3},
				Content:  []float64{1, 2, 3},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewTransformer(WithOverflow(tt.overflow)).Transform(h)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestTransformFunc(t *testing.T) {
	h := mustHist(t, "fit_hist", "TH1D", []float64{0, 2, 4}, []float64{5, 6})
	fn := memstore.NewFunc("fit", h)

	v, err := NewTransformer(WithOverflow(false)).Transform(fn)
	require.NoError(t, err)
	assert.Equal(t, Hist{BinEdges: []float64{0, 2, 4}, Content: []float64{5, 6}}, v)

	_, err = NewTransformer().Transform(memstore.NewFunc("empty", nil))
	assert.Error(t, err)
}

func TestTransformPassThrough(t *testing.T) {
	obj := memstore.NewObject("MTime", "MTime")
	v, err := NewTransformer().Transform(obj)
	require.NoError(t, err)
	assert.Same(t, obj, v)
}

func TestTransformMalformed(t *testing.T) {
	tests := []struct {
		name string
		obj  backend.Object
	}{
		{"camera wrong bins", memstore.NewCamera("Gain", make([]float64, 10))},
		{"camera not a histogram", memstore.NewObject("Gain", "MHCamera")},
		{"hist not a histogram", memstore.NewObject("Size", "TH1F")},
		{"func not a function", memstore.NewObject("fit", "TF1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransformer().Transform(tt.obj)
			assert.ErrorIs(t, err, ErrMalformedObject)
		})
	}
}

func TestTransformRegister(t *testing.T) {
	tr := NewTransformer()
	tr.Register(KindHist1F, func(obj backend.Object) (any, error) {
		return obj.Name(), nil
	})
	tr.Register(KindUnknown, func(obj backend.Object) (any, error) {
		return nil, nil
	})

	v, err := tr.Transform(mustHist(t, "Size", "TH1F", []float64{0, 1}, []float64{1}))
	require.NoError(t, err)
	assert.Equal(t, "Size", v)

	v, err = tr.Transform(memstore.NewObject("MTime", "MTime"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func displayFile(t *testing.T) *memstore.FileData {
	return statusFile(memstore.NewStatusArray(DefaultStatusName,
		memstore.NewCanvas("Cams",
			memstore.NewCamera("Pix5", ramp(camera.NumPixels, 0)),
			memstore.NewObject("title", "TPaveText"),
		),
		memstore.NewCanvas("Hists",
			memstore.NewPad("p1",
				mustHist(t, "Pix5", "TH1F", []float64{0, 1, 2}, []float64{1, 2}),
			),
		),
	))
}

func TestReadStatusDisplay(t *testing.T) {
	d := memstore.New()
	d.Add("status.root", displayFile(t))
	b, err := Use(d)
	require.NoError(t, err)

	values, err := b.ReadStatusDisplay("status.root", WithOverflow(false))
	require.NoError(t, err)
	assert.Equal(t, 0, d.OpenFiles())
	require.Len(t, values, 2)

	assert.Len(t, values["Pix5"], camera.NumPixels)
	assert.Equal(t, Hist{BinEdges: []float64{0, 1, 2}, Content: []float64{1, 2}}, values["p1_Pix5"])
}

func TestReadStatusDisplayRaw(t *testing.T) {
	d := memstore.New()
	d.Add("status.root", displayFile(t))
	b, err := Use(d)
	require.NoError(t, err)

	values, err := b.ReadStatusDisplay("status.root", WithTransform(false))
	require.NoError(t, err)
	assert.Equal(t, 0, d.OpenFiles())

	raw, ok := values["Pix5"].(backend.Histogram)
	require.True(t, ok)
	assert.Equal(t, "MHCamera", raw.ClassName())
}

func TestReadStatusDisplayMissing(t *testing.T) {
	d := memstore.New()
	d.Add("trees.root", summaryFile())
	b, err := Use(d)
	require.NoError(t, err)

	_, err = b.ReadStatusDisplay("trees.root")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, d.OpenFiles())
}
