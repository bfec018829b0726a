package mars

import (
	"testing"

	"github.com/robert-malhotra/go-readmars/backend"
	"github.com/robert-malhotra/go-readmars/backend/memstore"
	"github.com/robert-malhotra/go-readmars/internal/camera"
	"github.com/stretchr/testify/require"
)

const testEvents = 100

// ramp returns n values start, start+1, ...
func ramp(n int, start float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}

func mustHist(t *testing.T, name, class string, edges, contents []float64) *memstore.Hist {
	t.Helper()
	h, err := memstore.NewHist(name, class, edges, contents)
	require.NoError(t, err)
	return h
}

// summaryFile resembles a ganymed summary file: one events tree with a
// scalar leaf, a per-pixel leaf, bookkeeping leaves and a leaf that cannot be
// projected, plus a second tree.
func summaryFile() *memstore.FileData {
	return &memstore.FileData{
		Trees: []*memstore.TreeData{
			{
				Name:    "Events",
				Entries: testEvents,
				Leaves: []*memstore.LeafData{
					{Name: "MHillas.", TypeName: "MHillas"},
					{Name: "MHillas.fBits", TypeName: "UInt_t", Values: ramp(testEvents, 0)},
					{Name: "MHillas.fUniqueID", TypeName: "UInt_t", Values: ramp(testEvents, 0)},
					{Name: "EvtNumber.fVal", TypeName: "UInt_t", Values: ramp(testEvents, 1)},
					{Name: "MSignalCam.fPixels.fPhot", TypeName: "Float_t", Values: ramp(testEvents*camera.NumPixels, 0)},
					{Name: "MPointingPos.fObj", TypeName: "MPointingPos", Broken: true},
				},
			},
			{
				Name:    "RunHeaders",
				Entries: 1,
				Leaves: []*memstore.LeafData{
					{Name: "MRawRunHeader.fNumEvents", TypeName: "UInt_t", Values: []float64{testEvents}},
					{Name: "MRawRunHeader.fTriggerPattern", TypeName: "UChar_t", Values: []float64{7}},
				},
			},
		},
	}
}

// openTest registers data under a fresh driver and opens it.
func openTest(t *testing.T, data *memstore.FileData) (*File, *memstore.Driver) {
	t.Helper()
	d := memstore.New()
	d.Add("test.root", data)
	b, err := Use(d)
	require.NoError(t, err)
	f, err := b.Open("test.root")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f, d
}

func statusFile(status backend.Object) *memstore.FileData {
	return &memstore.FileData{Objects: []backend.Object{status}}
}
