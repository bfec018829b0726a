package mars

import (
	"testing"

	"github.com/robert-malhotra/go-readmars/internal/camera"
	"github.com/robert-malhotra/go-readmars/internal/dtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidLeafName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"MHillas.fWidth", true},
		{"EvtNumber.fVal", true},
		{"MHillas.", false},
		{"MHillas.fBits", false},
		{"MHillas.fUniqueID", false},
		{"fBits", false},
		{"MBitsCounter.fN", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidLeafName(tt.name))
		})
	}
}

func leafNames(leaves []LeafDescriptor) []string {
	names := make([]string, len(leaves))
	for i, l := range leaves {
		names[i] = l.Name
	}
	return names
}

func TestLeaves(t *testing.T) {
	f, _ := openTest(t, summaryFile())

	assert.Equal(t, []string{"Events", "RunHeaders"}, f.Trees())

	leaves, err := f.Leaves()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"EvtNumber.fVal",
		"MSignalCam.fPixels.fPhot",
		"MPointingPos.fObj",
		"MRawRunHeader.fNumEvents",
		"MRawRunHeader.fTriggerPattern",
	}, leafNames(leaves))

	byName := make(map[string]LeafDescriptor)
	for _, l := range leaves {
		byName[l.Name] = l
	}
	assert.Equal(t, dtype.Uint32, byName["EvtNumber.fVal"].Type)
	assert.Equal(t, 1, byName["EvtNumber.fVal"].PerEvent)
	assert.Equal(t, dtype.Float32, byName["MSignalCam.fPixels.fPhot"].Type)
	assert.Equal(t, camera.NumPixels, byName["MSignalCam.fPixels.fPhot"].PerEvent)
	assert.True(t, byName["MSignalCam.fPixels.fPhot"].IsVector())
	assert.Equal(t, dtype.Unknown, byName["MPointingPos.fObj"].Type)
	assert.Equal(t, "MPointingPos", byName["MPointingPos.fObj"].TypeName)
	assert.Equal(t, "RunHeaders", byName["MRawRunHeader.fTriggerPattern"].Tree)
}

func TestLeavesIdempotent(t *testing.T) {
	f, _ := openTest(t, summaryFile())
	first, err := f.Leaves()
	require.NoError(t, err)
	second, err := f.Leaves()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLeavesFilters(t *testing.T) {
	f, _ := openTest(t, summaryFile())

	leaves, err := f.Leaves(WithTree("RunHeaders"))
	require.NoError(t, err)
	assert.Equal(t, []string{"MRawRunHeader.fNumEvents", "MRawRunHeader.fTriggerPattern"}, leafNames(leaves))

	leaves, err = f.Leaves(WithTree("Events"), WithoutLeaves("MPointingPos.fObj", "MSignalCam.fPixels.fPhot"))
	require.NoError(t, err)
	assert.Equal(t, []string{"EvtNumber.fVal"}, leafNames(leaves))

	leaves, err = f.Leaves(WithLeaves("EvtNumber.fVal", "MHillas.fBits"))
	require.NoError(t, err)
	assert.Equal(t, []string{"MHillas.fBits", "EvtNumber.fVal"}, leafNames(leaves))

	_, err = f.Leaves(WithLeaves("MHillas.fWidth"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.Leaves(WithTree("Drive"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeavesVectorPrefixes(t *testing.T) {
	f, _ := openTest(t, summaryFile())

	leaves, err := f.Leaves(WithTree("Events"), WithVectorPrefixes("MCerPhotEvt"))
	require.NoError(t, err)
	for _, l := range leaves {
		assert.Equal(t, 1, l.PerEvent, l.Name)
	}
}

func TestLeavesClosed(t *testing.T) {
	f, _ := openTest(t, summaryFile())
	require.NoError(t, f.Close())
	assert.Empty(t, f.Trees())

	_, err := f.Leaves(WithTree("Events"))
	assert.ErrorIs(t, err, ErrClosed)
}
