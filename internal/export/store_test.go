package export

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/robert-malhotra/go-readmars/internal/dtype"
	"github.com/robert-malhotra/go-readmars/mars"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

func testColumns() map[string]*mars.Column {
	return map[string]*mars.Column{
		"EvtNumber.fVal": {
			Name: "EvtNumber.fVal", Type: dtype.Uint32,
			Shape: []int{3}, Data: []uint32{1, 2, 3},
		},
		"MHillas.fWidth": {
			Name: "MHillas.fWidth", Type: dtype.Float32,
			Shape: []int{3}, Data: []float32{0.5, 1.5, 2.5},
		},
		"MSignalCam.fPixels.fPhot": {
			Name: "MSignalCam.fPixels.fPhot", Type: dtype.Float32,
			Shape: []int{3, 2}, Data: []float32{1, 2, 3, 4, 5, 6},
		},
	}
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM "+quote(table)).Scan(&n))
	return n
}

func TestMigrateIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
}

func TestWriteColumns(t *testing.T) {
	s := newTestStore(t)

	n, err := s.WriteColumns("events", testColumns(), map[string]any{"night": 20171022, "run_id": 215}, Replace)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, countRows(t, s, "events"))

	var (
		evt   int64
		width float64
		phot  []byte
		night int64
		run   int64
	)
	err = s.DB().QueryRow(`SELECT "EvtNumber.fVal", "MHillas.fWidth", "MSignalCam.fPixels.fPhot", night, run_id
		FROM events WHERE "EvtNumber.fVal" = 2`).Scan(&evt, &width, &phot, &night, &run)
	require.NoError(t, err)
	assert.Equal(t, int64(2), evt)
	assert.Equal(t, 1.5, width)
	assert.Equal(t, int64(20171022), night)
	assert.Equal(t, int64(215), run)

	typ, w, err := s.ColumnType("events", "MSignalCam.fPixels.fPhot")
	require.NoError(t, err)
	assert.Equal(t, dtype.Float32, typ)
	assert.Equal(t, 2, w)

	row, err := Decode(phot, typ)
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4}, row)

	typ, w, err = s.ColumnType("events", "EvtNumber.fVal")
	require.NoError(t, err)
	assert.Equal(t, dtype.Uint32, typ)
	assert.Equal(t, 1, w)

	typ, _, err = s.ColumnType("events", "night")
	require.NoError(t, err)
	assert.Equal(t, dtype.Int64, typ)
	_, _, err = s.ColumnType("events", "missing")
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	blob, err := binary.Append(nil, binary.LittleEndian, []uint16{1, 1439})
	require.NoError(t, err)
	got, err := Decode(blob, dtype.Uint16)
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 1439}, got)

	got, err = Decode([]byte{1, 0}, dtype.Bool)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, got)

	_, err = Decode(make([]byte, 3), dtype.Int16)
	assert.Error(t, err)
}

func TestWriteColumnsAppendAndReplace(t *testing.T) {
	s := newTestStore(t)

	for run := 1; run <= 3; run++ {
		mode := Append
		if run == 1 {
			mode = Replace
		}
		_, err := s.WriteColumns("events", testColumns(), map[string]any{"run_id": run}, mode)
		require.NoError(t, err)
	}
	assert.Equal(t, 9, countRows(t, s, "events"))

	_, err := s.WriteColumns("events", testColumns(), map[string]any{"run_id": 4}, Replace)
	require.NoError(t, err)
	assert.Equal(t, 3, countRows(t, s, "events"))
}

func TestWriteColumnsSchemaMismatch(t *testing.T) {
	s := newTestStore(t)
	_, err := s.WriteColumns("events", testColumns(), nil, Replace)
	require.NoError(t, err)

	_, err = s.WriteColumns("events", testColumns(), map[string]any{"run_id": 1}, Append)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	cols := testColumns()
	cols["MHillas.fWidth"].Shape = []int{3, 1}
	_, err = s.WriteColumns("events", cols, nil, Append)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	assert.Equal(t, 3, countRows(t, s, "events"))
}

func TestWriteColumnsErrors(t *testing.T) {
	s := newTestStore(t)

	_, err := s.WriteColumns("events", nil, nil, Replace)
	assert.Error(t, err)

	cols := testColumns()
	cols["short"] = &mars.Column{Name: "short", Type: dtype.Int32, Shape: []int{1}, Data: []int32{1}}
	_, err = s.WriteColumns("events", cols, nil, Replace)
	assert.Error(t, err)

	_, err = s.WriteColumns("events", testColumns(), map[string]any{"EvtNumber.fVal": 1}, Replace)
	assert.Error(t, err)

	_, err = s.WriteColumns("events", testColumns(), map[string]any{"bad": []int{1}}, Replace)
	assert.Error(t, err)

	// Data must match the declared type and the shape.
	cols = testColumns()
	cols["MHillas.fWidth"].Data = []float64{0.5, 1.5, 2.5}
	_, err = s.WriteColumns("events", cols, nil, Replace)
	assert.ErrorContains(t, err, "declared float32")

	cols = testColumns()
	cols["MSignalCam.fPixels.fPhot"].Shape = []int{3, 3}
	_, err = s.WriteColumns("events", cols, nil, Replace)
	assert.ErrorContains(t, err, "holds 6 values")

	cols = testColumns()
	cols["EvtNumber.fVal"].Data = []string{"1", "2", "3"}
	_, err = s.WriteColumns("events", cols, nil, Replace)
	assert.Error(t, err)
}

func TestWriteStatus(t *testing.T) {
	s := newTestStore(t)

	values := map[string]any{
		"Gain": []float64{1, 2, 3},
		"Size": mars.Hist{BinEdges: []float64{0, 1, 2}, Content: []float64{4, 5}},
		"Raw":  struct{}{},
	}
	skipped, err := s.WriteStatus("status", 20171022, 215, values)
	require.NoError(t, err)
	assert.Equal(t, []string{"Raw"}, skipped)
	assert.Equal(t, 2, countRows(t, s, "status"))

	var kind string
	var edges, content []byte
	require.NoError(t, s.DB().QueryRow(
		"SELECT kind, edges, content FROM status WHERE key = ?", "Size").Scan(&kind, &edges, &content))
	assert.Equal(t, "hist", kind)
	e, err := Float64s(edges)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, e)
	c, err := Float64s(content)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5}, c)

	// Rewriting a run replaces its rows.
	_, err = s.WriteStatus("status", 20171022, 215, map[string]any{"Gain": []float64{1}})
	require.NoError(t, err)
	assert.Equal(t, 1, countRows(t, s, "status"))

	_, err = s.WriteStatus("status", 20171022, 216, map[string]any{"Gain": []float64{1}})
	require.NoError(t, err)
	assert.Equal(t, 2, countRows(t, s, "status"))
}

func TestFloat64sOddLength(t *testing.T) {
	_, err := Float64s(make([]byte, 7))
	assert.Error(t, err)
}
