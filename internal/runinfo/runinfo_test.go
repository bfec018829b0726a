package runinfo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func TestParseFileName(t *testing.T) {
	tests := []struct {
		name string
		want FileInfo
	}{
		{"20130930_244_244.root", FileInfo{Night: 20130930, Run1: 244, Run2: 244}},
		{"/data/2013/09/30/20130930_012_015.root", FileInfo{Night: 20130930, Run1: 12, Run2: 15}},
		{"20171022_215_C.root", FileInfo{Night: 20171022, Run1: 215, Run2: 215, Suffix: "C"}},
		{"20130930_244_244_B.root", FileInfo{Night: 20130930, Run1: 244, Run2: 244, Suffix: "B"}},
		{"20171022_215-summary.root", FileInfo{Night: 20171022, Run1: 215, Run2: 215, Suffix: "summary"}},
		{"20170102_345.drs.fits.gz", FileInfo{Night: 20170102, Run1: 345, Run2: 345}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFileName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFileNameErrors(t *testing.T) {
	for _, name := range []string{
		"summary.root",
		"2013093_244.root",
		"20131332_244.root",
		"20130930_abc.root",
		"20130930_244_B-summary.root",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFileName(name)
			assert.ErrorIs(t, err, ErrBadFileName)
		})
	}
}

func TestSplitExtAll(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"20170102_345.drs.fits.gz", []string{"20170102_345", ".drs", ".fits", ".gz"}},
		{"20170102_345.root", []string{"20170102_345", ".root"}},
		{"noext", []string{"noext"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitExtAll(tt.name))
		})
	}
}

func TestDatePaths(t *testing.T) {
	assert.Equal(t, "/gpfs/ganymed/2017/10/22", DatePath("/gpfs/ganymed/", 20171022))
	assert.Equal(t, "s3://bucket/ganymed/2017/01/02", DatePath("s3://bucket/ganymed", 20170102))
	assert.Equal(t,
		"/gpfs/ganymed/2017/10/22/20171022_007-summary.root",
		GanymedSummaryPath("/gpfs/ganymed", 20171022, 7))
}

func TestNightDate(t *testing.T) {
	n, err := ParseNight("20171022")
	require.NoError(t, err)
	d, err := n.Date()
	require.NoError(t, err)
	assert.Equal(t, 2017, d.Year())
	assert.Equal(t, 22, d.Day())
}

func TestParseRunList(t *testing.T) {
	in := strings.NewReader("run_id,night,theta\n# comment\n215,20171022,12.5\n7, 20171023,1\n")
	runs, err := ParseRunList(in)
	require.NoError(t, err)
	assert.Equal(t, []Run{{Night: 20171022, ID: 215}, {Night: 20171023, ID: 7}}, runs)
	assert.Equal(t, "20171023_007", runs[1].String())

	_, err = ParseRunList(strings.NewReader("night,run\n20171022,1\n"))
	assert.Error(t, err)
	_, err = ParseRunList(strings.NewReader("night,run_id\n2017102,1\n"))
	assert.Error(t, err)
	_, err = ParseRunList(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadRunList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.csv")
	require.NoError(t, os.WriteFile(path, []byte("night,run_id\n20171022,215\n"), 0o644))

	runs, err := ReadRunList(context.Background(), afs.New(), path)
	require.NoError(t, err)
	assert.Equal(t, []Run{{Night: 20171022, ID: 215}}, runs)

	_, err = ReadRunList(context.Background(), afs.New(), filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
