package runinfo

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/viant/afs"
)

// Run identifies one data run.
type Run struct {
	Night Night
	ID    int
}

func (r Run) String() string {
	return fmt.Sprintf("%s_%03d", r.Night, r.ID)
}

// ParseRunList reads a CSV run list with a header row naming at least the
// columns night and run_id. Other columns are ignored.
func ParseRunList(r io.Reader) ([]Run, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("run list is empty")
		}
		return nil, fmt.Errorf("reading run list header: %w", err)
	}
	nightCol, runCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "night":
			nightCol = i
		case "run_id":
			runCol = i
		}
	}
	if nightCol < 0 || runCol < 0 {
		return nil, fmt.Errorf("run list header %v: need night and run_id columns", header)
	}

	var runs []Run
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading run list: %w", err)
		}
		line, _ := cr.FieldPos(0)
		night, err := ParseNight(strings.TrimSpace(rec[nightCol]))
		if err != nil {
			return nil, fmt.Errorf("run list line %d: %w", line, err)
		}
		id, err := strconv.Atoi(strings.TrimSpace(rec[runCol]))
		if err != nil {
			return nil, fmt.Errorf("run list line %d: run_id: %w", line, err)
		}
		runs = append(runs, Run{Night: night, ID: id})
	}
	return runs, nil
}

// ReadRunList downloads a run list from any location afs can read.
func ReadRunList(ctx context.Context, fs afs.Service, url string) ([]Run, error) {
	raw, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("downloading run list %s: %w", url, err)
	}
	runs, err := ParseRunList(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return runs, nil
}
