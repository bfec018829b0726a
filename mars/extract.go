package mars

// Extraction Strategy
//
// Walking events one by one through a per-record API is orders of magnitude
// slower than letting the store evaluate the leaf for the whole tree at once.
// ExtractLeaf therefore issues exactly one bulk projection per leaf: no
// selection, no graphics, the result left in one contiguous float64 buffer of
// entries*perEvent values. The buffer is reinterpreted as []float64 in place,
// permuted into CHID order for per-pixel leaves and finally narrowed to the
// declared element type.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robert-malhotra/go-readmars/backend"
	"github.com/robert-malhotra/go-readmars/internal/camera"
	"github.com/robert-malhotra/go-readmars/internal/dtype"
)

// ExtractLeaf materializes one leaf across all events. Every failure is a
// *LeafError matching ErrLeafNotExtractable.
func (f *File) ExtractLeaf(leaf LeafDescriptor, opts ...Option) (*Column, error) {
	o := buildOptions(opts)

	fail := func(err error) (*Column, error) {
		return nil, &LeafError{Tree: leaf.Tree, Leaf: leaf.Name, Err: err}
	}

	if leaf.PerEvent != 1 && leaf.PerEvent != camera.NumPixels {
		return fail(fmt.Errorf("unsupported per-event length %d", leaf.PerEvent))
	}
	t, err := f.tree(leaf.Tree)
	if err != nil {
		return fail(err)
	}

	entries := int(t.Entries())
	buf, err := t.Project(leaf.Name, leaf.PerEvent, backend.ProjectOptions{Quiet: !o.verbose})
	if err != nil {
		return fail(err)
	}
	vals, err := dtype.Float64s(buf)
	if err != nil {
		return fail(err)
	}
	n := entries * leaf.PerEvent
	if len(vals) < n {
		return fail(fmt.Errorf("projection returned %d values, want %d", len(vals), n))
	}
	vals = vals[:n]

	shape := []int{entries}
	if leaf.IsVector() {
		if err := camera.ToCHIDRows(o.pixels, vals); err != nil {
			return fail(err)
		}
		shape = append(shape, camera.NumPixels)
	}

	data, err := dtype.Narrow(leaf.Type, vals)
	if err != nil {
		return fail(err)
	}
	return &Column{
		Tree:  leaf.Tree,
		Name:  leaf.Name,
		Type:  leaf.Type.Native(),
		Shape: shape,
		Data:  data,
	}, nil
}

// ExtractAll extracts every leaf of the catalog. A leaf that cannot be
// extracted is logged and left out; it never fails the whole call. Columns are
// keyed by leaf name, or by "tree/leaf" when an earlier tree already used the
// name.
func (f *File) ExtractAll(opts ...Option) (map[string]*Column, error) {
	o := buildOptions(opts)

	leaves, err := f.Leaves(opts...)
	if err != nil {
		return nil, err
	}

	level := slog.LevelDebug
	if o.verbose {
		level = slog.LevelWarn
	}

	out := make(map[string]*Column, len(leaves))
	for _, leaf := range leaves {
		col, err := f.ExtractLeaf(leaf, opts...)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				return nil, err
			}
			o.logger.Log(context.Background(), level, "skipping leaf",
				"file", f.path, "tree", leaf.Tree, "leaf", leaf.Name, "error", err)
			continue
		}
		key := leaf.Name
		if _, taken := out[key]; taken {
			key = leaf.Tree + "/" + leaf.Name
		}
		out[key] = col
	}
	o.logger.Debug("extracted leaves", "file", f.path, "columns", len(out), "leaves", len(leaves))
	return out, nil
}
