// Package mars reads typed columns and status displays out of tree files.
//
// A backend driver is set up once, then files are opened, read and closed:
//
//	b, err := mars.Setup("yaml")
//	if err != nil {
//	    return err // wraps mars.ErrBackendUnavailable
//	}
//	f, err := b.Open("20171022_215_C.root")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	cols, err := f.ExtractAll(mars.WithTree("Events"))
//	for name, c := range cols {
//	    fmt.Println(name, c.Shape, c.Type)
//	}
//
// # Columns
//
// Each leaf is extracted with one bulk projection. Scalar leaves become
// columns of shape (entries), per-pixel leaves columns of shape
// (entries, 1440) in CHID order. Data is narrowed to the declared element type
// of the leaf. A leaf that cannot be projected is skipped by ExtractAll and
// reported as ErrLeafNotExtractable by ExtractLeaf.
//
// # Status Displays
//
// The status display is a list of canvases holding pads and primitives.
// StatusIndex flattens it into uniquely keyed entries, and a Transformer turns
// camera histograms into 1440 value arrays and 1D histograms into Hist values:
//
//	idx, err := f.StatusIndex()
//	values, err := idx.Transform(mars.NewTransformer(mars.WithOverflow(false)))
package mars
