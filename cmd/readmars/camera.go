package main

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-readmars/internal/camera"
	"github.com/robert-malhotra/go-readmars/internal/dtype"
	"github.com/robert-malhotra/go-readmars/internal/export"
	"github.com/robert-malhotra/go-readmars/internal/runinfo"
	"github.com/robert-malhotra/go-readmars/mars"
	"github.com/spf13/cobra"
)

// cameraHist names one camera histogram on one canvas of a status display.
type cameraHist struct {
	column string
	hist   string
	canvas string
}

// parseCameraHist parses column=Hist:Canvas.
func parseCameraHist(s string) (cameraHist, error) {
	column, rest, ok := strings.Cut(s, "=")
	if !ok {
		return cameraHist{}, fmt.Errorf("camera histogram %q: want column=Hist:Canvas", s)
	}
	hist, canvas, ok := strings.Cut(rest, ":")
	if !ok || column == "" || hist == "" || canvas == "" {
		return cameraHist{}, fmt.Errorf("camera histogram %q: want column=Hist:Canvas", s)
	}
	return cameraHist{column: column, hist: hist, canvas: canvas}, nil
}

var defaultCameraHists = []string{
	"gain=Gain:Cams1",
	"rate=Rate:Cams1",
	"crosstalk=Crosstalk:Cams1",
}

func newCameraCmd(a *app) *cobra.Command {
	var (
		hists []string
		table string
	)

	cmd := &cobra.Command{
		Use:   "camera FILE OUTPUT.db",
		Short: "Write per-pixel camera histograms of a status display as one table",
		Long:  "Looks up each camera histogram on its canvas and appends one row per pixel, in CHID order, with CHID and softID columns, one column per histogram and the night and run of the file.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs := make([]cameraHist, 0, len(hists))
			for _, h := range hists {
				spec, err := parseCameraHist(h)
				if err != nil {
					return err
				}
				specs = append(specs, spec)
			}
			info, err := runinfo.ParseFileName(args[0])
			if err != nil {
				return err
			}

			cols, err := readCameraColumns(a, args[0], specs)
			if err != nil {
				return err
			}

			store, err := openStore(args[1])
			if err != nil {
				return err
			}
			defer store.Close()

			constants := map[string]any{"night": int(info.Night), "run": info.Run1}
			n, err := store.WriteColumns(table, cols, constants, export.Append)
			if err != nil {
				return err
			}
			a.logger.Info("camera table written", "table", table, "rows", n)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&hists, "hist", defaultCameraHists, "column=Hist:Canvas of a camera histogram, repeatable")
	cmd.Flags().StringVar(&table, "table", "camera", "output table")
	return cmd
}

func readCameraColumns(a *app, path string, specs []cameraHist) (map[string]*mars.Column, error) {
	f, err := a.backend.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	opts := a.options()
	t := mars.NewTransformer(opts...)

	chids := make([]uint16, camera.NumPixels)
	softIDs := make([]uint16, camera.NumPixels)
	for chid, soft := range a.pixels.SoftIDs() {
		chids[chid] = uint16(chid)
		softIDs[chid] = uint16(soft)
	}
	cols := map[string]*mars.Column{
		"CHID":   {Name: "CHID", Type: dtype.Uint16, Shape: []int{camera.NumPixels}, Data: chids},
		"softID": {Name: "softID", Type: dtype.Uint16, Shape: []int{camera.NumPixels}, Data: softIDs},
	}
	for _, spec := range specs {
		obj, err := f.FindInCanvas(spec.hist, "MHCamera", spec.canvas, opts...)
		if err != nil {
			return nil, err
		}
		v, err := t.Transform(obj)
		if err != nil {
			return nil, err
		}
		cols[spec.column] = &mars.Column{
			Name:  spec.column,
			Type:  dtype.Float64,
			Shape: []int{camera.NumPixels},
			Data:  v.([]float64),
		}
	}
	return cols, nil
}
