// Package yamlstore is a backend driver reading files described in YAML.
//
// A description lists the trees of a file with their leaves and the status
// display as nested canvases, pads and histograms:
//
//	trees:
//	  - name: Events
//	    entries: 3
//	    leaves:
//	      - {name: EvtNumber.fVal, type: UInt_t, values: [1, 2, 3]}
//	      - {name: MSignalCam.fPixels.fPhot, type: Float_t, len: 1440, fill: 0.5}
//	status:
//	  name: MStatusDisplay
//	  objects:
//	    - name: Cams1
//	      class: TCanvas
//	      objects:
//	        - {name: Gain, class: MHCamera, fill: 1.0}
//
// Files are fetched through afs, so any URL afs understands can be opened.
// The driver registers itself as "yaml".
package yamlstore

import (
	"context"
	"fmt"

	"github.com/robert-malhotra/go-readmars/backend"
	"github.com/robert-malhotra/go-readmars/backend/memstore"
	"github.com/robert-malhotra/go-readmars/internal/camera"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// DriverName is the name the driver registers under.
const DriverName = "yaml"

func init() {
	backend.Register(DriverName, New())
}

// Document is the YAML description of one file.
type Document struct {
	Trees  []Tree   `yaml:"trees"`
	Status *Object  `yaml:"status,omitempty"`
	Extra  []Object `yaml:"objects,omitempty"`
}

// Tree describes a tree.
type Tree struct {
	Name    string `yaml:"name"`
	Entries int64  `yaml:"entries"`
	Leaves  []Leaf `yaml:"leaves"`
}

// Leaf describes a leaf. Values is event major; when it is empty every value
// is Fill.
type Leaf struct {
	Name   string    `yaml:"name"`
	Type   string    `yaml:"type"`
	Len    int       `yaml:"len,omitempty"`
	Values []float64 `yaml:"values,omitempty"`
	Fill   float64   `yaml:"fill,omitempty"`
	Broken bool      `yaml:"broken,omitempty"`
}

// Object describes a status display object. Containers carry Objects,
// histograms Edges and Contents, cameras Contents (or Fill) in softID order
// and functions a Histogram.
type Object struct {
	Name      string    `yaml:"name"`
	Class     string    `yaml:"class"`
	Objects   []Object  `yaml:"objects,omitempty"`
	Edges     []float64 `yaml:"edges,omitempty"`
	Contents  []float64 `yaml:"contents,omitempty"`
	Fill      float64   `yaml:"fill,omitempty"`
	Histogram *Object   `yaml:"histogram,omitempty"`
}

// Driver opens YAML descriptions.
type Driver struct {
	fs afs.Service
}

// New returns a driver backed by the default afs service.
func New() *Driver {
	return &Driver{fs: afs.New()}
}

// Init implements backend.Driver. There is nothing to load.
func (d *Driver) Init() error {
	return nil
}

// Open implements backend.Driver.
func (d *Driver) Open(path string) (backend.File, error) {
	raw, err := d.fs.DownloadWithURL(context.Background(), path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", backend.ErrNotFound, path, err)
	}
	data, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return memstore.OpenData(data), nil
}

// Parse builds in-memory file content from a YAML description.
func Parse(raw []byte) (*memstore.FileData, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing description: %w", err)
	}
	return doc.Build()
}

// Build converts the description into in-memory file content.
func (doc *Document) Build() (*memstore.FileData, error) {
	data := &memstore.FileData{}
	for _, t := range doc.Trees {
		td := &memstore.TreeData{Name: t.Name, Entries: t.Entries}
		for _, l := range t.Leaves {
			width := max(l.Len, 1)
			n := int(t.Entries) * width
			values := l.Values
			switch {
			case l.Broken:
			case len(values) == 0:
				values = make([]float64, n)
				for i := range values {
					values[i] = l.Fill
				}
			case len(values) != n:
				return nil, fmt.Errorf("leaf %s.%s: %d values, want %d", t.Name, l.Name, len(values), n)
			}
			td.Leaves = append(td.Leaves, &memstore.LeafData{
				Name:     l.Name,
				TypeName: l.Type,
				Len:      l.Len,
				Values:   values,
				Broken:   l.Broken,
			})
		}
		data.Trees = append(data.Trees, td)
	}

	if doc.Status != nil {
		status := *doc.Status
		if status.Name == "" {
			status.Name = "MStatusDisplay"
		}
		if status.Class == "" {
			status.Class = "MStatusArray"
		}
		obj, err := status.build()
		if err != nil {
			return nil, err
		}
		data.Objects = append(data.Objects, obj)
	}
	for _, o := range doc.Extra {
		obj, err := o.build()
		if err != nil {
			return nil, err
		}
		data.Objects = append(data.Objects, obj)
	}
	return data, nil
}

func (o *Object) build() (backend.Object, error) {
	switch {
	case o.Class == "MHCamera":
		values := o.Contents
		if len(values) == 0 {
			values = make([]float64, camera.NumPixels)
			for i := range values {
				values[i] = o.Fill
			}
		}
		return memstore.NewCamera(o.Name, values), nil

	case o.Histogram != nil:
		h, err := o.Histogram.build()
		if err != nil {
			return nil, err
		}
		hist, ok := h.(backend.Histogram)
		if !ok {
			return nil, fmt.Errorf("function %s: backing object %s is not a histogram", o.Name, o.Histogram.Name)
		}
		f := memstore.NewFunc(o.Name, hist)
		if o.Class != "" {
			f.Class = o.Class
		}
		return f, nil

	case len(o.Edges) > 0:
		h, err := memstore.NewHist(o.Name, o.Class, o.Edges, o.Contents)
		if err != nil {
			return nil, err
		}
		return h, nil

	case len(o.Objects) > 0 || isContainerClass(o.Class):
		children := make([]backend.Object, 0, len(o.Objects))
		for i := range o.Objects {
			child, err := o.Objects[i].build()
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return memstore.NewList(o.Name, o.Class, children...), nil

	default:
		return memstore.NewObject(o.Name, o.Class), nil
	}
}

func isContainerClass(class string) bool {
	switch class {
	case "TCanvas", "TPad", "MStatusArray", "TObjArray", "TList":
		return true
	}
	return false
}
