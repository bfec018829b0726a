// Package memstore is an in-memory backend driver. Files are assembled from
// plain Go values and served by path.
package memstore

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/robert-malhotra/go-readmars/backend"
)

// FileData is the content of one in-memory file.
type FileData struct {
	Trees []*TreeData

	// Objects are the top-level non-tree objects, e.g. the status display.
	Objects []backend.Object
}

// TreeData is an in-memory tree.
type TreeData struct {
	Name    string
	Entries int64
	Leaves  []*LeafData
}

// LeafData is an in-memory leaf. Values holds Entries*Len values, event major.
type LeafData struct {
	Name     string
	TypeName string
	Len      int
	Values   []float64

	// Broken makes every projection of the leaf fail.
	Broken bool
}

// Driver serves FileData values by path.
type Driver struct {
	mu      sync.Mutex
	files   map[string]*FileData
	initErr error
	inits   int
	open    int
}

// New returns an empty driver.
func New() *Driver {
	return &Driver{files: make(map[string]*FileData)}
}

// Add registers data under path, replacing any previous content.
func (d *Driver) Add(path string, data *FileData) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.files[path] = data
}

// FailInit makes Init return err.
func (d *Driver) FailInit(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initErr = err
}

// Init implements backend.Driver.
func (d *Driver) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inits++
	return d.initErr
}

// Inits returns how often Init was called.
func (d *Driver) Inits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inits
}

// OpenFiles returns the number of files opened and not yet closed.
func (d *Driver) OpenFiles() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Open implements backend.Driver.
func (d *Driver) Open(path string) (backend.File, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, ok := d.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: file %s", backend.ErrNotFound, path)
	}
	d.open++
	return &file{data: data, release: d.release}, nil
}

func (d *Driver) release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open--
}

// OpenData serves data directly, without a driver.
func OpenData(data *FileData) backend.File {
	return &file{data: data, release: func() {}}
}

type file struct {
	data    *FileData
	release func()
	closed  bool
}

func (f *file) Keys() []backend.Key {
	keys := make([]backend.Key, 0, len(f.data.Trees)+len(f.data.Objects))
	for _, t := range f.data.Trees {
		keys = append(keys, backend.Key{Name: t.Name, ClassName: backend.ClassTree})
	}
	for _, o := range f.data.Objects {
		keys = append(keys, backend.Key{Name: o.Name(), ClassName: o.ClassName()})
	}
	return keys
}

func (f *file) Tree(name string) (backend.Tree, error) {
	if f.closed {
		return nil, backend.ErrClosed
	}
	for _, t := range f.data.Trees {
		if t.Name == name {
			return &tree{data: t}, nil
		}
	}
	return nil, fmt.Errorf("%w: tree %s", backend.ErrNotFound, name)
}

func (f *file) Object(name string) (backend.Object, error) {
	if f.closed {
		return nil, backend.ErrClosed
	}
	for _, o := range f.data.Objects {
		if o.Name() == name {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: object %s", backend.ErrNotFound, name)
}

func (f *file) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.release()
	return nil
}

type tree struct {
	data *TreeData
}

func (t *tree) Name() string   { return t.data.Name }
func (t *tree) Entries() int64 { return t.data.Entries }

func (t *tree) Leaves() []backend.Leaf {
	leaves := make([]backend.Leaf, len(t.data.Leaves))
	for i, l := range t.data.Leaves {
		leaves[i] = backend.Leaf{Name: l.Name, TypeName: l.TypeName, Len: l.Len}
	}
	return leaves
}

func (t *tree) Project(name string, perEvent int, opts backend.ProjectOptions) ([]byte, error) {
	var leaf *LeafData
	for _, l := range t.data.Leaves {
		if l.Name == name {
			leaf = l
			break
		}
	}
	if leaf == nil {
		return nil, fmt.Errorf("%w: no leaf %s in tree %s", backend.ErrProjection, name, t.data.Name)
	}
	if leaf.Broken {
		return nil, fmt.Errorf("%w: %s is not numeric", backend.ErrProjection, name)
	}

	n := int(t.data.Entries) * perEvent
	if len(leaf.Values) < n {
		return nil, fmt.Errorf("%w: %s holds %d values, need %d", backend.ErrProjection, name, len(leaf.Values), n)
	}
	buf := make([]byte, 8*n)
	for i, v := range leaf.Values[:n] {
		binary.NativeEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return buf, nil
}
