// Package backend defines the contract a backing store must satisfy to serve tree
// files and status displays to package mars.
//
// A store is exposed as a [Driver] registered under a name, the same way SQL
// drivers are:
//
//	func init() {
//	    backend.Register("yaml", yamlstore.New())
//	}
//
// Drivers are initialized explicitly (see mars.Setup) before the first file is
// opened. Every [File] returned by a driver must be closed by the caller.
package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Common errors
var (
	ErrUnknownDriver = errors.New("unknown backend driver")
	ErrNotFound      = errors.New("object not found")
	ErrProjection    = errors.New("leaf cannot be projected")
	ErrClosed        = errors.New("file is closed")
)

// Driver opens files of one backing format.
type Driver interface {
	// Init loads whatever the driver needs (native libraries, dictionaries).
	// It is called once per process before Open.
	Init() error

	// Open opens the named file.
	Open(path string) (File, error)
}

// Key describes a top-level object of a file.
type Key struct {
	Name      string
	ClassName string
}

// ClassTree is the class name announced for tree keys.
const ClassTree = "TTree"

// File is an open file. The file owns every tree and object it yields.
type File interface {
	// Keys lists the top-level objects in file order.
	Keys() []Key

	// Tree returns the named tree.
	Tree(name string) (Tree, error)

	// Object returns the named top-level object.
	Object(name string) (Object, error)

	Close() error
}

// Leaf is the type announcement of a column as made by the file itself.
type Leaf struct {
	Name string

	// TypeName is the declared element type, e.g. "Float_t".
	TypeName string

	// Len is the fixed number of values per event, 0 or 1 for scalars.
	Len int
}

// ProjectOptions configures a bulk projection.
type ProjectOptions struct {
	// Quiet suppresses diagnostics the store would otherwise print
	// while projecting.
	Quiet bool
}

// Tree is a container of equal-length leaves.
type Tree interface {
	Name() string
	Entries() int64
	Leaves() []Leaf

	// Project evaluates the leaf for every entry without a selection and
	// returns at least entries*perEvent native-endian float64 values as raw
	// bytes. The buffer belongs to the caller. Implementations wrap failures
	// with ErrProjection.
	Project(leaf string, perEvent int, opts ProjectOptions) ([]byte, error)
}

// Object is any named object stored in a file.
type Object interface {
	Name() string
	ClassName() string
}

// Container is an object holding an ordered list of primitives, such as a
// canvas, a pad, or the status array itself.
type Container interface {
	Object
	Primitives() []Object
}

// Histogram is a one dimensional histogram. Bins are numbered as in the file
// format: 0 is the underflow bin, 1..NbinsX the regular bins and NbinsX+1 the
// overflow bin.
type Histogram interface {
	Object
	NbinsX() int
	BinLowEdge(bin int) float64
	BinContent(bin int) float64
}

// Function is a fitted function backed by a sampled histogram.
type Function interface {
	Object
	Histogram() (Histogram, error)
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes a driver available under name. It panics if name is taken
// or d is nil.
func Register(name string, d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if d == nil {
		panic("backend: Register driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("backend: Register called twice for driver " + name)
	}
	drivers[name] = d
}

// Lookup returns the driver registered under name.
func Lookup(name string) (Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
	return d, nil
}

// Drivers returns the sorted names of the registered drivers.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
