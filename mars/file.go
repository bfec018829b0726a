package mars

import (
	"errors"
	"fmt"
	"sync"

	"github.com/robert-malhotra/go-readmars/backend"
)

// Backend is an initialized backend driver.
type Backend struct {
	name   string
	driver backend.Driver
}

type setupResult struct {
	b   *Backend
	err error
}

var (
	setupMu sync.Mutex
	setups  = make(map[backend.Driver]*setupResult)
)

// Setup initializes the driver registered under name. It must be called before
// any file is opened. Setup is idempotent: the driver is initialized once per
// process and later calls return the first result. Initialization failures are
// reported as ErrBackendUnavailable.
func Setup(name string) (*Backend, error) {
	d, err := backend.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	return setup(name, d)
}

// Use initializes an unregistered driver, with the same semantics as Setup.
func Use(d backend.Driver) (*Backend, error) {
	return setup(fmt.Sprintf("%T", d), d)
}

func setup(name string, d backend.Driver) (*Backend, error) {
	setupMu.Lock()
	defer setupMu.Unlock()

	if r, ok := setups[d]; ok {
		return r.b, r.err
	}
	r := &setupResult{}
	if err := d.Init(); err != nil {
		r.err = fmt.Errorf("%w: %s: %w", ErrBackendUnavailable, name, err)
	} else {
		r.b = &Backend{name: name, driver: d}
	}
	setups[d] = r
	return r.b, r.err
}

// Name returns the driver name.
func (b *Backend) Name() string {
	return b.name
}

// File is an open tree file.
type File struct {
	path   string
	file   backend.File
	closed bool
}

// Open opens a file. The caller must Close it.
func (b *Backend) Open(path string) (*File, error) {
	f, err := b.driver.Open(path)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, fmt.Errorf("opening file: %w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return &File{path: path, file: f}, nil
}

// Close releases the file. Closing twice is a no-op.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.file.Close()
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Trees returns the names of the trees in file order.
func (f *File) Trees() []string {
	if f.closed {
		return nil
	}
	var names []string
	for _, k := range f.file.Keys() {
		if k.ClassName == backend.ClassTree {
			names = append(names, k.Name)
		}
	}
	return names
}

func (f *File) tree(name string) (backend.Tree, error) {
	if f.closed {
		return nil, ErrClosed
	}
	t, err := f.file.Tree(name)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, fmt.Errorf("tree %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("tree %s: %w", name, err)
	}
	return t, nil
}

func (f *File) object(name string) (backend.Object, error) {
	if f.closed {
		return nil, ErrClosed
	}
	obj, err := f.file.Object(name)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return obj, nil
}

// ReadTreeFile opens path, extracts every valid leaf and closes the file.
// Leaves that cannot be extracted are left out of the result.
func (b *Backend) ReadTreeFile(path string, opts ...Option) (map[string]*Column, error) {
	f, err := b.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ExtractAll(opts...)
}

// ReadStatusDisplay opens path, indexes its status display, transforms every
// object and closes the file. With WithTransform(false) the raw objects are
// returned; they must not be used to reach back into the file.
func (b *Backend) ReadStatusDisplay(path string, opts ...Option) (map[string]any, error) {
	f, err := b.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	o := buildOptions(opts)
	idx, err := f.StatusIndex(opts...)
	if err != nil {
		return nil, err
	}
	if !o.transform {
		out := make(map[string]any, idx.Len())
		for _, key := range idx.Keys() {
			e, _ := idx.Get(key)
			out[key] = e.Object
		}
		return out, nil
	}
	return idx.Transform(NewTransformer(opts...))
}
