package mars

import (
	"fmt"

	"github.com/robert-malhotra/go-readmars/backend"
)

// StatusEntry is one indexed status display object.
type StatusEntry struct {
	Object    backend.Object
	Name      string
	ClassName string
	Kind      Kind

	// Canvas is the enclosing canvas, PadPath the pads between the canvas and
	// the object, outermost first. PadPath is empty for objects drawn directly
	// on the canvas.
	Canvas  string
	PadPath []string
}

// Path returns the segments canvas, pads..., name.
func (e StatusEntry) Path() []string {
	path := make([]string, 0, len(e.PadPath)+2)
	path = append(path, e.Canvas)
	path = append(path, e.PadPath...)
	return append(path, e.Name)
}

// StatusIndex is a flat, uniquely keyed view of a status display.
type StatusIndex struct {
	keys     []string
	entries  map[string]StatusEntry
	canvases []string
}

// node is an arena slot of the copied hierarchy.
type node struct {
	parent   int
	name     string
	kind     Kind
	obj      backend.Object
	children []int
	// container is set for top-level canvases and pads. A canvas nested
	// inside another canvas is an end object.
	container bool
}

// StatusIndex walks the status display of the file and indexes every
// non-decorative primitive under a unique key.
//
// Keys are chosen by progressive suffix: the object's own name if it is still
// free, otherwise the name prefixed by its pad, then by the next outer pad,
// up to the canvas, joined with KeySeparator. If even the full path is taken
// the index fails with ErrKeyCollision; no partial index is returned.
func (f *File) StatusIndex(opts ...Option) (*StatusIndex, error) {
	o := buildOptions(opts)
	status, err := f.statusDisplay(o)
	if err != nil {
		return nil, err
	}
	return buildIndex(status, o)
}

// StatusDisplay returns the raw status display of the file. It is valid only
// while the file is open.
func (f *File) StatusDisplay(opts ...Option) (backend.Container, error) {
	return f.statusDisplay(buildOptions(opts))
}

func (f *File) statusDisplay(o *options) (backend.Container, error) {
	obj, err := f.object(o.statusName)
	if err != nil {
		return nil, fmt.Errorf("status display: %w", err)
	}
	status, ok := obj.(backend.Container)
	if !ok {
		return nil, fmt.Errorf("status display %s (%s): %w", o.statusName, obj.ClassName(), ErrNotContainer)
	}
	return status, nil
}

// BuildStatusIndex indexes a status display that is already in memory.
func BuildStatusIndex(status backend.Container, opts ...Option) (*StatusIndex, error) {
	return buildIndex(status, buildOptions(opts))
}

func buildIndex(status backend.Container, o *options) (*StatusIndex, error) {
	arena, roots, err := buildArena(status, o)
	if err != nil {
		return nil, err
	}

	idx := &StatusIndex{entries: make(map[string]StatusEntry)}
	for _, r := range roots {
		idx.canvases = append(idx.canvases, arena[r].name)
	}

	for i := range arena {
		n := &arena[i]
		if n.container {
			continue
		}
		entry := arena.entry(i)
		key, err := idx.assignKey(entry.Path())
		if err != nil {
			return nil, err
		}
		idx.keys = append(idx.keys, key)
		idx.entries[key] = entry
	}
	return idx, nil
}

type arena []node

// buildArena copies the walked hierarchy into an arena, dropping decorative
// and excluded objects.
func buildArena(status backend.Container, o *options) (arena, []int, error) {
	var (
		a     arena
		roots []int
		stack []int // container nodes on the current path
	)
	err := Walk(status, func(path []string, obj backend.Object, kind Kind) error {
		if kind.decorative() || o.excluded[obj.ClassName()] {
			return ErrSkipPad
		}

		depth := len(path)
		stack = stack[:depth-1]
		parent := -1
		if depth > 1 {
			parent = stack[depth-2]
		}

		container := depth == 1 || kind == KindPad
		a = append(a, node{parent: parent, name: obj.Name(), kind: kind, obj: obj, container: container})
		id := len(a) - 1
		if parent >= 0 {
			a[parent].children = append(a[parent].children, id)
		} else {
			roots = append(roots, id)
		}
		if container {
			stack = append(stack, id)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return a, roots, nil
}

// entry builds the StatusEntry of a terminal node by following parent links.
func (a arena) entry(i int) StatusEntry {
	n := a[i]
	var chain []string
	for p := n.parent; p >= 0; p = a[p].parent {
		chain = append(chain, a[p].name)
	}
	// chain is innermost first and ends with the canvas.
	e := StatusEntry{
		Object:    n.obj,
		Name:      n.name,
		ClassName: n.obj.ClassName(),
		Kind:      n.kind,
		Canvas:    chain[len(chain)-1],
		PadPath:   []string{},
	}
	for j := len(chain) - 2; j >= 0; j-- {
		e.PadPath = append(e.PadPath, chain[j])
	}
	return e
}

// assignKey returns the shortest free suffix key of path.
func (idx *StatusIndex) assignKey(path []string) (string, error) {
	for i := len(path) - 1; i >= 0; i-- {
		key := JoinKey(path[i:]...)
		if _, taken := idx.entries[key]; !taken {
			return key, nil
		}
	}
	return "", fmt.Errorf("%s: %w", JoinPath(path...), ErrKeyCollision)
}

// Keys returns the keys in walk order.
func (idx *StatusIndex) Keys() []string {
	out := make([]string, len(idx.keys))
	copy(out, idx.keys)
	return out
}

// Len returns the number of indexed objects.
func (idx *StatusIndex) Len() int {
	return len(idx.keys)
}

// Get returns the entry stored under key.
func (idx *StatusIndex) Get(key string) (StatusEntry, bool) {
	e, ok := idx.entries[key]
	return e, ok
}

// Canvases returns the names of the walked canvases in order.
func (idx *StatusIndex) Canvases() []string {
	out := make([]string, len(idx.canvases))
	copy(out, idx.canvases)
	return out
}

// Lookup returns the key and entry of the object at path (canvas, pads...,
// name).
func (idx *StatusIndex) Lookup(path []string) (string, StatusEntry, bool) {
	for _, key := range idx.keys {
		e := idx.entries[key]
		p := e.Path()
		if len(p) != len(path) {
			continue
		}
		match := true
		for i := range p {
			if p[i] != path[i] {
				match = false
				break
			}
		}
		if match {
			return key, e, true
		}
	}
	return "", StatusEntry{}, false
}

// Transform converts every indexed object with t. It fails on the first
// object t cannot convert.
func (idx *StatusIndex) Transform(t *Transformer) (map[string]any, error) {
	out := make(map[string]any, len(idx.keys))
	for _, key := range idx.keys {
		e := idx.entries[key]
		v, err := t.Transform(e.Object)
		if err != nil {
			return nil, fmt.Errorf("transforming %s: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

// FindInCanvas returns the first object with the given name and class drawn on
// the named canvas or any of its pads. An empty class matches any class.
func (f *File) FindInCanvas(name, class, canvas string, opts ...Option) (backend.Object, error) {
	status, err := f.statusDisplay(buildOptions(opts))
	if err != nil {
		return nil, err
	}

	var found backend.Object
	err = Walk(status, func(path []string, obj backend.Object, kind Kind) error {
		if path[0] != canvas {
			return ErrSkipPad
		}
		if obj.Name() == name && (class == "" || obj.ClassName() == class) && len(path) > 1 {
			found = obj
			return ErrStopWalk
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%s (%s) in canvas %s: %w", name, class, canvas, ErrNotFound)
	}
	return found, nil
}
