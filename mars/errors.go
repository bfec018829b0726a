package mars

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrLeafNotExtractable = errors.New("leaf cannot be extracted")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrKeyCollision       = errors.New("status object key collision")
	ErrNotFound           = errors.New("object not found")
	ErrNotContainer       = errors.New("object is not a container")
	ErrMalformedObject    = errors.New("object does not match its class")
	ErrClosed             = errors.New("file is closed")
	ErrPadDepth           = errors.New("maximum pad depth exceeded")
)

// MaxPadDepth is the deepest canvas/pad nesting a walk follows. Deeper
// hierarchies are reported with ErrPadDepth instead of recursing forever on a
// cyclic pad list.
const MaxPadDepth = 64

// LeafError reports a leaf that could not be extracted.
type LeafError struct {
	Tree string
	Leaf string
	Err  error
}

func (e *LeafError) Error() string {
	return fmt.Sprintf("leaf %s in tree %s: %v", e.Leaf, e.Tree, e.Err)
}

func (e *LeafError) Unwrap() error { return e.Err }

// Is makes every LeafError match ErrLeafNotExtractable.
func (e *LeafError) Is(target error) bool {
	return target == ErrLeafNotExtractable
}
