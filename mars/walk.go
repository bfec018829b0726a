package mars

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-readmars/backend"
)

// WalkFunc is called for each canvas, pad and primitive of a status display.
// path holds the names from the canvas down to and including obj; it is only
// valid during the call. kind is the kind of obj.
// Return nil to continue, ErrSkipPad from a canvas or pad visit to skip its
// primitives, ErrStopWalk to end the walk early, or any other error to abort.
// ErrSkipPad from any other visit is the same as nil.
type WalkFunc func(path []string, obj backend.Object, kind Kind) error

// Walk traverses the canvases of a status display depth first, in primitive
// order. Top-level objects that are not canvases are not visited. Pads are
// descended into; every other primitive is visited once, including decorative
// ones.
//
// Example:
//
//	mars.Walk(status, func(path []string, obj backend.Object, kind mars.Kind) error {
//	    fmt.Println(mars.JoinPath(path...), obj.ClassName())
//	    return nil
//	})
func Walk(status backend.Container, fn WalkFunc) error {
	for _, obj := range status.Primitives() {
		if KindOf(obj.ClassName()) != KindCanvas {
			continue
		}
		err := walkContainer([]string{obj.Name()}, obj, KindCanvas, fn)
		if IsStopWalk(err) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// walkContainer visits a canvas or pad and recurses into its primitives.
func walkContainer(path []string, obj backend.Object, kind Kind, fn WalkFunc) error {
	if len(path) > MaxPadDepth {
		return fmt.Errorf("%s: %w", JoinPath(path...), ErrPadDepth)
	}

	if err := fn(path, obj, kind); err != nil {
		if errors.Is(err, ErrSkipPad) {
			return nil
		}
		return err
	}

	c, ok := obj.(backend.Container)
	if !ok {
		return fmt.Errorf("%s (%s): %w", JoinPath(path...), obj.ClassName(), ErrNotContainer)
	}

	for _, child := range c.Primitives() {
		childPath := append(path[:len(path):len(path)], child.Name())
		childKind := KindOf(child.ClassName())

		if childKind == KindPad {
			if err := walkContainer(childPath, child, childKind, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(childPath, child, childKind); err != nil {
			if errors.Is(err, ErrSkipPad) {
				continue
			}
			return err
		}
	}
	return nil
}

// ErrSkipPad can be returned from a WalkFunc to skip the primitives of the
// canvas or pad being visited.
var ErrSkipPad = errors.New("skip pad")

// ErrStopWalk can be returned from a WalkFunc to stop walking without an error.
var ErrStopWalk = &walkStopError{}

type walkStopError struct{}

func (e *walkStopError) Error() string { return "walk stopped" }

// IsStopWalk returns true if the error is ErrStopWalk.
func IsStopWalk(err error) bool {
	var stop *walkStopError
	return errors.As(err, &stop)
}
