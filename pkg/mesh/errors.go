package mesh

import (
	"errors"
	"fmt"
)

// Sentinel error classes. Every error returned by this package wraps one
// of these, so callers can classify failures with errors.Is.
var (
	// ErrNotFound means an ID did not resolve to a live element, either
	// because it was never valid or because the element was deleted.
	ErrNotFound = errors.New("element not found")

	// ErrMissingRef means a live element lacks a connectivity reference
	// that the requested operation needs (e.g. a boundary halfedge has
	// no face, an isolated vertex has no outgoing halfedge).
	ErrMissingRef = errors.New("missing reference")

	// ErrTopology means the operation would produce an invalid
	// (non-manifold or degenerate) configuration.
	ErrTopology = errors.New("topology violation")

	// ErrAttribute means an attribute lookup failed or the stored value
	// has a different variant than requested.
	ErrAttribute = errors.New("attribute error")
)

func errVertexNotFound(id VertexID) error {
	return fmt.Errorf("vertex %s: %w", id, ErrNotFound)
}

func errHalfedgeNotFound(id HalfedgeID) error {
	return fmt.Errorf("halfedge %s: %w", id, ErrNotFound)
}

func errFaceNotFound(id FaceID) error {
	return fmt.Errorf("face %s: %w", id, ErrNotFound)
}

func errMissingRef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrMissingRef)...)
}

func errTopology(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrTopology)...)
}

func errAttrMissing[K comparable](k K) error {
	return fmt.Errorf("no attribute for %v: %w", k, ErrAttribute)
}

func errAttrVariant[K comparable](k K, v Attribute) error {
	return fmt.Errorf("attribute for %v has variant %T: %w", k, v, ErrAttribute)
}
