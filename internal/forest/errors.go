package forest

import "errors"

// Sentinel outcomes the API Adapter maps to HTTP status codes. The core
// reports failures only by returning these (wrapped with
// fmt.Errorf("%w: ...") for context).
var (
	// ErrNotFound is returned when a referenced tree, segment, parent or
	// target node does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when creating an entity whose identifier
	// already exists, or inserting a child under a non-container node.
	ErrConflict = errors.New("conflict")

	// ErrBadRequest is returned for malformed input the store itself can
	// detect, such as a requested sort below 1.
	ErrBadRequest = errors.New("bad request")

	// ErrNotImplemented marks an unimplemented operation. No Store method
	// returns it; the adapter's duplicate/move/add-level routes answer
	// with a 400 "not implemented" envelope directly.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvariant signals an internal invariant violation, e.g. a
	// segment with no root node. Surfaced as HTTP 500 by the adapter.
	ErrInvariant = errors.New("internal invariant violation")

	// errCorruptSnapshot is returned by the codec when a blob does not
	// parse as a well-formed snapshot of any known version.
	errCorruptSnapshot = errors.New("corrupt snapshot")
)
