package csg

import "fmt"

// UnsupportedOpError reports an operation outside the Op enumeration.
// The pipeline fails before any stage runs; no partial output exists.
type UnsupportedOpError struct {
	Op   Op
	Name string // set when parsing from text
}

func (e *UnsupportedOpError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("csg: unsupported boolean operation %q", e.Name)
	}
	return fmt.Sprintf("csg: unsupported boolean operation %d", int(e.Op))
}

// ResolutionError wraps a failure of the self-intersection resolver.
// Resolution is deterministic, so the pipeline never retries; the whole
// operation is aborted.
type ResolutionError struct {
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("csg: self-intersection resolution failed: %v", e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// InvariantError reports a broken internal invariant: a provenance index
// out of range, a propagator result of the wrong shape, or a
// duplicate-face group whose signed count cannot arise from a binary
// operation. It indicates a bug in an upstream collaborator and aborts
// the operation. Faces holds the offending face indices for diagnosis.
type InvariantError struct {
	Stage string
	Msg   string
	Faces []int
}

func (e *InvariantError) Error() string {
	if len(e.Faces) > 0 {
		return fmt.Sprintf("csg: %s: %s (faces %v)", e.Stage, e.Msg, e.Faces)
	}
	return fmt.Sprintf("csg: %s: %s", e.Stage, e.Msg)
}
