// Package csg implements boolean combinations of two closed triangle
// meshes by winding-number face classification. The combined mesh is
// handed to a self-intersection resolver, per-face winding numbers are
// obtained from a propagator, and an operation-specific rule decides
// which faces of the arrangement bound the result and with which
// orientation. Every output face carries provenance back to the face of
// the input meshes it descends from.
package csg

// Op selects the boolean operation applied to the two input solids.
type Op int

const (
	// Union keeps material inside either solid.
	Union Op = iota
	// Intersect keeps material inside both solids.
	Intersect
	// Minus keeps material of the first solid not inside the second.
	Minus
	// Xor keeps material inside exactly one solid.
	Xor
	// Resolve performs no classification: it returns the full
	// self-intersection-free arrangement of both surfaces.
	Resolve
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case Union:
		return "union"
	case Intersect:
		return "intersect"
	case Minus:
		return "minus"
	case Xor:
		return "xor"
	case Resolve:
		return "resolve"
	}
	return "unknown"
}

// ParseOp maps an operation name to its Op value.
func ParseOp(name string) (Op, error) {
	switch name {
	case "union":
		return Union, nil
	case "intersect", "intersection":
		return Intersect, nil
	case "minus", "difference":
		return Minus, nil
	case "xor", "symmetric-difference":
		return Xor, nil
	case "resolve":
		return Resolve, nil
	}
	return 0, &UnsupportedOpError{Name: name}
}

// windingOp reduces the winding numbers of the two shapes on one side of
// a face to the winding number of the result on that side.
type windingOp func(a, b int) int

// keepRule decides the fate of a face from the reduced winding numbers
// of its two sides: +1 keep as stored, -1 keep with reversed vertex
// order, 0 discard.
type keepRule func(wOut, wIn int) int

// keepInside keeps exactly the faces whose two sides disagree about
// membership in the result (zero winding = outside, nonzero = inside),
// oriented so that the outward side has winding zero.
func keepInside(wOut, wIn int) int {
	switch {
	case wOut == 0 && wIn != 0:
		return 1
	case wOut != 0 && wIn == 0:
		return -1
	default:
		return 0
	}
}

// keepAll retains every face of the arrangement as stored.
func keepAll(wOut, wIn int) int { return 1 }

// operations is the dispatch table from operation to combining function
// and keep rule.
var operations = map[Op]struct {
	combine windingOp
	keep    keepRule
}{
	Union:     {func(a, b int) int { return max(a, b) }, keepInside},
	Intersect: {func(a, b int) int { return min(a, b) }, keepInside},
	Minus:     {opMinus, keepInside},
	Xor:       {opXor, keepInside},
	Resolve:   {func(a, b int) int { return a }, keepAll},
}

// opMinus treats a side as inside the result when it is inside shape A
// beyond any winding of shape B. For simple solids (windings 0 or 1)
// this is "in A and not in B"; for self-overlapping solids B's winding
// subtracts from A's, clamped at zero.
func opMinus(a, b int) int {
	if b == 0 {
		return a
	}
	if d := a - b; d > 0 {
		return d
	}
	return 0
}

// opXor marks a side inside the result when it is inside exactly one of
// the two shapes. Membership parity, not integer parity: a winding of 2
// is still inside.
func opXor(a, b int) int {
	if (a != 0) != (b != 0) {
		return 1
	}
	return 0
}
