// Package winding implements the default winding-number propagator. It
// evaluates the generalized winding number of each labeled input shape
// at sample points just off each face of the resolved arrangement.
// Geometrically coincident faces (identical vertex triples after
// resolution) form a stack: the stack's two outermost values are
// sampled, and per-face values are distributed combinatorially through
// the stack so stacked duplicates see distinct sides. Exact
// cell-classification propagators can replace this one through the
// csg.Propagator interface.
package winding

import (
	"fmt"
	"math"
	"sort"

	"github.com/chazu/carve/pkg/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// maxShapes is the number of distinguishable input shapes.
const maxShapes = 2

// integralTol is how far a sampled winding number may sit from an
// integer before the sample is considered unreliable.
const integralTol = 0.3

// SampledPropagator computes winding numbers by solid-angle summation.
type SampledPropagator struct {
	// OffsetScale controls how far off a face sample points sit,
	// relative to the face's characteristic edge length.
	OffsetScale float64
}

// NewPropagator returns a propagator with the default sample offset.
func NewPropagator() *SampledPropagator {
	return &SampledPropagator{OffsetScale: 1e-6}
}

// Propagate returns one row per face: (aOut, aIn) when every label is
// zero, (aOut, aIn, bOut, bIn) otherwise. "Outside" is the side the
// face normal points into.
func (p *SampledPropagator) Propagate(m mesh.Mesh, labels []int) ([][]int, error) {
	if len(labels) != m.FaceCount() {
		return nil, fmt.Errorf("winding: %d labels for %d faces", len(labels), m.FaceCount())
	}
	shapes := 1
	for i, l := range labels {
		if l < 0 || l >= maxShapes {
			return nil, fmt.Errorf("winding: face %d has label %d", i, l)
		}
		if l == 1 {
			shapes = 2
		}
	}

	// Partition faces by shape for winding evaluation.
	var shapeFaces [maxShapes][][3]int
	for i, f := range m.Faces {
		shapeFaces[labels[i]] = append(shapeFaces[labels[i]], f)
	}

	// Group coincident faces into stacks.
	stacks := make(map[[3]int][]int, m.FaceCount())
	for i, f := range m.Faces {
		key := mesh.FaceKey(f)
		stacks[key] = append(stacks[key], i)
	}
	keys := make([][3]int, 0, len(stacks))
	for k := range stacks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		ka, kb := keys[a], keys[b]
		if ka[0] != kb[0] {
			return ka[0] < kb[0]
		}
		if ka[1] != kb[1] {
			return ka[1] < kb[1]
		}
		return ka[2] < kb[2]
	})

	rows := make([][]int, m.FaceCount())
	for _, key := range keys {
		stack := stacks[key]
		if err := p.classifyStack(m, labels, shapes, &shapeFaces, stack, rows); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// classifyStack samples the winding numbers on the two open sides of a
// coincident-face stack and distributes per-face values through it.
// The stack's reference orientation is the lowest-index member's.
func (p *SampledPropagator) classifyStack(
	m mesh.Mesh,
	labels []int,
	shapes int,
	shapeFaces *[maxShapes][][3]int,
	stack []int,
	rows [][]int,
) error {
	ref := stack[0]
	n := m.FaceNormal(ref)
	nl := r3.Norm(n)
	if nl == 0 {
		return fmt.Errorf("winding: face %d is degenerate", ref)
	}
	unit := r3.Scale(1/nl, n)

	f := m.Faces[ref]
	edge := math.Sqrt(nl) // ~ characteristic length of the triangle
	h := p.OffsetScale * edge
	centroid := m.FaceCentroid(ref)
	pOut := r3.Add(centroid, r3.Scale(h, unit))
	pIn := r3.Sub(centroid, r3.Scale(h, unit))

	var wOut, wIn [maxShapes]int
	for s := 0; s < shapes; s++ {
		var err error
		wOut[s], err = roundWinding(windingNumber(m.Vertices, shapeFaces[s], pOut))
		if err != nil {
			return fmt.Errorf("winding: face %d outside, shape %d: %w", ref, s, err)
		}
		wIn[s], err = roundWinding(windingNumber(m.Vertices, shapeFaces[s], pIn))
		if err != nil {
			return fmt.Errorf("winding: face %d inside, shape %d: %w", ref, s, err)
		}
	}

	// Walk the stack from the outside sample to the inside sample.
	// Crossing a face aligned with the reference orientation raises its
	// shape's winding by one, an opposed face lowers it.
	refCanon := mesh.CanonicalFace(f)
	w := wOut
	for _, fi := range stack {
		aligned := mesh.CanonicalFace(m.Faces[fi]) == refCanon
		next := w
		if aligned {
			next[labels[fi]]++
		} else {
			next[labels[fi]]--
		}
		// A face's own "outside" is the side its normal points into.
		var faceOut, faceIn [maxShapes]int
		if aligned {
			faceOut, faceIn = w, next
		} else {
			faceOut, faceIn = next, w
		}
		row := make([]int, 0, 2*shapes)
		for s := 0; s < shapes; s++ {
			row = append(row, faceOut[s], faceIn[s])
		}
		rows[fi] = row
		w = next
	}
	for s := 0; s < shapes; s++ {
		if w[s] != wIn[s] {
			return fmt.Errorf("winding: stack at face %d is inconsistent for shape %d: crossed to %d, sampled %d",
				ref, s, w[s], wIn[s])
		}
	}
	return nil
}

// windingNumber returns the generalized winding number of the surface
// formed by faces at point p: the summed signed solid angle over 4*pi.
func windingNumber(vertices []r3.Vec, faces [][3]int, p r3.Vec) float64 {
	var sum float64
	for _, f := range faces {
		sum += solidAngle(
			r3.Sub(vertices[f[0]], p),
			r3.Sub(vertices[f[1]], p),
			r3.Sub(vertices[f[2]], p),
		)
	}
	return sum / (4 * math.Pi)
}

// solidAngle returns the signed solid angle subtended at the origin by
// triangle (a, b, c), by the Van Oosterom & Strackee formula.
func solidAngle(a, b, c r3.Vec) float64 {
	la, lb, lc := r3.Norm(a), r3.Norm(b), r3.Norm(c)
	num := r3.Dot(a, r3.Cross(b, c))
	den := la*lb*lc + r3.Dot(a, b)*lc + r3.Dot(b, c)*la + r3.Dot(c, a)*lb
	return 2 * math.Atan2(num, den)
}

// roundWinding rounds a sampled winding number to the nearest integer,
// rejecting samples too far from integral to trust.
func roundWinding(w float64) (int, error) {
	r := math.Round(w)
	if math.Abs(w-r) > integralTol {
		return 0, fmt.Errorf("sampled winding number %.3f is not integral", w)
	}
	return int(r), nil
}
