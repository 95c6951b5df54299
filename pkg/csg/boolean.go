package csg

import (
	"github.com/chazu/carve/pkg/mesh"
	"github.com/chazu/carve/pkg/resolve"
	"github.com/chazu/carve/pkg/winding"
)

// Resolver turns a mesh into a self-intersection-free arrangement.
// The returned mesh triangulates the arrangement induced by m's faces
// with no two triangles properly intersecting, coincident vertices
// merged to a single index and unreferenced vertices removed. The
// provenance slice maps each output face to the input face it descends
// from.
type Resolver interface {
	Resolve(m mesh.Mesh) (mesh.Mesh, []int, error)
}

// Propagator computes, for every face of a resolved mesh, the winding
// number of each labeled input shape on both sides of the face. Rows
// are (aOut, aIn, bOut, bIn) when both shapes are present; a single-
// shape mesh (all labels zero) may yield two-column rows (out, in).
type Propagator interface {
	Propagate(m mesh.Mesh, labels []int) ([][]int, error)
}

// signedFace marks a surviving face of the arrangement and whether its
// vertex order must be reversed in the output.
type signedFace struct {
	index   int
	flipped bool
}

// Boolean computes the boolean combination of two closed, consistently
// oriented meshes using the default exact resolver and winding-number
// propagator.
func Boolean(a, b mesh.Mesh, op Op) (mesh.Mesh, error) {
	out, _, err := BooleanProvenance(a, b, op)
	return out, err
}

// BooleanProvenance is Boolean plus a provenance slice with one entry
// per output face: the index of its birth face in the concatenation of
// a's and b's face lists (values < a.FaceCount() descend from a).
func BooleanProvenance(a, b mesh.Mesh, op Op) (mesh.Mesh, []int, error) {
	return BooleanWith(a, b, op, resolve.NewResolver(), winding.NewPropagator())
}

// BooleanWith runs the pipeline with an injected resolver and
// propagator. This is the extension point for alternate exact kernels
// or precomputed arrangements.
func BooleanWith(a, b mesh.Mesh, op Op, res Resolver, prop Propagator) (mesh.Mesh, []int, error) {
	rule, ok := operations[op]
	if !ok {
		return mesh.Mesh{}, nil, &UnsupportedOpError{Op: op}
	}

	// Combine and resolve self-intersections.
	combined := mesh.Combine(a, b)
	resolved, birth, err := res.Resolve(combined)
	if err != nil {
		return mesh.Mesh{}, nil, &ResolutionError{Err: err}
	}
	if len(birth) != resolved.FaceCount() {
		return mesh.Mesh{}, nil, &InvariantError{
			Stage: "resolution",
			Msg:   "provenance length does not match face count",
		}
	}

	// Label each resolved face with the shape it descends from.
	labels := make([]int, len(birth))
	for i, j := range birth {
		if j < 0 || j >= combined.FaceCount() {
			return mesh.Mesh{}, nil, &InvariantError{
				Stage: "resolution",
				Msg:   "provenance index out of range",
				Faces: []int{i},
			}
		}
		if j >= a.FaceCount() {
			labels[i] = 1
		}
	}

	// Winding numbers of each shape on both sides of every face.
	w, err := prop.Propagate(resolved, labels)
	if err != nil {
		return mesh.Mesh{}, nil, &ResolutionError{Err: err}
	}
	if len(w) != resolved.FaceCount() {
		return mesh.Mesh{}, nil, &InvariantError{
			Stage: "winding propagation",
			Msg:   "row count does not match face count",
		}
	}

	// Classify: reduce each side with the combining function, then let
	// the keep rule pick the surviving faces and their orientation.
	var selected []signedFace
	for i, row := range w {
		var quad [4]int
		switch len(row) {
		case 2:
			// Shape B absent: its winding is zero everywhere.
			quad = [4]int{row[0], row[1], 0, 0}
		case 4:
			quad = [4]int{row[0], row[1], row[2], row[3]}
		default:
			return mesh.Mesh{}, nil, &InvariantError{
				Stage: "winding propagation",
				Msg:   "row is neither 2 nor 4 columns",
				Faces: []int{i},
			}
		}
		wOut := rule.combine(quad[0], quad[2])
		wIn := rule.combine(quad[1], quad[3])
		switch keep := rule.keep(wOut, wIn); {
		case keep > 0:
			selected = append(selected, signedFace{index: i})
		case keep < 0:
			selected = append(selected, signedFace{index: i, flipped: true})
		}
	}

	keptFaces := make([][3]int, len(selected))
	keptBirth := make([]int, len(selected))
	for i, s := range selected {
		f := resolved.Faces[s.index]
		if s.flipped {
			f = [3]int{f[0], f[2], f[1]}
		}
		keptFaces[i] = f
		keptBirth[i] = birth[s.index]
	}

	// Collapse coincident duplicates, then drop unreferenced vertices.
	dedupF, dedupJ, err := resolveDuplicates(keptFaces, keptBirth)
	if err != nil {
		return mesh.Mesh{}, nil, err
	}
	out, _ := mesh.RemoveUnreferenced(mesh.Mesh{Vertices: resolved.Vertices, Faces: dedupF})
	return out, dedupJ, nil
}
