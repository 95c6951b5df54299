// Package resolve implements the default self-intersection resolver:
// it subdivides a triangle mesh so that every pairwise triangle
// intersection becomes a shared edge or vertex, producing a valid
// arrangement. All intersection geometry is computed in exact rational
// arithmetic; floating point appears only in the candidate-pair
// bounding-box prune and in the output coordinates.
package resolve

import (
	"fmt"
	"math"

	"github.com/chazu/carve/pkg/exact"
	"github.com/chazu/carve/pkg/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// ExactResolver resolves self-intersections with exact predicates and
// exact intersection construction.
type ExactResolver struct{}

// NewResolver returns the default exact resolver.
func NewResolver() *ExactResolver {
	return &ExactResolver{}
}

// aabb is a float bounding box used only to prune candidate pairs.
// Boxes are padded, so pruning never discards a true intersection.
type aabb struct {
	min, max r3.Vec
}

func (b aabb) overlaps(o aabb) bool {
	return b.min.X <= o.max.X && o.min.X <= b.max.X &&
		b.min.Y <= o.max.Y && o.min.Y <= b.max.Y &&
		b.min.Z <= o.max.Z && o.min.Z <= b.max.Z
}

// Resolve subdivides m into a self-intersection-free arrangement. The
// returned provenance maps every output face to the input face it
// descends from. Coincident vertices are merged to a single index and
// unreferenced vertices are dropped.
func (r *ExactResolver) Resolve(m mesh.Mesh) (mesh.Mesh, []int, error) {
	if err := m.Validate(); err != nil {
		return mesh.Mesh{}, nil, err
	}

	// Exact vertex pool with coincident points merged.
	merged := make([]int, len(m.Vertices))
	var pts []exact.Vec
	pool := make(map[string]int, len(m.Vertices))
	for i, v := range m.Vertices {
		p := exact.FromR3(v)
		k := p.Key()
		if j, ok := pool[k]; ok {
			merged[i] = j
			continue
		}
		pool[k] = len(pts)
		merged[i] = len(pts)
		pts = append(pts, p)
	}

	faces := make([][3]int, len(m.Faces))
	for i, f := range m.Faces {
		fi := [3]int{merged[f[0]], merged[f[1]], merged[f[2]]}
		if fi[0] == fi[1] || fi[1] == fi[2] || fi[2] == fi[0] {
			return mesh.Mesh{}, nil, fmt.Errorf("face %d collapses to fewer than 3 distinct points", i)
		}
		n := faceNormal(pts, fi)
		if n.IsZero() {
			return mesh.Mesh{}, nil, fmt.Errorf("face %d is exactly degenerate (collinear vertices)", i)
		}
		faces[i] = fi
	}

	// Collect intersection constraints per face.
	boxes := faceBoxes(pts, faces)
	constraints := make([][][2]exact.Vec, len(faces))
	for i := 0; i < len(faces); i++ {
		for j := i + 1; j < len(faces); j++ {
			if !boxes[i].overlaps(boxes[j]) {
				continue
			}
			a := corners(pts, faces[i])
			b := corners(pts, faces[j])
			seg, coplanar, ok := triTriIntersection(a, b)
			if coplanar {
				segsA, segsB := coplanarConstraints(a, b)
				constraints[i] = append(constraints[i], segsA...)
				constraints[j] = append(constraints[j], segsB...)
				continue
			}
			if ok {
				constraints[i] = append(constraints[i], seg)
				constraints[j] = append(constraints[j], seg)
			}
		}
	}

	// Emit: untouched faces pass through; constrained faces are
	// re-triangulated to conform to their constraints.
	out := make(map[string]int)
	var outPts []exact.Vec
	global := func(p exact.Vec) int {
		k := p.Key()
		if i, ok := out[k]; ok {
			return i
		}
		out[k] = len(outPts)
		outPts = append(outPts, p)
		return len(outPts) - 1
	}

	var outFaces [][3]int
	var birth []int
	for fi, face := range faces {
		if len(constraints[fi]) == 0 {
			outFaces = append(outFaces, [3]int{
				global(pts[face[0]]), global(pts[face[1]]), global(pts[face[2]]),
			})
			birth = append(birth, fi)
			continue
		}

		c3 := corners(pts, face)
		ax := dominantProjection(faceNormal(pts, face))
		c2 := [3]exact.Vec2{ax.project(c3[0]), ax.project(c3[1]), ax.project(c3[2])}
		tr := newTriangulator(c2, c3)
		for _, seg := range constraints[fi] {
			ia, err := tr.addPoint(ax.project(seg[0]), seg[0])
			if err != nil {
				return mesh.Mesh{}, nil, fmt.Errorf("face %d: %w", fi, err)
			}
			if seg[0].Eq(seg[1]) {
				continue
			}
			ib, err := tr.addPoint(ax.project(seg[1]), seg[1])
			if err != nil {
				return mesh.Mesh{}, nil, fmt.Errorf("face %d: %w", fi, err)
			}
			if err := tr.insertSegment(ia, ib); err != nil {
				return mesh.Mesh{}, nil, fmt.Errorf("face %d: %w", fi, err)
			}
		}
		for _, t := range tr.tris {
			outFaces = append(outFaces, [3]int{
				global(tr.pts3[t[0]]), global(tr.pts3[t[1]]), global(tr.pts3[t[2]]),
			})
			birth = append(birth, fi)
		}
	}

	res := mesh.Mesh{
		Vertices: make([]r3.Vec, len(outPts)),
		Faces:    outFaces,
	}
	for i, p := range outPts {
		res.Vertices[i] = p.ToR3()
	}
	return res, birth, nil
}

func corners(pts []exact.Vec, f [3]int) [3]exact.Vec {
	return [3]exact.Vec{pts[f[0]], pts[f[1]], pts[f[2]]}
}

func faceNormal(pts []exact.Vec, f [3]int) exact.Vec {
	return pts[f[1]].Sub(pts[f[0]]).Cross(pts[f[2]].Sub(pts[f[0]]))
}

// faceBoxes computes padded float bounding boxes for candidate pruning.
func faceBoxes(pts []exact.Vec, faces [][3]int) []aabb {
	fpts := make([]r3.Vec, len(pts))
	scale := 1.0
	for i, p := range pts {
		fpts[i] = p.ToR3()
		scale = math.Max(scale, math.Max(math.Abs(fpts[i].X),
			math.Max(math.Abs(fpts[i].Y), math.Abs(fpts[i].Z))))
	}
	pad := scale * 1e-9

	boxes := make([]aabb, len(faces))
	for i, f := range faces {
		b := aabb{min: fpts[f[0]], max: fpts[f[0]]}
		for _, vi := range f[1:] {
			v := fpts[vi]
			b.min.X = math.Min(b.min.X, v.X)
			b.min.Y = math.Min(b.min.Y, v.Y)
			b.min.Z = math.Min(b.min.Z, v.Z)
			b.max.X = math.Max(b.max.X, v.X)
			b.max.Y = math.Max(b.max.Y, v.Y)
			b.max.Z = math.Max(b.max.Z, v.Z)
		}
		b.min = r3.Sub(b.min, r3.Vec{X: pad, Y: pad, Z: pad})
		b.max = r3.Add(b.max, r3.Vec{X: pad, Y: pad, Z: pad})
		boxes[i] = b
	}
	return boxes
}
