package resolve

import (
	"fmt"

	"github.com/chazu/carve/pkg/exact"
)

// triangulator incrementally re-triangulates a single face of the
// arrangement. It starts from the face's own triangle (counter-clockwise
// in the face's 2D projection) and conforms to the intersection
// constraints by point insertion: constraint endpoints are inserted as
// vertices, and constraint segments are realized by inserting the exact
// crossing point of every triangulation edge they properly cross. All
// predicates are exact, so triangles never degenerate.
type triangulator struct {
	pts2 []exact.Vec2 // projected coordinates
	pts3 []exact.Vec  // coplanar 3D coordinates, parallel to pts2
	tris [][3]int     // current triangles, CCW in projection
}

// newTriangulator seeds the triangulation with the face corners, which
// must be in CCW projected order.
func newTriangulator(c2 [3]exact.Vec2, c3 [3]exact.Vec) *triangulator {
	return &triangulator{
		pts2: []exact.Vec2{c2[0], c2[1], c2[2]},
		pts3: []exact.Vec{c3[0], c3[1], c3[2]},
		tris: [][3]int{{0, 1, 2}},
	}
}

// findPoint returns the index of an existing vertex equal to p, or -1.
func (t *triangulator) findPoint(p exact.Vec2) int {
	for i, q := range t.pts2 {
		if q.Eq(p) {
			return i
		}
	}
	return -1
}

// addPoint inserts p into the triangulation and returns its vertex
// index. Points outside the face, or equal to an existing vertex, are
// deduplicated or rejected without changing the triangulation.
func (t *triangulator) addPoint(p2 exact.Vec2, p3 exact.Vec) (int, error) {
	if i := t.findPoint(p2); i >= 0 {
		return i, nil
	}

	// Locate a containing triangle and whether p sits on one of its edges.
	for ti, tri := range t.tris {
		o := [3]int{}
		inside := true
		for e := 0; e < 3; e++ {
			o[e] = exact.Orient2D(t.pts2[tri[e]], t.pts2[tri[(e+1)%3]], p2)
			if o[e] < 0 {
				inside = false
				break
			}
		}
		if !inside {
			continue
		}

		pi := len(t.pts2)
		t.pts2 = append(t.pts2, p2)
		t.pts3 = append(t.pts3, p3)

		onEdge := -1
		for e := 0; e < 3; e++ {
			if o[e] == 0 {
				onEdge = e
				break
			}
		}
		if onEdge < 0 {
			// Strictly interior: split into three.
			a, b, c := tri[0], tri[1], tri[2]
			t.tris[ti] = [3]int{a, b, pi}
			t.tris = append(t.tris, [3]int{b, c, pi}, [3]int{c, a, pi})
			return pi, nil
		}
		// On an edge: split every triangle sharing that edge.
		u, v := tri[onEdge], tri[(onEdge+1)%3]
		t.splitEdge(u, v, pi)
		return pi, nil
	}
	// Outside the face entirely; constraints are pre-clipped so this
	// only happens for stray touch points, which are ignorable.
	return -1, nil
}

// splitEdge replaces every triangle containing edge (u,v) in either
// direction with the two triangles induced by the on-edge point pi.
func (t *triangulator) splitEdge(u, v, pi int) {
	for ti := 0; ti < len(t.tris); ti++ {
		tri := t.tris[ti]
		for e := 0; e < 3; e++ {
			a, b := tri[e], tri[(e+1)%3]
			if (a == u && b == v) || (a == v && b == u) {
				w := tri[(e+2)%3]
				t.tris[ti] = [3]int{a, pi, w}
				t.tris = append(t.tris, [3]int{pi, b, w})
				break
			}
		}
	}
}

// insertSegment conforms the triangulation to the constraint segment
// between vertices a and b by splitting every properly crossed edge at
// the exact crossing point. Once no edge crosses the segment, its
// subsegments coincide with triangulation edges.
func (t *triangulator) insertSegment(a, b int) error {
	if a < 0 || b < 0 || a == b {
		return nil
	}
	pa2, pb2 := t.pts2[a], t.pts2[b]
	pa3, pb3 := t.pts3[a], t.pts3[b]

	for iter := 0; ; iter++ {
		if iter > 4*len(t.pts2)+64 {
			return fmt.Errorf("constraint insertion did not converge")
		}
		crossed := false
		for _, tri := range t.tris {
			for e := 0; e < 3; e++ {
				u, v := tri[e], tri[(e+1)%3]
				if u == a || u == b || v == a || v == b {
					continue
				}
				tpar, ok := exact.SegmentsCross(pa2, pb2, t.pts2[u], t.pts2[v])
				if !ok {
					continue
				}
				p2 := exact.Vec2{
					X: lerpRat(pa2.X, pb2.X, tpar),
					Y: lerpRat(pa2.Y, pb2.Y, tpar),
				}
				p3 := exact.Lerp(pa3, pb3, tpar)
				if _, err := t.addPoint(p2, p3); err != nil {
					return err
				}
				crossed = true
				break
			}
			if crossed {
				break
			}
		}
		if !crossed {
			return nil
		}
	}
}
