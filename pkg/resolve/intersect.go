package resolve

import (
	"math/big"

	"github.com/chazu/carve/pkg/exact"
)

// lerpRat returns a + t*(b-a).
func lerpRat(a, b, t *big.Rat) *big.Rat {
	d := new(big.Rat).Sub(b, a)
	return d.Add(new(big.Rat).Mul(t, d), a)
}

// projAxes selects the two coordinate axes a face plane projects onto.
// The axes are ordered so that the face normal maps to the positive
// side: a triangle stored counter-clockwise about its normal projects
// counter-clockwise.
type projAxes struct {
	u, v int
}

func coord(p exact.Vec, axis int) *big.Rat {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// project maps a point of the face plane to 2D.
func (ax projAxes) project(p exact.Vec) exact.Vec2 {
	return exact.Vec2{X: coord(p, ax.u), Y: coord(p, ax.v)}
}

// dominantProjection picks projection axes from the face normal's
// dominant component.
func dominantProjection(n exact.Vec) projAxes {
	absX := new(big.Rat).Abs(n.X)
	absY := new(big.Rat).Abs(n.Y)
	absZ := new(big.Rat).Abs(n.Z)

	switch {
	case absX.Cmp(absY) >= 0 && absX.Cmp(absZ) >= 0:
		if n.X.Sign() > 0 {
			return projAxes{1, 2}
		}
		return projAxes{2, 1}
	case absY.Cmp(absX) >= 0 && absY.Cmp(absZ) >= 0:
		if n.Y.Sign() > 0 {
			return projAxes{2, 0}
		}
		return projAxes{0, 2}
	default:
		if n.Z.Sign() > 0 {
			return projAxes{0, 1}
		}
		return projAxes{1, 0}
	}
}

// clipSegment clips the 2D segment p(t) = a + t*(b-a), t in [0,1],
// against the counter-clockwise triangle c. It returns the surviving
// parameter interval, or ok == false when the segment misses the
// triangle. A touching segment yields t0 == t1.
func clipSegment(a, b exact.Vec2, c [3]exact.Vec2) (t0, t1 *big.Rat, ok bool) {
	t0 = new(big.Rat)           // 0
	t1 = big.NewRat(1, 1)       // 1
	for e := 0; e < 3; e++ {
		ce, cn := c[e], c[(e+1)%3]
		edge := cn.Sub(ce)
		s0 := edge.Cross(a.Sub(ce))
		s1 := edge.Cross(b.Sub(ce))
		in0, in1 := s0.Sign() >= 0, s1.Sign() >= 0
		switch {
		case in0 && in1:
			// Entire segment inside this half-plane.
		case !in0 && !in1:
			return nil, nil, false
		default:
			// tc is where s(t) = s0 + t*(s1-s0) crosses zero.
			den := new(big.Rat).Sub(s1, s0)
			tc := new(big.Rat).Quo(new(big.Rat).Neg(s0), den)
			if in1 { // entering
				if tc.Cmp(t0) > 0 {
					t0 = tc
				}
			} else { // leaving
				if tc.Cmp(t1) < 0 {
					t1 = tc
				}
			}
		}
	}
	if t0.Cmp(t1) > 0 {
		return nil, nil, false
	}
	return t0, t1, true
}

// trianglePlaneSegment intersects triangle t with the supporting plane
// of triangle q. It returns the intersection segment (s0 may equal s1
// for a vertex touch). coplanar is true when t lies entirely in q's
// plane; ok is false when t misses the plane.
func trianglePlaneSegment(t, q [3]exact.Vec) (s0, s1 exact.Vec, coplanar, ok bool) {
	n := q[1].Sub(q[0]).Cross(q[2].Sub(q[0]))
	var d [3]*big.Rat
	zero, pos, neg := 0, 0, 0
	for i := 0; i < 3; i++ {
		d[i] = n.Dot(t[i].Sub(q[0]))
		switch d[i].Sign() {
		case 0:
			zero++
		case 1:
			pos++
		default:
			neg++
		}
	}
	if zero == 3 {
		return exact.Vec{}, exact.Vec{}, true, false
	}
	if pos == 0 || neg == 0 {
		if zero == 0 {
			return exact.Vec{}, exact.Vec{}, false, false
		}
		// Plane touches a vertex or an edge without crossing.
	}

	var pts []exact.Vec
	appendUnique := func(p exact.Vec) {
		for _, seen := range pts {
			if seen.Eq(p) {
				return
			}
		}
		pts = append(pts, p)
	}
	for i := 0; i < 3; i++ {
		if d[i].Sign() == 0 {
			appendUnique(t[i])
		}
		j := (i + 1) % 3
		if d[i].Sign()*d[j].Sign() < 0 {
			tt := new(big.Rat).Quo(d[i], new(big.Rat).Sub(d[i], d[j]))
			appendUnique(exact.Lerp(t[i], t[j], tt))
		}
	}
	switch len(pts) {
	case 0:
		return exact.Vec{}, exact.Vec{}, false, false
	case 1:
		return pts[0], pts[0], false, true
	default:
		return pts[0], pts[1], false, true
	}
}

// triTriIntersection returns the constraint segment imposed on both
// faces by a non-coplanar triangle pair, clipped to triangle a. The
// segment may collapse to a point. coplanar reports that the pair lies
// in one plane and must be handled by coplanarConstraints instead.
func triTriIntersection(a, b [3]exact.Vec) (seg [2]exact.Vec, coplanar, ok bool) {
	s0, s1, coplanar, ok := trianglePlaneSegment(b, a)
	if coplanar || !ok {
		return [2]exact.Vec{}, coplanar, false
	}

	// Clip the in-plane segment to triangle a.
	n := a[1].Sub(a[0]).Cross(a[2].Sub(a[0]))
	ax := dominantProjection(n)
	c := [3]exact.Vec2{ax.project(a[0]), ax.project(a[1]), ax.project(a[2])}
	p0, p1 := ax.project(s0), ax.project(s1)

	if p0.Eq(p1) {
		// Vertex or edge touch: keep it when it lies inside a.
		inside := true
		for e := 0; e < 3; e++ {
			if exact.Orient2D(c[e], c[(e+1)%3], p0) < 0 {
				inside = false
				break
			}
		}
		if !inside {
			return [2]exact.Vec{}, false, false
		}
		return [2]exact.Vec{s0, s0}, false, true
	}

	t0, t1, ok := clipSegment(p0, p1, c)
	if !ok {
		return [2]exact.Vec{}, false, false
	}
	return [2]exact.Vec{exact.Lerp(s0, s1, t0), exact.Lerp(s0, s1, t1)}, false, true
}

// coplanarConstraints computes the constraints a coplanar triangle pair
// imposes on each other: every edge of one clipped to the inside of the
// other. Segments may collapse to points (vertex touches).
func coplanarConstraints(a, b [3]exact.Vec) (segsA, segsB [][2]exact.Vec) {
	n := a[1].Sub(a[0]).Cross(a[2].Sub(a[0]))
	ax := dominantProjection(n)

	pa := [3]exact.Vec2{ax.project(a[0]), ax.project(a[1]), ax.project(a[2])}
	pb := [3]exact.Vec2{ax.project(b[0]), ax.project(b[1]), ax.project(b[2])}
	b3 := b
	// b may be oriented opposite to a; clipping needs CCW corners.
	if exact.Orient2D(pb[0], pb[1], pb[2]) < 0 {
		pb[1], pb[2] = pb[2], pb[1]
		b3[1], b3[2] = b3[2], b3[1]
	}

	clipEdges := func(tri3 [3]exact.Vec, tri2 [3]exact.Vec2, clip [3]exact.Vec2) [][2]exact.Vec {
		var out [][2]exact.Vec
		for e := 0; e < 3; e++ {
			p3, q3 := tri3[e], tri3[(e+1)%3]
			p2, q2 := tri2[e], tri2[(e+1)%3]
			t0, t1, ok := clipSegment(p2, q2, clip)
			if !ok {
				continue
			}
			out = append(out, [2]exact.Vec{exact.Lerp(p3, q3, t0), exact.Lerp(p3, q3, t1)})
		}
		return out
	}

	// Edges of b constrain a, and vice versa.
	segsA = clipEdges(b3, [3]exact.Vec2{pb[0], pb[1], pb[2]}, pa)
	segsB = clipEdges(a, [3]exact.Vec2{pa[0], pa[1], pa[2]}, pb)
	return segsA, segsB
}
