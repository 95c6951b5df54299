package exact

import "math/big"

// Vec2 is an exact 2D point with rational coordinates, used for
// in-plane triangulation after projecting a face along its dominant
// normal axis.
type Vec2 struct {
	X, Y *big.Rat
}

// Sub returns v - w.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{new(big.Rat).Sub(v.X, w.X), new(big.Rat).Sub(v.Y, w.Y)}
}

// Eq reports exact coordinate equality.
func (v Vec2) Eq(w Vec2) bool {
	return v.X.Cmp(w.X) == 0 && v.Y.Cmp(w.Y) == 0
}

// Cross returns the 2D cross product (v.X*w.Y - v.Y*w.X).
func (v Vec2) Cross(w Vec2) *big.Rat {
	return new(big.Rat).Sub(new(big.Rat).Mul(v.X, w.Y), new(big.Rat).Mul(v.Y, w.X))
}

// Orient2D returns the sign of the signed area of triangle (a,b,c):
// +1 counter-clockwise, -1 clockwise, 0 collinear.
func Orient2D(a, b, c Vec2) int {
	return b.Sub(a).Cross(c.Sub(a)).Sign()
}

// OnSegment reports whether p lies on the closed segment (a,b).
// Assumes a != b.
func OnSegment(a, b, p Vec2) bool {
	if Orient2D(a, b, p) != 0 {
		return false
	}
	d := b.Sub(a)
	t := p.Sub(a)
	dot := new(big.Rat).Add(new(big.Rat).Mul(d.X, t.X), new(big.Rat).Mul(d.Y, t.Y))
	if dot.Sign() < 0 {
		return false
	}
	len2 := new(big.Rat).Add(new(big.Rat).Mul(d.X, d.X), new(big.Rat).Mul(d.Y, d.Y))
	return dot.Cmp(len2) <= 0
}

// SegmentsCross reports whether open segments (a,b) and (c,d) intersect
// in a single interior point of both, and returns the parameter t along
// (a,b) of that point when they do. Collinear overlap reports false;
// overlapping collinear constraints are handled by endpoint insertion.
func SegmentsCross(a, b, c, d Vec2) (*big.Rat, bool) {
	o1 := Orient2D(a, b, c)
	o2 := Orient2D(a, b, d)
	o3 := Orient2D(c, d, a)
	o4 := Orient2D(c, d, b)
	if o1*o2 >= 0 || o3*o4 >= 0 {
		return nil, false
	}
	// t = cross(c-a, d-c) / cross(b-a, d-c)
	den := b.Sub(a).Cross(d.Sub(c))
	num := c.Sub(a).Cross(d.Sub(c))
	return num.Quo(num, den), true
}
