// Package exact provides exact rational 3D and 2D vectors and the
// orientation predicates the self-intersection resolver is built on.
// Coordinates are math/big rationals, so every predicate sign and every
// constructed intersection point is exact; floats appear only at the
// package boundary.
package exact

import (
	"math/big"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is an exact 3D point or vector with rational coordinates.
type Vec struct {
	X, Y, Z *big.Rat
}

// NewVec returns the rational vector (x, y, z) from int64 coordinates.
func NewVec(x, y, z int64) Vec {
	return Vec{big.NewRat(x, 1), big.NewRat(y, 1), big.NewRat(z, 1)}
}

// FromR3 converts a float64 vector exactly (every float64 is a rational).
func FromR3(v r3.Vec) Vec {
	return Vec{
		new(big.Rat).SetFloat64(v.X),
		new(big.Rat).SetFloat64(v.Y),
		new(big.Rat).SetFloat64(v.Z),
	}
}

// ToR3 rounds the vector to float64 coordinates.
func (v Vec) ToR3() r3.Vec {
	x, _ := v.X.Float64()
	y, _ := v.Y.Float64()
	z, _ := v.Z.Float64()
	return r3.Vec{X: x, Y: y, Z: z}
}

// Key returns a map key uniquely identifying the point. Rationals are
// kept normalized by math/big, so equal points produce equal keys.
func (v Vec) Key() string {
	return v.X.RatString() + "," + v.Y.RatString() + "," + v.Z.RatString()
}

// Eq reports exact coordinate equality.
func (v Vec) Eq(w Vec) bool {
	return v.X.Cmp(w.X) == 0 && v.Y.Cmp(w.Y) == 0 && v.Z.Cmp(w.Z) == 0
}

// Add returns v + w.
func (v Vec) Add(w Vec) Vec {
	return Vec{
		new(big.Rat).Add(v.X, w.X),
		new(big.Rat).Add(v.Y, w.Y),
		new(big.Rat).Add(v.Z, w.Z),
	}
}

// Sub returns v - w.
func (v Vec) Sub(w Vec) Vec {
	return Vec{
		new(big.Rat).Sub(v.X, w.X),
		new(big.Rat).Sub(v.Y, w.Y),
		new(big.Rat).Sub(v.Z, w.Z),
	}
}

// Scale returns s * v.
func (v Vec) Scale(s *big.Rat) Vec {
	return Vec{
		new(big.Rat).Mul(s, v.X),
		new(big.Rat).Mul(s, v.Y),
		new(big.Rat).Mul(s, v.Z),
	}
}

// Dot returns the dot product v · w.
func (v Vec) Dot(w Vec) *big.Rat {
	out := new(big.Rat).Mul(v.X, w.X)
	out.Add(out, new(big.Rat).Mul(v.Y, w.Y))
	return out.Add(out, new(big.Rat).Mul(v.Z, w.Z))
}

// Cross returns the cross product v × w.
func (v Vec) Cross(w Vec) Vec {
	return Vec{
		new(big.Rat).Sub(new(big.Rat).Mul(v.Y, w.Z), new(big.Rat).Mul(v.Z, w.Y)),
		new(big.Rat).Sub(new(big.Rat).Mul(v.Z, w.X), new(big.Rat).Mul(v.X, w.Z)),
		new(big.Rat).Sub(new(big.Rat).Mul(v.X, w.Y), new(big.Rat).Mul(v.Y, w.X)),
	}
}

// IsZero reports whether all coordinates are zero.
func (v Vec) IsZero() bool {
	return v.X.Sign() == 0 && v.Y.Sign() == 0 && v.Z.Sign() == 0
}

// Lerp returns v + t*(w - v).
func Lerp(v, w Vec, t *big.Rat) Vec {
	return v.Add(w.Sub(v).Scale(t))
}

// Orient3D returns the sign of the signed volume of tetrahedron (a,b,c,d):
// +1 when d lies on the positive side of plane (a,b,c) by the right-hand
// rule, -1 on the negative side, 0 when coplanar.
func Orient3D(a, b, c, d Vec) int {
	return b.Sub(a).Cross(c.Sub(a)).Dot(d.Sub(a)).Sign()
}
