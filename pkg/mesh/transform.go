package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Translate returns a copy of the mesh moved by offset.
func Translate(m Mesh, offset r3.Vec) Mesh {
	out := m.Clone()
	for i, v := range out.Vertices {
		out.Vertices[i] = r3.Add(v, offset)
	}
	return out
}

// Rotate returns a copy of the mesh rotated about the origin by Euler
// angles in degrees, applied in X, Y, Z order.
func Rotate(m Mesh, xDeg, yDeg, zDeg float64) Mesh {
	rx := r3.NewRotation(xDeg*math.Pi/180, r3.Vec{X: 1})
	ry := r3.NewRotation(yDeg*math.Pi/180, r3.Vec{Y: 1})
	rz := r3.NewRotation(zDeg*math.Pi/180, r3.Vec{Z: 1})
	out := m.Clone()
	for i, v := range out.Vertices {
		out.Vertices[i] = rz.Rotate(ry.Rotate(rx.Rotate(v)))
	}
	return out
}

// Scale returns a copy of the mesh scaled about the origin. Negative
// factors are rejected by callers that need orientation preserved; Scale
// itself flips face orientation when the determinant is negative so the
// result keeps outward normals.
func Scale(m Mesh, sx, sy, sz float64) Mesh {
	out := m.Clone()
	for i, v := range out.Vertices {
		out.Vertices[i] = r3.Vec{X: v.X * sx, Y: v.Y * sy, Z: v.Z * sz}
	}
	if sx*sy*sz < 0 {
		for i, f := range out.Faces {
			out.Faces[i] = [3]int{f[0], f[2], f[1]}
		}
	}
	return out
}
