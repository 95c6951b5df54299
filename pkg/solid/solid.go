// Package solid generates primitive solids using the
// github.com/deadsy/sdfx CAD library and tessellates them into indexed
// triangle meshes suitable for the boolean pipeline. Flat-faced
// primitives also have direct exact tessellations so downstream
// geometry does not depend on marching cubes resolution.
package solid

import (
	"fmt"
	"math"

	"github.com/chazu/carve/pkg/mesh"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// Solid wraps an sdf.SDF3 signed distance field.
type Solid struct {
	sdf sdf.SDF3
}

// Box returns a box with its minimum corner at the origin, so that
// placement translations work intuitively. sdf.Box3D centers the box at
// the origin, so we translate by half-dimensions.
func Box(x, y, z float64) (Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return Solid{}, fmt.Errorf("solid: box: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return Solid{sdf: sdf.Transform3D(s, m)}, nil
}

// Sphere returns a sphere of the given radius centered at the origin.
func Sphere(radius float64) (Solid, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return Solid{}, fmt.Errorf("solid: sphere: %w", err)
	}
	return Solid{sdf: s}, nil
}

// Cylinder returns a z-axis cylinder of the given height and radius
// centered at the origin.
func Cylinder(height, radius float64) (Solid, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return Solid{}, fmt.Errorf("solid: cylinder: %w", err)
	}
	return Solid{sdf: s}, nil
}

// BoundingBox returns the axis-aligned bounding box.
func (s Solid) BoundingBox() (min, max r3.Vec) {
	bb := s.sdf.BoundingBox()
	min = r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z}
	max = r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z}
	return min, max
}

// Translate moves the solid by (x, y, z).
func (s Solid) Translate(x, y, z float64) Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return Solid{sdf: sdf.Transform3D(s.sdf, m)}
}

// Rotate rotates the solid by Euler angles in degrees, applied in
// X, Y, Z order.
func (s Solid) Rotate(x, y, z float64) Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0
	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return Solid{sdf: sdf.Transform3D(s.sdf, m)}
}

// Mesh tessellates the solid with marching cubes at the given grid
// resolution (cells <= 0 selects the default) and indexes the triangle
// soup into a mesh with shared vertices.
func (s Solid) Mesh(cells int) (mesh.Mesh, error) {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s.sdf, renderer)
	if len(triangles) == 0 {
		return mesh.Mesh{}, fmt.Errorf("solid: tessellation produced no triangles")
	}

	var m mesh.Mesh
	index := make(map[r3.Vec]int)
	vertex := func(v v3.Vec) int {
		p := r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
		if i, ok := index[p]; ok {
			return i
		}
		index[p] = len(m.Vertices)
		m.Vertices = append(m.Vertices, p)
		return len(m.Vertices) - 1
	}
	for _, tri := range triangles {
		f := [3]int{vertex(tri[0]), vertex(tri[1]), vertex(tri[2])}
		// Marching cubes can emit slivers that collapse once vertices
		// are shared.
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		m.Faces = append(m.Faces, f)
	}
	return m, nil
}

// BoxMesh returns the exact 12-triangle tessellation of a box with its
// minimum corner at the origin, outward-oriented.
func BoxMesh(x, y, z float64) (mesh.Mesh, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return mesh.Mesh{}, fmt.Errorf("solid: box dimensions must be positive, got %g x %g x %g", x, y, z)
	}
	v := make([]r3.Vec, 8)
	for i := 0; i < 8; i++ {
		v[i] = r3.Vec{
			X: float64(i&1) * x,
			Y: float64(i>>1&1) * y,
			Z: float64(i>>2&1) * z,
		}
	}
	return mesh.Mesh{
		Vertices: v,
		Faces: [][3]int{
			{0, 2, 1}, {1, 2, 3},
			{4, 5, 6}, {5, 7, 6},
			{0, 1, 4}, {1, 5, 4},
			{2, 6, 3}, {3, 6, 7},
			{0, 4, 2}, {2, 4, 6},
			{1, 3, 5}, {3, 7, 5},
		},
	}, nil
}
