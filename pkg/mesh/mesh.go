// Package mesh defines the indexed triangle mesh used throughout carve,
// plus the small combinatorial utilities the boolean pipeline is built on:
// concatenation, vertex compaction and face canonicalization.
package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh. Vertices are addressed 0-based by the
// face triples. Meshes are treated as immutable values: pipeline stages
// build new meshes rather than mutating their inputs.
type Mesh struct {
	Vertices []r3.Vec
	Faces    [][3]int
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Faces) == 0
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() Mesh {
	out := Mesh{
		Vertices: make([]r3.Vec, len(m.Vertices)),
		Faces:    make([][3]int, len(m.Faces)),
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Faces, m.Faces)
	return out
}

// Validate checks that every face index is in range and that no face
// repeats a vertex.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, v := range f {
			if v < 0 || v >= n {
				return fmt.Errorf("face %d references vertex %d, mesh has %d vertices", i, v, n)
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			return fmt.Errorf("face %d repeats a vertex: %v", i, f)
		}
	}
	return nil
}

// FaceNormal returns the (unnormalized) normal of face i, following the
// right-hand rule over the stored vertex order.
func (m *Mesh) FaceNormal(i int) r3.Vec {
	f := m.Faces[i]
	a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
	return r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
}

// FaceCentroid returns the centroid of face i.
func (m *Mesh) FaceCentroid(i int) r3.Vec {
	f := m.Faces[i]
	s := r3.Add(r3.Add(m.Vertices[f[0]], m.Vertices[f[1]]), m.Vertices[f[2]])
	return r3.Scale(1.0/3.0, s)
}

// SignedVolume returns the volume enclosed by the mesh, computed by the
// divergence theorem. Positive for a closed mesh with outward-facing
// normals; meaningless for open meshes.
func (m *Mesh) SignedVolume() float64 {
	var vol float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		vol += r3.Dot(a, r3.Cross(b, c))
	}
	return vol / 6.0
}

// IsClosed reports whether every directed edge is matched by exactly one
// opposite directed edge, i.e. the mesh is a closed orientable surface
// (possibly with several components).
func (m *Mesh) IsClosed() bool {
	edges := make(map[[2]int]int, len(m.Faces)*3)
	for _, f := range m.Faces {
		edges[[2]int{f[0], f[1]}]++
		edges[[2]int{f[1], f[2]}]++
		edges[[2]int{f[2], f[0]}]++
	}
	for e, n := range edges {
		if edges[[2]int{e[1], e[0]}] != n {
			return false
		}
	}
	return true
}
