package mesh

import "gonum.org/v1/gonum/spatial/r3"

// Combine concatenates two meshes into one. Vertices of b are appended
// after those of a, and every face index of b is shifted by a's vertex
// count. Faces keep their input order: a's faces first, then b's.
func Combine(a, b Mesh) Mesh {
	shift := len(a.Vertices)
	c := Mesh{
		Vertices: make([]r3.Vec, 0, len(a.Vertices)+len(b.Vertices)),
		Faces:    make([][3]int, 0, len(a.Faces)+len(b.Faces)),
	}
	c.Vertices = append(c.Vertices, a.Vertices...)
	c.Vertices = append(c.Vertices, b.Vertices...)
	c.Faces = append(c.Faces, a.Faces...)
	for _, f := range b.Faces {
		c.Faces = append(c.Faces, [3]int{f[0] + shift, f[1] + shift, f[2] + shift})
	}
	return c
}
