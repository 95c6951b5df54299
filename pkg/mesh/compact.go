package mesh

import "gonum.org/v1/gonum/spatial/r3"

// RemoveUnreferenced drops every vertex not referenced by any face and
// remaps the face indices. The returned index map has one entry per input
// vertex: the new index, or -1 for a dropped vertex. Surviving vertices
// keep their relative order, so the operation is idempotent.
func RemoveUnreferenced(m Mesh) (Mesh, []int) {
	used := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		used[f[0]] = true
		used[f[1]] = true
		used[f[2]] = true
	}

	remap := make([]int, len(m.Vertices))
	out := Mesh{
		Vertices: make([]r3.Vec, 0, len(m.Vertices)),
		Faces:    make([][3]int, len(m.Faces)),
	}
	for i, u := range used {
		if !u {
			remap[i] = -1
			continue
		}
		remap[i] = len(out.Vertices)
		out.Vertices = append(out.Vertices, m.Vertices[i])
	}
	for i, f := range m.Faces {
		out.Faces[i] = [3]int{remap[f[0]], remap[f[1]], remap[f[2]]}
	}
	return out, remap
}
