package mesh

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// stlHeaderSize is the fixed binary STL header length.
const stlHeaderSize = 80

// WriteSTL writes the mesh as binary STL. Triangles are written in face
// order with per-face normals computed from vertex order.
func WriteSTL(w io.Writer, m Mesh) error {
	var header [stlHeaderSize]byte
	copy(header[:], "carve binary STL")
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("stl header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Faces))); err != nil {
		return fmt.Errorf("stl count: %w", err)
	}

	buf := make([]byte, 50) // normal + 3 vertices + attribute count
	for i, f := range m.Faces {
		n := m.FaceNormal(i)
		if l := r3.Norm(n); l > 0 {
			n = r3.Scale(1/l, n)
		}
		putVec(buf[0:], n)
		putVec(buf[12:], m.Vertices[f[0]])
		putVec(buf[24:], m.Vertices[f[1]])
		putVec(buf[36:], m.Vertices[f[2]])
		buf[48], buf[49] = 0, 0
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("stl face %d: %w", i, err)
		}
	}
	return nil
}

// WriteSTLASCII writes the mesh as ASCII STL under the given solid name.
func WriteSTLASCII(w io.Writer, m Mesh, name string) error {
	if _, err := fmt.Fprintf(w, "solid %s\n", name); err != nil {
		return fmt.Errorf("stl header: %w", err)
	}
	for i, f := range m.Faces {
		n := m.FaceNormal(i)
		if l := r3.Norm(n); l > 0 {
			n = r3.Scale(1/l, n)
		}
		if _, err := fmt.Fprintf(w, "  facet normal %g %g %g\n    outer loop\n", n.X, n.Y, n.Z); err != nil {
			return fmt.Errorf("stl face %d: %w", i, err)
		}
		for _, vi := range f {
			v := m.Vertices[vi]
			if _, err := fmt.Fprintf(w, "      vertex %g %g %g\n", v.X, v.Y, v.Z); err != nil {
				return fmt.Errorf("stl face %d: %w", i, err)
			}
		}
		if _, err := fmt.Fprint(w, "    endloop\n  endfacet\n"); err != nil {
			return fmt.Errorf("stl face %d: %w", i, err)
		}
	}
	if _, err := fmt.Fprintf(w, "endsolid %s\n", name); err != nil {
		return fmt.Errorf("stl footer: %w", err)
	}
	return nil
}

// ReadSTL reads a binary STL stream into an indexed mesh, merging
// bitwise-identical vertices into a single index.
func ReadSTL(r io.Reader) (Mesh, error) {
	var header [stlHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Mesh{}, fmt.Errorf("stl header: %w", err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return Mesh{}, fmt.Errorf("stl count: %w", err)
	}

	m := Mesh{Faces: make([][3]int, 0, count)}
	index := make(map[[3]float32]int)
	buf := make([]byte, 50)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return Mesh{}, fmt.Errorf("stl face %d: %w", i, err)
		}
		var face [3]int
		for j := 0; j < 3; j++ {
			key := getVec32(buf[12+12*j:])
			vi, ok := index[key]
			if !ok {
				vi = len(m.Vertices)
				index[key] = vi
				m.Vertices = append(m.Vertices, r3.Vec{
					X: float64(key[0]), Y: float64(key[1]), Z: float64(key[2]),
				})
			}
			face[j] = vi
		}
		if face[0] == face[1] || face[1] == face[2] || face[2] == face[0] {
			// Degenerate sliver collapsed by float32 quantization.
			continue
		}
		m.Faces = append(m.Faces, face)
	}
	return m, nil
}

func putVec(b []byte, v r3.Vec) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(float32(v.Z)))
}

func getVec32(b []byte) [3]float32 {
	return [3]float32{
		math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}
