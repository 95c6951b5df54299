package mesh

// FaceKey returns the unordered vertex triple of f, sorted ascending.
// Faces with equal keys occupy the same geometric triangle (possibly with
// opposite orientation) whenever coincident vertices share an index.
func FaceKey(f [3]int) [3]int {
	a, b, c := f[0], f[1], f[2]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]int{a, b, c}
}

// CanonicalFace rotates f so that its smallest vertex index comes first,
// preserving cyclic order. Two faces with equal FaceKey have the same
// orientation exactly when their canonical forms are identical.
func CanonicalFace(f [3]int) [3]int {
	switch {
	case f[1] < f[0] && f[1] < f[2]:
		return [3]int{f[1], f[2], f[0]}
	case f[2] < f[0] && f[2] < f[1]:
		return [3]int{f[2], f[0], f[1]}
	default:
		return f
	}
}
