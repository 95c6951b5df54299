package csg

import (
	"github.com/chazu/carve/pkg/mesh"
)

// duplicateGroup collects the occurrences of one geometric triangle
// (same unordered vertex triple) in the classified face list.
type duplicateGroup struct {
	canonical [3]int // canonical rotation of the first occurrence
	faces     []int  // indices into the classified face list, ascending
	signed    int    // consistent minus inconsistent occurrences
}

// resolveDuplicates collapses groups of geometrically coincident faces
// left behind by classification. Within a group, occurrences agreeing
// with the first occurrence's cyclic order count +1, reversed ones -1:
//
//   - a group of one is kept unconditionally,
//   - signed count +1 keeps the lowest-index consistent occurrence,
//   - signed count -1 keeps the lowest-index inconsistent occurrence,
//   - signed count 0 with several occurrences cancels the whole group,
//   - anything else cannot arise from a binary operation and is an
//     invariant violation.
//
// Surviving faces keep the relative order of their groups' first
// occurrences, so the result is deterministic.
func resolveDuplicates(faces [][3]int, birth []int) ([][3]int, []int, error) {
	groupOf := make(map[[3]int]int, len(faces))
	var groups []duplicateGroup

	for i, f := range faces {
		key := mesh.FaceKey(f)
		gi, ok := groupOf[key]
		if !ok {
			gi = len(groups)
			groupOf[key] = gi
			groups = append(groups, duplicateGroup{canonical: mesh.CanonicalFace(f)})
		}
		g := &groups[gi]
		g.faces = append(g.faces, i)
		if mesh.CanonicalFace(f) == g.canonical {
			g.signed++
		} else {
			g.signed--
		}
	}

	var kept []int
	for _, g := range groups {
		if len(g.faces) == 1 {
			kept = append(kept, g.faces[0])
			continue
		}
		switch g.signed {
		case 1, -1:
			wantConsistent := g.signed == 1
			for _, fi := range g.faces {
				if (mesh.CanonicalFace(faces[fi]) == g.canonical) == wantConsistent {
					kept = append(kept, fi)
					break
				}
			}
		case 0:
			// Coincident surfaces cancel; drop the group.
		default:
			return nil, nil, &InvariantError{
				Stage: "duplicate resolution",
				Msg:   "signed occurrence count outside {-1,0,+1}",
				Faces: g.faces,
			}
		}
	}

	outF := make([][3]int, len(kept))
	outJ := make([]int, len(kept))
	for i, fi := range kept {
		outF[i] = faces[fi]
		outJ[i] = birth[fi]
	}
	return outF, outJ, nil
}
