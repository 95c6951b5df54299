package csg

import (
	"errors"
	"testing"

	"github.com/chazu/carve/pkg/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// identityResolver passes the combined mesh through untouched. It
// stands in for precomputed arrangements in classification tests.
type identityResolver struct{}

func (identityResolver) Resolve(m mesh.Mesh) (mesh.Mesh, []int, error) {
	birth := make([]int, m.FaceCount())
	for i := range birth {
		birth[i] = i
	}
	return m, birth, nil
}

// fixedPropagator replays scripted winding rows.
type fixedPropagator struct {
	rows [][]int
	err  error
}

func (p fixedPropagator) Propagate(m mesh.Mesh, labels []int) ([][]int, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.rows, nil
}

// quad is two triangles spanning the unit square in the z=0 plane.
func quad() mesh.Mesh {
	return mesh.Mesh{
		Vertices: []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
		Faces:    [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

func TestBooleanWithUnsupportedOp(t *testing.T) {
	_, _, err := BooleanWith(quad(), mesh.Mesh{}, Op(42), identityResolver{}, fixedPropagator{})
	var uerr *UnsupportedOpError
	if !errors.As(err, &uerr) {
		t.Fatalf("err = %v, want UnsupportedOpError", err)
	}
}

func TestBooleanWithKeepAndFlip(t *testing.T) {
	// Face 0 is a boundary with material behind it (keep forward);
	// face 1 has material in front (keep flipped).
	prop := fixedPropagator{rows: [][]int{
		{0, 1, 0, 0},
		{1, 0, 0, 0},
	}}
	out, birth, err := BooleanWith(quad(), mesh.Mesh{}, Union, identityResolver{}, prop)
	if err != nil {
		t.Fatalf("BooleanWith() = %v", err)
	}
	if out.FaceCount() != 2 {
		t.Fatalf("FaceCount() = %d, want 2", out.FaceCount())
	}
	if out.Faces[0] != [3]int{0, 1, 2} {
		t.Errorf("face 0 = %v, want kept as stored", out.Faces[0])
	}
	if out.Faces[1] != [3]int{0, 3, 2} {
		t.Errorf("face 1 = %v, want reversed vertex order", out.Faces[1])
	}
	if birth[0] != 0 || birth[1] != 1 {
		t.Errorf("birth = %v, want [0 1]", birth)
	}
}

func TestBooleanWithDiscard(t *testing.T) {
	prop := fixedPropagator{rows: [][]int{
		{1, 1, 0, 0}, // interior: both sides inside
		{0, 0, 0, 0}, // exterior: both sides outside
	}}
	out, birth, err := BooleanWith(quad(), mesh.Mesh{}, Union, identityResolver{}, prop)
	if err != nil {
		t.Fatalf("BooleanWith() = %v", err)
	}
	if out.FaceCount() != 0 || len(birth) != 0 {
		t.Errorf("kept %d faces, want none", out.FaceCount())
	}
	if out.VertexCount() != 0 {
		t.Errorf("kept %d vertices, want none after compaction", out.VertexCount())
	}
}

func TestBooleanWithTwoColumnPadding(t *testing.T) {
	// A propagator for a single shape may return two columns; the
	// classifier pads shape B with zeros.
	prop := fixedPropagator{rows: [][]int{
		{0, 1},
		{1, 1},
	}}
	out, _, err := BooleanWith(quad(), mesh.Mesh{}, Union, identityResolver{}, prop)
	if err != nil {
		t.Fatalf("BooleanWith() = %v", err)
	}
	if out.FaceCount() != 1 {
		t.Errorf("FaceCount() = %d, want 1", out.FaceCount())
	}
}

func TestBooleanWithResolveKeepsEverything(t *testing.T) {
	// Resolve ignores winding values entirely, even ones that would
	// discard every face under other operations.
	prop := fixedPropagator{rows: [][]int{
		{1, 1, 2, 2},
		{0, 0, 0, 0},
	}}
	out, _, err := BooleanWith(quad(), mesh.Mesh{}, Resolve, identityResolver{}, prop)
	if err != nil {
		t.Fatalf("BooleanWith() = %v", err)
	}
	if out.FaceCount() != 2 {
		t.Errorf("FaceCount() = %d, want all faces kept", out.FaceCount())
	}
	if out.Faces[0] != [3]int{0, 1, 2} || out.Faces[1] != [3]int{0, 2, 3} {
		t.Errorf("Resolve reoriented faces: %v", out.Faces)
	}
}

func TestBooleanWithBadPropagatorRows(t *testing.T) {
	tests := []struct {
		name string
		rows [][]int
	}{
		{"wrong count", [][]int{{0, 1, 0, 0}}},
		{"wrong width", [][]int{{0, 1, 0}, {0, 1, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := BooleanWith(quad(), mesh.Mesh{}, Union, identityResolver{}, fixedPropagator{rows: tt.rows})
			var ierr *InvariantError
			if !errors.As(err, &ierr) {
				t.Fatalf("err = %v, want InvariantError", err)
			}
		})
	}
}

func TestBooleanWithResolverError(t *testing.T) {
	fail := failingResolver{}
	_, _, err := BooleanWith(quad(), mesh.Mesh{}, Union, fail, fixedPropagator{})
	var rerr *ResolutionError
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want ResolutionError", err)
	}
}

type failingResolver struct{}

func (failingResolver) Resolve(m mesh.Mesh) (mesh.Mesh, []int, error) {
	return mesh.Mesh{}, nil, errors.New("degenerate input")
}

func TestBooleanWithBadProvenance(t *testing.T) {
	res := badProvenanceResolver{}
	_, _, err := BooleanWith(quad(), mesh.Mesh{}, Union, res, fixedPropagator{})
	var ierr *InvariantError
	if !errors.As(err, &ierr) {
		t.Fatalf("err = %v, want InvariantError", err)
	}
}

type badProvenanceResolver struct{}

func (badProvenanceResolver) Resolve(m mesh.Mesh) (mesh.Mesh, []int, error) {
	birth := make([]int, m.FaceCount())
	for i := range birth {
		birth[i] = 1000 + i
	}
	return m, birth, nil
}

func TestBooleanWithLabelsFromProvenance(t *testing.T) {
	// Two single-triangle shapes; the label split drives which column
	// the propagator's values land in. Shape B's lone face must be
	// labeled 1, so Minus keeps A's face and discards B's.
	tri := func(at r3.Vec) mesh.Mesh {
		return mesh.Mesh{
			Vertices: []r3.Vec{at, r3.Add(at, r3.Vec{X: 1}), r3.Add(at, r3.Vec{Y: 1})},
			Faces:    [][3]int{{0, 1, 2}},
		}
	}
	var gotLabels []int
	spy := spyPropagator{
		labels: &gotLabels,
		rows: [][]int{
			{0, 1, 0, 0}, // A's face: A-material behind it
			{0, 0, 0, 1}, // B's face: B-material behind it
		},
	}
	out, birth, err := BooleanWith(tri(r3.Vec{}), tri(r3.Vec{X: 5}), Minus, identityResolver{}, spy)
	if err != nil {
		t.Fatalf("BooleanWith() = %v", err)
	}
	wantLabels := []int{0, 1}
	if len(gotLabels) != 2 || gotLabels[0] != wantLabels[0] || gotLabels[1] != wantLabels[1] {
		t.Errorf("labels = %v, want %v", gotLabels, wantLabels)
	}
	if out.FaceCount() != 1 || birth[0] != 0 {
		t.Errorf("Minus kept %d faces (birth %v), want A's face only", out.FaceCount(), birth)
	}
}

type spyPropagator struct {
	labels *[]int
	rows   [][]int
}

func (p spyPropagator) Propagate(m mesh.Mesh, labels []int) ([][]int, error) {
	*p.labels = append([]int(nil), labels...)
	return p.rows, nil
}
