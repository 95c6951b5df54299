package csgtree

import (
	"strings"
	"testing"

	"github.com/chazu/carve/pkg/csg"
	"gonum.org/v1/gonum/spatial/r3"
)

// buildValidBracket creates a valid tree: a plate minus a drilled hole,
// placed under a named root group.
func buildValidBracket() *Tree {
	t := New()

	plateID := NewNodeID("box/plate")
	holeID := NewNodeID("cylinder/hole")
	cutID := NewNodeID("minus/plate-hole")
	placeID := NewNodeID("translate/bracket")
	rootID := NewNodeID("group/bracket")

	t.AddNode(&Node{
		ID: plateID, Kind: NodePrimitive, Name: "plate",
		Data: BoxData{Size: r3.Vec{X: 40, Y: 20, Z: 5}},
	})
	t.AddNode(&Node{
		ID: holeID, Kind: NodePrimitive,
		Data: CylinderData{Height: 10, Radius: 3},
	})
	t.AddNode(&Node{
		ID: cutID, Kind: NodeBoolean,
		Children: []NodeID{plateID, holeID},
		Data:     BooleanData{Op: csg.Minus},
	})
	t.AddNode(&Node{
		ID: placeID, Kind: NodeTransform,
		Children: []NodeID{cutID},
		Data:     TransformData{Translation: &r3.Vec{X: 10}},
	})
	t.AddNode(&Node{
		ID: rootID, Kind: NodeGroup, Name: "bracket",
		Children: []NodeID{placeID},
		Data:     GroupData{},
	})
	t.AddRoot(rootID)

	return t
}

// hasError reports whether errs contains an error-severity finding
// whose message contains substr.
func hasError(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityError && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// hasWarning reports whether errs contains a warning-severity finding
// whose message contains substr.
func hasWarning(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityWarning && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidate_ValidTree(t *testing.T) {
	tree := buildValidBracket()
	errs := Validate(tree)
	if len(errs) != 0 {
		for _, e := range errs {
			t.Errorf("unexpected validation finding: %s", e)
		}
	}
}

func TestValidate_EmptyTree(t *testing.T) {
	errs := Validate(New())
	if len(errs) != 0 {
		for _, e := range errs {
			t.Errorf("unexpected validation finding on empty tree: %s", e)
		}
	}
}

func TestValidate_CycleDetection(t *testing.T) {
	tree := New()
	a := NewNodeID("group/a")
	b := NewNodeID("group/b")
	tree.AddNode(&Node{ID: a, Kind: NodeGroup, Children: []NodeID{b}, Data: GroupData{}})
	tree.AddNode(&Node{ID: b, Kind: NodeGroup, Children: []NodeID{a}, Data: GroupData{}})
	tree.AddRoot(a)

	if !hasError(Validate(tree), "cycle") {
		t.Error("expected cycle error")
	}
}

func TestValidate_DanglingChild(t *testing.T) {
	tree := New()
	id := NewNodeID("group/lonely")
	tree.AddNode(&Node{
		ID: id, Kind: NodeGroup,
		Children: []NodeID{NewNodeID("box/missing")},
		Data:     GroupData{},
	})
	tree.AddRoot(id)

	if !hasError(Validate(tree), "does not exist") {
		t.Error("expected dangling reference error")
	}
}

func TestValidate_DuplicateNames(t *testing.T) {
	tree := New()
	a := NewNodeID("box/a")
	b := NewNodeID("box/b")
	tree.AddNode(&Node{ID: a, Kind: NodePrimitive, Name: "part", Data: BoxData{Size: r3.Vec{X: 1, Y: 1, Z: 1}}})
	tree.AddNode(&Node{ID: b, Kind: NodePrimitive, Name: "part", Data: BoxData{Size: r3.Vec{X: 1, Y: 1, Z: 1}}})
	tree.AddRoot(a)
	tree.AddRoot(b)

	if !hasError(Validate(tree), "duplicate name") {
		t.Error("expected duplicate name error")
	}
}

func TestValidate_MissingRoot(t *testing.T) {
	tree := New()
	tree.AddNode(&Node{
		ID: NewNodeID("box/a"), Kind: NodePrimitive,
		Data: BoxData{Size: r3.Vec{X: 1, Y: 1, Z: 1}},
	})
	tree.AddRoot(NewNodeID("group/ghost"))

	errs := Validate(tree)
	if !hasError(errs, "root reference") {
		t.Error("expected missing root error")
	}
	if !hasWarning(errs, "orphan") {
		t.Error("expected orphan warning for the unreachable primitive")
	}
}

func TestValidate_OrphanWarning(t *testing.T) {
	tree := buildValidBracket()
	tree.AddNode(&Node{
		ID: NewNodeID("sphere/stray"), Kind: NodePrimitive,
		Data: SphereData{Radius: 1},
	})

	errs := Validate(tree)
	if !hasWarning(errs, "orphan") {
		t.Error("expected orphan warning")
	}
	if len(Errors(errs)) != 0 {
		t.Errorf("orphan should not be blocking, got %v", Errors(errs))
	}
}

func TestValidate_Shape(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{
			"negative box",
			&Node{ID: "box/bad", Kind: NodePrimitive, Data: BoxData{Size: r3.Vec{X: -1, Y: 1, Z: 1}}},
			"must be positive",
		},
		{
			"zero sphere",
			&Node{ID: "sphere/bad", Kind: NodePrimitive, Data: SphereData{}},
			"must be positive",
		},
		{
			"flat cylinder",
			&Node{ID: "cyl/bad", Kind: NodePrimitive, Data: CylinderData{Height: 0, Radius: 2}},
			"must be positive",
		},
		{
			"primitive with children",
			&Node{ID: "box/kids", Kind: NodePrimitive, Children: []NodeID{"box/kid"}, Data: BoxData{Size: r3.Vec{X: 1, Y: 1, Z: 1}}},
			"children",
		},
		{
			"childless transform",
			&Node{ID: "move/bad", Kind: NodeTransform, Data: TransformData{}},
			"no children",
		},
		{
			"unary boolean",
			&Node{ID: "union/bad", Kind: NodeBoolean, Children: []NodeID{"box/kid"}, Data: BooleanData{Op: csg.Union}},
			"want 2",
		},
		{
			"unknown op",
			&Node{ID: "bool/bad", Kind: NodeBoolean, Children: []NodeID{"box/kid", "box/kid2"}, Data: BooleanData{Op: csg.Op(99)}},
			"unknown operation",
		},
		{
			"mismatched data",
			&Node{ID: "group/bad", Kind: NodeGroup, Data: BoxData{Size: r3.Vec{X: 1, Y: 1, Z: 1}}},
			"unexpected data type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := New()
			tree.AddNode(&Node{ID: "box/kid", Kind: NodePrimitive, Data: BoxData{Size: r3.Vec{X: 1, Y: 1, Z: 1}}})
			tree.AddNode(&Node{ID: "box/kid2", Kind: NodePrimitive, Data: BoxData{Size: r3.Vec{X: 1, Y: 1, Z: 1}}})
			tree.AddNode(tt.node)
			tree.AddRoot(tt.node.ID)
			if !hasError(Validate(tree), tt.want) {
				t.Errorf("expected error containing %q", tt.want)
			}
		})
	}
}

func TestTreeLookup(t *testing.T) {
	tree := buildValidBracket()
	if n := tree.Lookup("plate"); n == nil || n.Kind != NodePrimitive {
		t.Fatalf("Lookup(plate) = %v", n)
	}
	if n := tree.Lookup("nope"); n != nil {
		t.Fatalf("Lookup(nope) = %v, want nil", n)
	}
	if got := tree.NodeCount(); got != 5 {
		t.Errorf("NodeCount() = %d, want 5", got)
	}
	if got := len(tree.Primitives()); got != 2 {
		t.Errorf("Primitives() returned %d nodes, want 2", got)
	}
}
