// Package eval walks a CSG tree and produces triangle meshes. One mesh
// is produced per root. The evaluator is read-only and never mutates
// the tree.
package eval

import (
	"fmt"

	"github.com/chazu/carve/pkg/csg"
	"github.com/chazu/carve/pkg/csgtree"
	"github.com/chazu/carve/pkg/mesh"
	"github.com/chazu/carve/pkg/solid"
)

// Part is one evaluated root of the tree.
type Part struct {
	Name string
	Mesh mesh.Mesh
}

// Evaluator turns CSG trees into meshes.
type Evaluator struct {
	// Cells is the marching cubes resolution used for curved
	// primitives. Zero selects the solid package default.
	Cells int
}

// New returns an evaluator with default settings.
func New() *Evaluator {
	return &Evaluator{}
}

// Evaluate validates the tree and produces one mesh per root.
func (e *Evaluator) Evaluate(t *csgtree.Tree) ([]Part, error) {
	if t == nil {
		return nil, nil
	}
	if errs := csgtree.Errors(csgtree.Validate(t)); len(errs) > 0 {
		return nil, fmt.Errorf("eval: invalid tree: %s", errs[0])
	}

	var parts []Part
	for _, rootID := range t.Roots {
		root := t.Get(rootID)
		if root == nil {
			continue
		}
		m, err := e.evalNode(t, root)
		if err != nil {
			return nil, fmt.Errorf("eval: root %s: %w", rootID.Short(), err)
		}
		name := root.Name
		if name == "" {
			name = rootID.Short()
		}
		parts = append(parts, Part{Name: name, Mesh: m})
	}
	return parts, nil
}

// EvaluateNode produces the mesh for a single node of the tree.
func (e *Evaluator) EvaluateNode(t *csgtree.Tree, id csgtree.NodeID) (mesh.Mesh, error) {
	n := t.Get(id)
	if n == nil {
		return mesh.Mesh{}, fmt.Errorf("eval: no node %s", id.Short())
	}
	return e.evalNode(t, n)
}

func (e *Evaluator) evalNode(t *csgtree.Tree, n *csgtree.Node) (mesh.Mesh, error) {
	switch n.Kind {
	case csgtree.NodePrimitive:
		return e.evalPrimitive(n)

	case csgtree.NodeTransform:
		return e.evalTransform(t, n)

	case csgtree.NodeBoolean:
		return e.evalBoolean(t, n)

	case csgtree.NodeGroup:
		return e.evalChildren(t, n)

	default:
		return mesh.Mesh{}, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

func (e *Evaluator) evalPrimitive(n *csgtree.Node) (mesh.Mesh, error) {
	switch data := n.Data.(type) {
	case csgtree.BoxData:
		// Flat-faced, so use the exact tessellation.
		return solid.BoxMesh(data.Size.X, data.Size.Y, data.Size.Z)

	case csgtree.SphereData:
		s, err := solid.Sphere(data.Radius)
		if err != nil {
			return mesh.Mesh{}, fmt.Errorf("node %s: %w", n.ID.Short(), err)
		}
		return s.Mesh(e.Cells)

	case csgtree.CylinderData:
		s, err := solid.Cylinder(data.Height, data.Radius)
		if err != nil {
			return mesh.Mesh{}, fmt.Errorf("node %s: %w", n.ID.Short(), err)
		}
		return s.Mesh(e.Cells)

	default:
		return mesh.Mesh{}, fmt.Errorf("primitive node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
}

// evalTransform evaluates the subtree below the node and applies the
// rotation, then the translation.
func (e *Evaluator) evalTransform(t *csgtree.Tree, n *csgtree.Node) (mesh.Mesh, error) {
	td, ok := n.Data.(csgtree.TransformData)
	if !ok {
		return mesh.Mesh{}, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	m, err := e.evalChildren(t, n)
	if err != nil {
		return mesh.Mesh{}, err
	}
	if td.Rotation != nil {
		m = mesh.Rotate(m, td.Rotation.X, td.Rotation.Y, td.Rotation.Z)
	}
	if td.Translation != nil {
		m = mesh.Translate(m, *td.Translation)
	}
	return m, nil
}

func (e *Evaluator) evalBoolean(t *csgtree.Tree, n *csgtree.Node) (mesh.Mesh, error) {
	bd, ok := n.Data.(csgtree.BooleanData)
	if !ok {
		return mesh.Mesh{}, fmt.Errorf("boolean node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	children := t.Children(n)
	if len(children) != 2 {
		return mesh.Mesh{}, fmt.Errorf("boolean node %s has %d children, want 2", n.ID.Short(), len(children))
	}

	a, err := e.evalNode(t, children[0])
	if err != nil {
		return mesh.Mesh{}, err
	}
	b, err := e.evalNode(t, children[1])
	if err != nil {
		return mesh.Mesh{}, err
	}

	out, err := csg.Boolean(a, b, bd.Op)
	if err != nil {
		return mesh.Mesh{}, fmt.Errorf("node %s: %s: %w", n.ID.Short(), bd.Op, err)
	}
	return out, nil
}

// evalChildren evaluates every child and folds the results with Union.
func (e *Evaluator) evalChildren(t *csgtree.Tree, n *csgtree.Node) (mesh.Mesh, error) {
	var acc mesh.Mesh
	first := true
	for _, child := range t.Children(n) {
		m, err := e.evalNode(t, child)
		if err != nil {
			return mesh.Mesh{}, err
		}
		if first {
			acc = m
			first = false
			continue
		}
		acc, err = csg.Boolean(acc, m, csg.Union)
		if err != nil {
			return mesh.Mesh{}, fmt.Errorf("node %s: union of children: %w", n.ID.Short(), err)
		}
	}
	return acc, nil
}
