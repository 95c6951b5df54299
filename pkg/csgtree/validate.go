package csgtree

import "fmt"

// ValidationSeverity indicates whether a validation finding blocks
// evaluation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID // which node has the problem (zero if tree-level)
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// Validate runs all structural checks on the tree and returns the
// findings. An absence of SeverityError findings means the tree can be
// evaluated. Validate is read-only and never mutates the tree.
func Validate(t *Tree) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(t)...)
	errs = append(errs, validateReferences(t)...)
	errs = append(errs, validateNames(t)...)
	errs = append(errs, validateRoots(t)...)
	errs = append(errs, validateShape(t)...)
	return errs
}

// Errors filters findings down to the blocking ones.
func Errors(findings []ValidationError) []ValidationError {
	var errs []ValidationError
	for _, f := range findings {
		if f.Severity == SeverityError {
			errs = append(errs, f)
		}
	}
	return errs
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) =
// fully explored. A gray node seen again means a cycle.
func validateDAG(t *Tree) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray

		node, ok := t.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}
		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}

		color[id] = black
		return false
	}

	for id := range t.Nodes {
		if color[id] == white {
			if visit(id) {
				// One cycle error is sufficient.
				break
			}
		}
	}

	return errs
}

// validateReferences checks that every child reference points to an
// existing node.
func validateReferences(t *Tree) []ValidationError {
	var errs []ValidationError
	for _, node := range t.Nodes {
		for _, childID := range node.Children {
			if _, ok := t.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateNames checks that the NameIndex points at existing nodes and
// that no two nodes share a non-empty name.
func validateNames(t *Tree) []ValidationError {
	var errs []ValidationError

	for name, id := range t.NameIndex {
		if _, ok := t.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	for id, node := range t.Nodes {
		if node.Name != "" {
			nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
		}
	}
	for name, ids := range nameToNodes {
		if len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateRoots checks that every root references an existing node and
// warns about nodes unreachable from any root.
func validateRoots(t *Tree) []ValidationError {
	var errs []ValidationError

	for _, rid := range t.Roots {
		if _, ok := t.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
		}
	}

	if len(t.Nodes) == 0 {
		return errs
	}

	reachable := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(t.Roots))
	for _, rid := range t.Roots {
		if _, ok := t.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		node := t.Nodes[current]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for id, node := range t.Nodes {
		if !reachable[id] {
			name := node.Name
			if name == "" {
				name = id.Short()
			}
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q is not reachable from any root (orphan)", name),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// validateShape checks kind-specific arity and payload constraints.
func validateShape(t *Tree) []ValidationError {
	var errs []ValidationError

	addErr := func(id NodeID, format string, args ...interface{}) {
		errs = append(errs, ValidationError{
			NodeID:   id,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, node := range t.Nodes {
		switch node.Kind {
		case NodePrimitive:
			if len(node.Children) != 0 {
				addErr(node.ID, "primitive node has %d children, want 0", len(node.Children))
			}
			switch d := node.Data.(type) {
			case BoxData:
				if d.Size.X <= 0 || d.Size.Y <= 0 || d.Size.Z <= 0 {
					addErr(node.ID, "box dimensions must be positive, got %g x %g x %g", d.Size.X, d.Size.Y, d.Size.Z)
				}
			case SphereData:
				if d.Radius <= 0 {
					addErr(node.ID, "sphere radius must be positive, got %g", d.Radius)
				}
			case CylinderData:
				if d.Height <= 0 || d.Radius <= 0 {
					addErr(node.ID, "cylinder height and radius must be positive, got %g and %g", d.Height, d.Radius)
				}
			default:
				addErr(node.ID, "primitive node has unsupported data type %T", node.Data)
			}

		case NodeTransform:
			if len(node.Children) == 0 {
				addErr(node.ID, "transform node has no children")
			}
			if _, ok := node.Data.(TransformData); !ok {
				addErr(node.ID, "transform node has unexpected data type %T", node.Data)
			}

		case NodeBoolean:
			if len(node.Children) != 2 {
				addErr(node.ID, "boolean node has %d children, want 2", len(node.Children))
			}
			d, ok := node.Data.(BooleanData)
			if !ok {
				addErr(node.ID, "boolean node has unexpected data type %T", node.Data)
			} else if d.Op.String() == "unknown" {
				addErr(node.ID, "boolean node has unknown operation %d", int(d.Op))
			}

		case NodeGroup:
			if _, ok := node.Data.(GroupData); !ok {
				addErr(node.ID, "group node has unexpected data type %T", node.Data)
			}

		default:
			addErr(node.ID, "unknown node kind %d", int(node.Kind))
		}
	}

	return errs
}
