// Package csgtree defines the CSG expression tree produced by script
// evaluation and consumed by the evaluator. Trees are immutable once
// built; each evaluation produces a new tree.
package csgtree

// NodeID identifies a node in the tree.
type NodeID string

// ZeroID is the zero value for NodeID.
const ZeroID NodeID = ""

// NewNodeID derives a node ID from a path string. Paths are chosen by
// the builder to be unique within one tree.
func NewNodeID(path string) NodeID {
	return NodeID(path)
}

// IsZero reports whether the ID is the zero value.
func (id NodeID) IsZero() bool { return id == ZeroID }

// Short returns a truncated form of the ID for error messages.
func (id NodeID) Short() string {
	s := string(id)
	if len(s) > 24 {
		return s[:24] + "…"
	}
	return s
}

// NodeKind enumerates the types of nodes in a CSG tree.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // geometric primitive (box, sphere, cylinder)
	NodeTransform                 // spatial transformation
	NodeBoolean                   // boolean combination of two children
	NodeGroup                     // logical grouping
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeTransform:
		return "transform"
	case NodeBoolean:
		return "boolean"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the CSG tree.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
