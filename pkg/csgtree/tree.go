package csgtree

import "fmt"

// Tree is the top-level structure produced by script evaluation. It is
// never mutated in place; each evaluation produces a new tree.
type Tree struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
}

// New creates an empty Tree.
func New() *Tree {
	return &Tree{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node to the tree. It does not check for duplicates.
func (t *Tree) AddNode(n *Node) {
	t.Nodes[n.ID] = n
	if n.Name != "" {
		t.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the tree.
func (t *Tree) AddRoot(id NodeID) {
	t.Roots = append(t.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (t *Tree) Lookup(name string) *Node {
	id, ok := t.NameIndex[name]
	if !ok {
		return nil
	}
	return t.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (t *Tree) MustLookup(name string) *Node {
	n := t.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("csgtree: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (t *Tree) Get(id NodeID) *Node {
	return t.Nodes[id]
}

// Children returns the child nodes of the given node.
func (t *Tree) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := t.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// Primitives returns all primitive nodes in the tree.
func (t *Tree) Primitives() []*Node {
	var prims []*Node
	for _, n := range t.Nodes {
		if n.Kind == NodePrimitive {
			prims = append(prims, n)
		}
	}
	return prims
}

// NodeCount returns the total number of nodes.
func (t *Tree) NodeCount() int {
	return len(t.Nodes)
}
