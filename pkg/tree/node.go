package tree

import (
	"errors"
	"fmt"
	"math"

	"id3/pkg/model"
)

var ErrNoBranch = errors.New("no branch for value")

// NodeID indexes a node in its Tree.
type NodeID int

// Node is either a leaf holding a class index or an internal split.
type Node struct {
	Leaf bool

	// Label is the class index predicted by a leaf
	Label int

	// Attribute is the split attribute of an internal node
	Attribute model.AttributeID
	// Threshold separates low (<=) from high (>) values of a continuous split attribute
	Threshold  float64
	Continuous bool
	// Branches maps a discretized split value to the child node
	Branches map[int]NodeID

	Depth int
	// Rows is the number of training rows that reached this node
	Rows int
}

// branch maps an attribute value onto the key of the branch that handles it.
func (n *Node) branch(value float64) int {
	if n.Continuous {
		if value <= n.Threshold {
			return 0
		}
		return 1
	}
	if value != math.Trunc(value) {
		return -1
	}
	return int(value)
}

// Tree is an arena of nodes grown by a Builder. It is not modified after Build returns.
type Tree struct {
	Schema *model.Schema
	Nodes  []Node
	Root   NodeID
}

func (t *Tree) Node(id NodeID) *Node {
	return &t.Nodes[id]
}

// Classify returns the class index predicted for row. It fails with ErrNoBranch when the
// row holds a discrete value no branch was grown for.
func (t *Tree) Classify(row model.Row) (int, error) {
	id := t.Root
	for {
		n := &t.Nodes[id]
		if n.Leaf {
			return n.Label, nil
		}
		if int(n.Attribute) >= len(row.Values) {
			return 0, fmt.Errorf("%w: row has no value for %s", ErrNoBranch, t.Schema.Attribute(n.Attribute).Name)
		}
		value := row.Value(n.Attribute)
		child, ok := n.Branches[n.branch(value)]
		if !ok {
			return 0, fmt.Errorf("%w: %s=%v", ErrNoBranch, t.Schema.Attribute(n.Attribute).Name, value)
		}
		id = child
	}
}

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int {
	return len(t.Nodes)
}

func (t *Tree) Leaves() int {
	leaves := 0
	for i := range t.Nodes {
		if t.Nodes[i].Leaf {
			leaves++
		}
	}
	return leaves
}

// Depth returns the depth of the deepest node, the root being at depth 0.
func (t *Tree) Depth() int {
	depth := 0
	for i := range t.Nodes {
		if t.Nodes[i].Depth > depth {
			depth = t.Nodes[i].Depth
		}
	}
	return depth
}
