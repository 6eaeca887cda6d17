package mindmap

import (
	"bytes"
	"encoding/json"
	"strconv"

	apperr "github.com/lectura/mindmap/pkg/errors"
)

// Node is one labelled node of an input mind map tree.
//
// Children are ordered; the order determines left-to-right placement. The
// JSON form is the shape the generator asks the language model to emit:
//
//	{"id": "root", "text": "Topic", "children": [{"id": "a", "text": "A", "children": []}]}
type Node struct {
	ID       string  `json:"id" bson:"id"`
	Text     string  `json:"text" bson:"text"`
	Children []*Node `json:"children" bson:"children"`
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return n == nil || len(n.Children) == 0 }

// IsZero reports whether n carries no data at all.
func (n *Node) IsZero() bool {
	return n == nil || (n.ID == "" && n.Text == "" && len(n.Children) == 0)
}

// UnmarshalJSON decodes a node leniently. Model output is frequently
// slightly off-shape, so:
//   - a missing or non-array "children" makes the node a leaf
//   - null entries inside "children" are dropped
//   - a non-string "text" becomes the empty string
//   - a numeric "id" keeps its literal digits
func (n *Node) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var raw struct {
		ID       json.RawMessage `json:"id"`
		Text     json.RawMessage `json:"text"`
		Children json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	n.ID = scalarString(raw.ID, true)
	n.Text = scalarString(raw.Text, false)
	n.Children = nil

	kids := bytes.TrimSpace(raw.Children)
	if len(kids) == 0 || kids[0] != '[' {
		return nil
	}
	var children []*Node
	if err := json.Unmarshal(kids, &children); err != nil {
		return err
	}
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return nil
}

// scalarString returns the string value of a raw JSON scalar. Numbers are
// kept only when allowNumber is set; everything else yields "".
func scalarString(raw json.RawMessage, allowNumber bool) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if allowNumber {
			if _, err := strconv.ParseFloat(string(raw), 64); err == nil {
				return string(raw)
			}
		}
	}
	return ""
}

// Validate checks structural well-formedness beyond what the layout needs:
// every node has a usable, unique id and the tree is acyclic and within the
// default depth bound. Layout does not call Validate; it tolerates empty and
// duplicate ids.
func (n *Node) Validate() error {
	if n.IsZero() {
		return apperr.New(apperr.ErrCodeNoData, "no mind map data available")
	}
	entries, err := flatten(n, DefaultMaxDepth)
	if err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if err := apperr.ValidateNodeID(e.node.ID); err != nil {
			return err
		}
		if _, dup := seen[e.node.ID]; dup {
			return apperr.New(apperr.ErrCodeInvalidTree, "duplicate node id %q", e.node.ID)
		}
		seen[e.node.ID] = struct{}{}
	}
	return nil
}

// Stats summarises a tree's shape.
type Stats struct {
	Nodes  int `json:"nodes"`
	Edges  int `json:"edges"`
	Depth  int `json:"depth"`  // Deepest level; the root alone has depth 0
	Leaves int `json:"leaves"` // Nodes without children
}

// TreeStats counts nodes, edges, leaves and the maximum depth of root.
func TreeStats(root *Node) (Stats, error) {
	if root == nil {
		return Stats{}, nil
	}
	entries, err := flatten(root, DefaultMaxDepth)
	if err != nil {
		return Stats{}, err
	}
	s := Stats{Nodes: len(entries), Edges: len(entries) - 1}
	for _, e := range entries {
		s.Depth = max(s.Depth, e.level)
		if len(e.kids) == 0 {
			s.Leaves++
		}
	}
	return s, nil
}

// Walk visits every node in pre-order (parent before children, children
// left to right) together with its level. It stops at the first error
// returned by fn.
func Walk(root *Node, fn func(n *Node, level int) error) error {
	if root == nil {
		return nil
	}
	entries, err := flatten(root, DefaultMaxDepth)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := fn(e.node, e.level); err != nil {
			return err
		}
	}
	return nil
}

// entry is one node of a flattened tree.
type entry struct {
	node   *Node
	level  int
	parent int   // index of the parent entry, -1 for the root
	kids   []int // indices of child entries, left to right
}

// flatten lists the tree in pre-order using an explicit stack. Nil children
// are skipped. A node reached twice or a level beyond maxDepth is an error.
func flatten(root *Node, maxDepth int) ([]entry, error) {
	type item struct {
		node   *Node
		level  int
		parent int
	}

	var entries []entry
	visited := make(map[*Node]struct{})
	stack := []item{{node: root, level: 0, parent: -1}}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if it.level > maxDepth {
			return nil, apperr.New(apperr.ErrCodeTreeTooDeep, "mind map deeper than %d levels", maxDepth)
		}
		if _, ok := visited[it.node]; ok {
			return nil, apperr.New(apperr.ErrCodeCyclicTree, "node %q reached twice (cycle or shared subtree)", it.node.ID)
		}
		visited[it.node] = struct{}{}

		idx := len(entries)
		entries = append(entries, entry{node: it.node, level: it.level, parent: it.parent})
		if it.parent >= 0 {
			entries[it.parent].kids = append(entries[it.parent].kids, idx)
		}

		for i := len(it.node.Children) - 1; i >= 0; i-- {
			if c := it.node.Children[i]; c != nil {
				stack = append(stack, item{node: c, level: it.level + 1, parent: idx})
			}
		}
	}
	return entries, nil
}
