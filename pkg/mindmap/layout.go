package mindmap

import (
	apperr "github.com/lectura/mindmap/pkg/errors"
)

// Layout constants (pixels).
const (
	TopMargin  = 110.0 // y of the root centre
	LevelGap   = 140.0 // vertical distance between consecutive levels
	SiblingGap = 40.0  // minimum horizontal gap between sibling subtrees
	MinOffsetX = 20.0  // smallest left shift applied when centring

	// edgeCurve is the fraction of LevelGap by which each Bézier control
	// point is pushed vertically away from its endpoint.
	edgeCurve = 0.3
)

// DefaultMaxDepth bounds traversal depth for all tree operations.
const DefaultMaxDepth = 256

// LayoutNode is a positioned node. X and Y are the centre of the node.
type LayoutNode struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Level int     `json:"level"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Width float64 `json:"width"`
	Style Style   `json:"style"`
}

// Left returns the left edge of the node's box.
func (n LayoutNode) Left() float64 { return n.X - n.Width/2 }

// Right returns the right edge of the node's box.
func (n LayoutNode) Right() float64 { return n.X + n.Width/2 }

// LayoutEdge is a cubic Bézier from a parent centre (X1, Y1) to a child
// centre (X2, Y2) with control points (C1X, C1Y) and (C2X, C2Y).
type LayoutEdge struct {
	FromID string  `json:"from"`
	ToID   string  `json:"to"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	C1X    float64 `json:"c1x"`
	C1Y    float64 `json:"c1y"`
	C2X    float64 `json:"c2x"`
	C2Y    float64 `json:"c2y"`
}

// Layout is the positioned form of a mind map tree.
//
// Nodes are in pre-order (parent first, children left to right). Edges are
// in creation order: the edge into a node precedes the edges of its
// subtree.
type Layout struct {
	Nodes           []LayoutNode `json:"nodes"`
	Edges           []LayoutEdge `json:"edges"`
	ContainerWidth  float64      `json:"container_width"`
	ContainerHeight float64      `json:"container_height"`
	TotalWidth      float64      `json:"total_width"` // root subtree footprint
	OffsetX         float64      `json:"offset_x"`    // centring shift applied to every x
}

// IsEmpty reports whether the layout has no nodes.
func (l Layout) IsEmpty() bool { return len(l.Nodes) == 0 }

// Node returns the positioned node with the given id.
func (l Layout) Node(id string) (LayoutNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return LayoutNode{}, false
}

// Option configures Build.
type Option func(*buildConfig)

type buildConfig struct {
	maxDepth int
	palette  []Colors
}

// WithMaxDepth bounds the accepted tree depth. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(c *buildConfig) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithPalette replaces the per-level colour palette.
func WithPalette(p []Colors) Option {
	return func(c *buildConfig) {
		if len(p) > 0 {
			c.palette = p
		}
	}
}

// Build lays out the tree rooted at root for a container of the given size.
//
// Every node is centred in the span reserved for its subtree at
// y = TopMargin + level*LevelGap. Sibling subtrees occupy contiguous,
// non-overlapping spans separated by SiblingGap and centred under their
// parent. The whole layout is finally shifted right by
// max(MinOffsetX, (containerWidth - TotalWidth)/2).
//
// A nil or empty root yields NO_DATA. Trees deeper than the configured
// maximum yield TREE_TOO_DEEP, and a node reached twice yields CYCLIC_TREE.
func Build(root *Node, containerWidth, containerHeight float64, opts ...Option) (Layout, error) {
	cfg := buildConfig{maxDepth: DefaultMaxDepth, palette: DefaultPalette[:]}
	for _, opt := range opts {
		opt(&cfg)
	}

	if root.IsZero() {
		return Layout{}, apperr.New(apperr.ErrCodeNoData, "no mind map data available")
	}

	entries, err := flatten(root, cfg.maxDepth)
	if err != nil {
		return Layout{}, err
	}
	self, footprint := measure(entries)

	l := Layout{
		Nodes:           make([]LayoutNode, 0, len(entries)),
		Edges:           make([]LayoutEdge, 0, len(entries)-1),
		ContainerWidth:  containerWidth,
		ContainerHeight: containerHeight,
		TotalWidth:      footprint[0],
	}

	left := make([]float64, len(entries))
	for i, e := range entries {
		cx := left[i] + footprint[i]/2
		cy := levelY(e.level)

		l.Nodes = append(l.Nodes, LayoutNode{
			ID:    e.node.ID,
			Text:  e.node.Text,
			Level: e.level,
			X:     cx,
			Y:     cy,
			Width: self[i],
			Style: StyleFor(e.level, cfg.palette),
		})

		if e.parent >= 0 {
			p := l.Nodes[e.parent]
			l.Edges = append(l.Edges, curve(p, cx, cy, e.node.ID))
		}

		cursor := left[i] + (footprint[i]-childSpan(e.kids, footprint))/2
		for _, k := range e.kids {
			left[k] = cursor
			cursor += footprint[k] + SiblingGap
		}
	}

	l.OffsetX = max(MinOffsetX, (containerWidth-l.TotalWidth)/2)
	l.shift(l.OffsetX)
	return l, nil
}

// levelY returns the centre y for a level.
func levelY(level int) float64 {
	return TopMargin + float64(level)*LevelGap
}

// curve builds the S-shaped edge from parent p down to the child centre.
func curve(p LayoutNode, cx, cy float64, childID string) LayoutEdge {
	return LayoutEdge{
		FromID: p.ID, ToID: childID,
		X1: p.X, Y1: p.Y,
		X2: cx, Y2: cy,
		C1X: p.X, C1Y: p.Y + LevelGap*edgeCurve,
		C2X: cx, C2Y: cy - LevelGap*edgeCurve,
	}
}

// shift translates every node and edge horizontally by dx.
func (l *Layout) shift(dx float64) {
	for i := range l.Nodes {
		l.Nodes[i].X += dx
	}
	for i := range l.Edges {
		e := &l.Edges[i]
		e.X1 += dx
		e.X2 += dx
		e.C1X += dx
		e.C2X += dx
	}
}
