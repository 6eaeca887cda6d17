package pipeline

import (
	"github.com/lectura/mindmap/pkg/mindmap"
)

// ComputeLayout positions root for the container configured in opts.
// This is a pure function with no caching; use Runner for cached layouts.
func ComputeLayout(root *mindmap.Node, opts Options) (mindmap.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return mindmap.Layout{}, err
	}
	return mindmap.Build(root, opts.Width, opts.Height, mindmap.WithMaxDepth(opts.MaxDepth))
}

// LayoutStats derives shape statistics from a layout when the source tree is
// not at hand, as for layouts read back from a file.
func LayoutStats(l mindmap.Layout) mindmap.Stats {
	s := mindmap.Stats{Nodes: len(l.Nodes), Edges: len(l.Edges)}
	parents := make(map[string]bool, len(l.Edges))
	for _, e := range l.Edges {
		parents[e.FromID] = true
	}
	for _, n := range l.Nodes {
		s.Depth = max(s.Depth, n.Level)
		if !parents[n.ID] {
			s.Leaves++
		}
	}
	return s
}
