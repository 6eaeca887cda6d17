package sink

import (
	"encoding/json"

	"github.com/lectura/mindmap/pkg/mindmap"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	view  *mindmap.ViewTransform
	title string
	stats *mindmap.Stats
}

// WithJSONView includes the viewport (scale, pan and content box) computed
// for v, so a client can reproduce the same framing.
func WithJSONView(v *mindmap.ViewTransform) JSONOption {
	return func(r *jsonRenderer) { r.view = v }
}

// WithJSONTitle records the mind map title.
func WithJSONTitle(title string) JSONOption { return func(r *jsonRenderer) { r.title = title } }

// WithJSONStats records tree statistics from [mindmap.TreeStats].
func WithJSONStats(s mindmap.Stats) JSONOption { return func(r *jsonRenderer) { r.stats = &s } }

type jsonOutput struct {
	Title           string               `json:"title,omitempty"`
	ContainerWidth  float64              `json:"container_width"`
	ContainerHeight float64              `json:"container_height"`
	TotalWidth      float64              `json:"total_width"`
	OffsetX         float64              `json:"offset_x"`
	Bounds          mindmap.Rect         `json:"bounds"`
	Viewport        *mindmap.Viewport    `json:"viewport,omitempty"`
	Stats           *mindmap.Stats       `json:"stats,omitempty"`
	Nodes           []mindmap.LayoutNode `json:"nodes"`
	Edges           []mindmap.LayoutEdge `json:"edges"`
}

// RenderJSON exports l with its bounds as an indented JSON document. Nodes
// and edges keep layout order. The output is stable for a given layout and
// options.
func RenderJSON(l mindmap.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Title:           r.title,
		ContainerWidth:  l.ContainerWidth,
		ContainerHeight: l.ContainerHeight,
		TotalWidth:      l.TotalWidth,
		OffsetX:         l.OffsetX,
		Bounds:          mindmap.Bounds(l),
		Stats:           r.stats,
		Nodes:           l.Nodes,
		Edges:           l.Edges,
	}
	if out.Nodes == nil {
		out.Nodes = []mindmap.LayoutNode{}
	}
	if out.Edges == nil {
		out.Edges = []mindmap.LayoutEdge{}
	}
	if r.view != nil {
		vp := mindmap.NewViewport(l, r.view)
		out.Viewport = &vp
	}

	return json.MarshalIndent(out, "", "  ")
}
