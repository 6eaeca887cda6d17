package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	apperr "github.com/lectura/mindmap/pkg/errors"
	"github.com/lectura/mindmap/pkg/mindmap"
)

// DOTOptions configures [ToDOT].
type DOTOptions struct {
	// Detailed appends node ids to labels.
	Detailed bool
	// Palette colours nodes by level. Defaults to [mindmap.DefaultPalette].
	Palette []mindmap.Colors
}

// ToDOT converts a mind map tree to Graphviz DOT for a top-down node-link
// rendering. DOT node names are positional (n0, n1, ...) so empty or
// duplicate ids still produce a valid graph.
func ToDOT(root *mindmap.Node, opts DOTOptions) (string, error) {
	type visit struct {
		node  *mindmap.Node
		level int
	}
	var nodes []visit
	index := make(map[*mindmap.Node]int)
	err := mindmap.Walk(root, func(n *mindmap.Node, level int) error {
		index[n] = len(nodes)
		nodes = append(nodes, visit{n, level})
		return nil
	})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", penwidth=2, fontname=\"Helvetica\", margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#6b7280\", arrowsize=0.7];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i, v := range nodes {
		s := mindmap.StyleFor(v.level, opts.Palette)
		fmt.Fprintf(&buf, "  n%d [label=%q, fillcolor=%q, color=%q, fontcolor=%q, fontsize=%.0f];\n",
			i, dotLabel(v.node, opts.Detailed), s.Colors.Fill, s.Colors.Border, s.Colors.Text, s.FontSize)
	}

	buf.WriteString("\n")
	for i, v := range nodes {
		for _, c := range v.node.Children {
			if c == nil {
				continue
			}
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", i, index[c])
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func dotLabel(n *mindmap.Node, detailed bool) string {
	text := strings.TrimSpace(n.Text)
	if text == "" {
		text = n.ID
	}
	if detailed && n.ID != "" {
		return text + "\n" + "id: " + n.ID
	}
	return text
}

// RenderDOT renders DOT source with the embedded Graphviz runtime. Supported
// formats are "svg" and "png".
func RenderDOT(ctx context.Context, dot string, format string) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case "svg":
		gvFormat = graphviz.SVG
	case "png":
		gvFormat = graphviz.PNG
	default:
		return nil, apperr.New(apperr.ErrCodeInvalidFormat, "unsupported graphviz format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
