package sink

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/lectura/mindmap/pkg/mindmap"
)

const (
	edgeColor     = "#6b7280"
	edgeHighlight = "#ffffff"
	arrowSize     = 6.0
	fontFamily    = "ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, sans-serif"

	labelInset     = 20.0 // horizontal padding inside a node box, per side
	labelCharWidth = 0.55 // average glyph width as a fraction of font size
	lineHeight     = 1.25
	nodeBorder     = 2.0
)

const emptyMessage = "No mind map data available"

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	view       *mindmap.ViewTransform
	background string
	title      string
}

// WithView renders the full container with v's scale and pan applied, the
// way an interactive viewer shows it. Without it, the SVG is exactly the
// padded content box at scale 1.
func WithView(v *mindmap.ViewTransform) SVGOption { return func(r *svgRenderer) { r.view = v } }

// WithBackground fills the canvas with a solid colour.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithTitle sets the document <title>.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// RenderSVG draws l as an SVG document.
func RenderSVG(l mindmap.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	vp := mindmap.NewViewport(l, r.view)
	width, height := vp.ContentWidth, vp.ContentHeight
	if r.view != nil {
		width, height = vp.ContainerWidth, vp.ContainerHeight
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	if l.IsEmpty() {
		fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="16" fill="%s">%s</text>`+"\n",
			width/2, height/2, fontFamily, edgeColor, emptyMessage)
		buf.WriteString("</svg>\n")
		return buf.Bytes()
	}

	if r.view != nil {
		tx := vp.ContainerWidth/2 + vp.PanX - vp.Scale*vp.ContentWidth/2
		ty := vp.ContainerHeight/2 + vp.PanY - vp.Scale*vp.ContentHeight/2
		fmt.Fprintf(&buf, `  <g transform="translate(%.2f %.2f) scale(%.4f)">`+"\n", tx, ty, vp.Scale)
	}

	renderEdges(&buf, l.Edges, vp)
	renderNodes(&buf, l.Nodes, vp)

	if r.view != nil {
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderEdges(buf *bytes.Buffer, edges []mindmap.LayoutEdge, vp mindmap.Viewport) {
	for _, e := range edges {
		x1, y1 := vp.Local(e.X1, e.Y1)
		c1x, c1y := vp.Local(e.C1X, e.C1Y)
		c2x, c2y := vp.Local(e.C2X, e.C2Y)
		x2, y2 := vp.Local(e.X2, e.Y2)
		d := fmt.Sprintf("M %.2f %.2f C %.2f %.2f, %.2f %.2f, %.2f %.2f", x1, y1, c1x, c1y, c2x, c2y, x2, y2)

		fmt.Fprintf(buf, `  <g class="edge" data-from="%s" data-to="%s">`+"\n", escapeXML(e.FromID), escapeXML(e.ToID))
		fmt.Fprintf(buf, `    <path d="%s" stroke="%s" stroke-width="2.5" fill="none" opacity="0.7" stroke-linecap="round"/>`+"\n", d, edgeColor)
		fmt.Fprintf(buf, `    <path d="%s" stroke="%s" stroke-width="1" fill="none" opacity="0.4" stroke-linecap="round"/>`+"\n", d, edgeHighlight)
		fmt.Fprintf(buf, `    <path d="M %.2f %.2f L %.2f %.2f L %.2f %.2f" stroke="%s" stroke-width="2.5" fill="none" opacity="0.7" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
			x2-arrowSize, y2-arrowSize, x2, y2, x2+arrowSize, y2-arrowSize, edgeColor)
		buf.WriteString("  </g>\n")
	}
}

// renderNodes draws deeper levels first so parents stay on top.
func renderNodes(buf *bytes.Buffer, nodes []mindmap.LayoutNode, vp mindmap.Viewport) {
	order := slices.Clone(nodes)
	slices.SortStableFunc(order, func(a, b mindmap.LayoutNode) int {
		return cmp.Compare(b.Level, a.Level)
	})

	for _, n := range order {
		s := n.Style
		lines := wrapLabel(n.Text, maxChars(n.Width, s.FontSize))
		lh := s.FontSize * lineHeight
		h := max(s.Height, float64(len(lines))*lh+16)

		cx, cy := vp.Local(n.X, n.Y)
		fmt.Fprintf(buf, `  <g class="node level-%d" id="node-%s">`+"\n", n.Level, escapeXML(n.ID))
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.0f" fill="%s" stroke="%s" stroke-width="%.0f"/>`+"\n",
			cx-n.Width/2, cy-h/2, n.Width, h, s.Radius, s.Colors.Fill, s.Colors.Border, nodeBorder)

		top := cy - float64(len(lines)-1)*lh/2
		fmt.Fprintf(buf, `    <text text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%.0f" font-weight="600" fill="%s">`,
			fontFamily, s.FontSize, s.Colors.Text)
		for i, line := range lines {
			fmt.Fprintf(buf, `<tspan x="%.2f" y="%.2f">%s</tspan>`, cx, top+float64(i)*lh, escapeXML(line))
		}
		buf.WriteString("</text>\n")
		buf.WriteString("  </g>\n")
	}
}

// maxChars estimates how many glyphs of the given size fit in a node box.
func maxChars(width, fontSize float64) int {
	return max(4, int((width-2*labelInset)/(fontSize*labelCharWidth)))
}

// wrapLabel breaks a label into lines of at most limit runes. Explicit line
// breaks are kept, words are packed greedily and words longer than a line
// are split.
func wrapLabel(text string, limit int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var cur string
		for _, word := range strings.Fields(para) {
			for utf8.RuneCountInString(word) > limit {
				if cur != "" {
					lines = append(lines, cur)
					cur = ""
				}
				r := []rune(word)
				lines = append(lines, string(r[:limit]))
				word = string(r[limit:])
			}
			switch {
			case word == "":
			case cur == "":
				cur = word
			case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(word) <= limit:
				cur += " " + word
			default:
				lines = append(lines, cur)
				cur = word
			}
		}
		lines = append(lines, cur)
	}
	return lines
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
