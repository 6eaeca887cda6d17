package pipeline

import (
	"context"
	"fmt"

	apperr "github.com/lectura/mindmap/pkg/errors"
	"github.com/lectura/mindmap/pkg/mindmap"
	"github.com/lectura/mindmap/pkg/mindmap/sink"
)

// RenderFromLayout produces every format in opts.Formats from l. root is
// only needed for the tree-based formats (dot, nodelink) and may be nil
// otherwise. This is a pure function with no caching.
func RenderFromLayout(ctx context.Context, l mindmap.Layout, root *mindmap.Node, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if opts.NeedsTree() && root.IsZero() {
		return nil, apperr.New(apperr.ErrCodeNoData, "formats dot and nodelink need the source tree")
	}

	view := viewFor(l, opts)
	svgOpts := buildSVGOptions(view, opts)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(l, buildJSONOptions(l, root, view, opts)...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, l, sink.WithSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatDOT, FormatNodelink:
			if dot == "" {
				if dot, err = sink.ToDOT(root, sink.DOTOptions{Detailed: opts.Detailed}); err != nil {
					break
				}
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = sink.RenderDOT(ctx, dot, "svg")
			}
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		opts.logger().Debug("rendered artifact", "format", format, "bytes", len(data))
		artifacts[format] = data
	}
	return artifacts, nil
}

// viewFor returns the framing requested by opts, or nil for a raw layout
// export. Fit wins over View.
func viewFor(l mindmap.Layout, opts Options) *mindmap.ViewTransform {
	switch {
	case opts.Fit:
		v := mindmap.NewViewTransform()
		v.FitToWidth(l)
		return v
	case opts.View:
		return mindmap.NewViewTransform()
	}
	return nil
}

func buildSVGOptions(view *mindmap.ViewTransform, opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if view != nil {
		out = append(out, sink.WithView(view))
	}
	if opts.Background != "" {
		out = append(out, sink.WithBackground(opts.Background))
	}
	if opts.Title != "" {
		out = append(out, sink.WithTitle(opts.Title))
	}
	return out
}

func buildJSONOptions(l mindmap.Layout, root *mindmap.Node, view *mindmap.ViewTransform, opts Options) []sink.JSONOption {
	stats := LayoutStats(l)
	if !root.IsZero() {
		if s, err := mindmap.TreeStats(root); err == nil {
			stats = s
		}
	}
	out := []sink.JSONOption{sink.WithJSONStats(stats)}
	if view != nil {
		out = append(out, sink.WithJSONView(view))
	}
	if opts.Title != "" {
		out = append(out, sink.WithJSONTitle(opts.Title))
	}
	return out
}
