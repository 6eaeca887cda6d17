// Package pkg holds the libraries behind the mindmap CLI and HTTP API.
//
// # Overview
//
// A mind map is a tree of short labels. The packages split the work as
// follows:
//
//  1. [mindmap] - tree model, layout, bounds, view transform and viewport
//  2. [mindmap/sink] - SVG, JSON, PNG and DOT output
//  3. [generate] - trees generated from notes by an OpenAI-compatible model
//  4. [pipeline] - parse → layout → render, with caching
//  5. [cache], [store] - artifact cache and mind map persistence
//  6. [config], [errors], [observability] - ambient concerns
//
// # Data flow
//
//	notes
//	  ↓
//	[generate] (model reply → tree, fallback on bad replies)
//	  ↓
//	[mindmap] (Build: widths, subtree footprints, positions, curves)
//	  ↓
//	[mindmap/sink] (SVG/PNG/JSON/DOT, framed by a ViewTransform)
//
// # Quick Start
//
//	root, _ := mindmap.ReadTreeFile("examples/biology.json")
//	l, _ := mindmap.Build(root, 800, 600)
//	svg := sink.RenderSVG(l, sink.WithView(mindmap.NewViewTransform()))
//
// For cached end-to-end runs use [pipeline.Runner].
//
// [mindmap]: github.com/lectura/mindmap/pkg/mindmap
// [mindmap/sink]: github.com/lectura/mindmap/pkg/mindmap/sink
// [generate]: github.com/lectura/mindmap/pkg/generate
// [pipeline]: github.com/lectura/mindmap/pkg/pipeline
// [pipeline.Runner]: github.com/lectura/mindmap/pkg/pipeline#Runner
// [cache]: github.com/lectura/mindmap/pkg/cache
// [store]: github.com/lectura/mindmap/pkg/store
// [config]: github.com/lectura/mindmap/pkg/config
// [errors]: github.com/lectura/mindmap/pkg/errors
// [observability]: github.com/lectura/mindmap/pkg/observability
package pkg
