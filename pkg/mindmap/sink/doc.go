// Package sink renders positioned mind maps to output formats.
//
// # Formats
//
//   - [RenderSVG]: a self-contained SVG of the content box (or of the whole
//     container when a view transform is supplied with [WithView])
//   - [RenderJSON]: the layout plus bounds and viewport data for external
//     renderers
//   - [RenderPNG]: raster output converted from the SVG with rsvg-convert
//   - [ToDOT] and [RenderDOT]: a Graphviz node-link rendering of the input
//     tree, useful to check a tree independently of the mind map layout
//
// # Edges
//
// Every edge is drawn as three paths: a grey cubic Bézier, a thin white
// highlight over it and a chevron at the child end. Coordinates are shifted
// into the padded content box exactly as [mindmap.Viewport.Local] does.
//
// All renderers are pure functions of their inputs except the rsvg and
// Graphviz based ones, which need external tooling or a WASM runtime.
package sink
