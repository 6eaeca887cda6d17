// Package mindmap lays out mind map trees as non-overlapping node-and-edge
// diagrams and tracks the interactive view transform applied on top of them.
//
// # Overview
//
// A mind map is a rooted, ordered tree of labelled [Node] values, typically
// produced by a language model from study notes. [Build] turns such a tree
// into a [Layout]: every node gets a centre coordinate, an estimated pixel
// width and a depth-keyed [Style], and every parent/child pair gets a cubic
// Bézier [LayoutEdge].
//
// The algorithm runs in two passes over the tree:
//
//  1. Measure (bottom-up): each subtree's horizontal footprint is the larger
//     of the node's own estimated width and the sum of its children's
//     footprints plus a fixed sibling gap.
//  2. Position (top-down): each node is centred in the span allocated to its
//     subtree; children receive contiguous spans, centred within the parent's
//     span, from left to right in input order.
//
// The finished layout is shifted horizontally so that it is centred inside
// the container (with a minimum left margin).
//
// # Widths
//
// Node widths are not measured from rendered text. [EstimateWidth] applies a
// monospaced-character heuristic clamped to [MinNodeWidth, MaxNodeWidth]:
//
//	mindmap.EstimateWidth("")                     // 140
//	mindmap.EstimateWidth("Photosynthesis")       // 186
//	mindmap.EstimateWidth(strings.Repeat("x", 99)) // 320
//
// # View Transform
//
// [ViewTransform] is the mutable zoom/pan state of one rendered mind map.
// It changes only through its transitions: [ViewTransform.Wheel],
// [ViewTransform.DragStart], [ViewTransform.DragMove], [ViewTransform.DragEnd]
// and [ViewTransform.FitToWidth]. Until the user zooms or fits, the
// effective scale is the automatic best fit of the whole content box
// ([AutoFitScale]); afterwards it is the user's scale.
//
// The two fit modes are deliberately different:
//
//	auto-fit:     clamp(min(scaleX, scaleY) * 0.95, 0.5, 2.0)   // both axes
//	fit-to-width: clamp(scaleX * 0.98, 0.2, 3.0)                 // width only
//
// # Determinism
//
// [Build] is a pure function of the tree and the container width: the same
// input always yields the same positions and the same node and edge order.
//
// # Safety
//
// Traversal uses an explicit stack. Trees deeper than the configured maximum
// depth are rejected with TREE_TOO_DEEP and a node reached twice (a cycle or
// a shared subtree) is rejected with CYCLIC_TREE.
//
// # Concurrency
//
// Layout functions are safe for concurrent use. A [ViewTransform] belongs to
// a single view and must not be mutated concurrently.
package mindmap
