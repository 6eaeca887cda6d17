package mindmap

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Width estimation constants (pixels).
const (
	MinNodeWidth = 140.0 // Floor for any node, including empty labels
	MaxNodeWidth = 320.0 // Ceiling for very long labels
	NodePadding  = 60.0  // Horizontal padding added to the text estimate

	wordCharWidth = 9.0 // Per character of the longest word
	textCharWidth = 7.0 // Per character of the averaged label length
	avgCharsDiv   = 1.8 // Label length divisor approximating wrapped line length
	maxAvgChars   = 40  // Cap on the averaged character count
)

// EstimateWidth returns the pixel width used both to space and to draw a
// node with the given label. It never measures rendered text; a
// monospaced-character heuristic is enough to keep siblings apart, and the
// result is clamped to [MinNodeWidth, MaxNodeWidth].
func EstimateWidth(label string) float64 {
	longest := 0
	for _, w := range strings.Fields(label) {
		longest = max(longest, utf8.RuneCountInString(w))
	}
	avg := min(maxAvgChars, int(math.Ceil(float64(utf8.RuneCountInString(label))/avgCharsDiv)))
	base := max(float64(longest)*wordCharWidth, float64(avg)*textCharWidth)
	return max(MinNodeWidth, min(MaxNodeWidth, base+NodePadding))
}

// EstimateWidthAny is EstimateWidth for loosely typed labels: anything that
// is not a string is treated as the empty string.
func EstimateWidthAny(label any) float64 {
	s, _ := label.(string)
	return EstimateWidth(s)
}

// SubtreeWidth returns the horizontal footprint needed to draw n and all its
// descendants without sibling overlap: a leaf needs its own width, an inner
// node the larger of its own width and its children's footprints plus
// SiblingGap between each pair. A nil node needs nothing.
//
// SubtreeWidth uses the default depth bound and returns 0 for trees
// [Build] would reject.
func SubtreeWidth(n *Node) float64 {
	if n == nil {
		return 0
	}
	entries, err := flatten(n, DefaultMaxDepth)
	if err != nil {
		return 0
	}
	_, footprint := measure(entries)
	return footprint[0]
}

// measure computes every entry's own width and footprint. Entries are in
// pre-order, so walking them backwards visits children before parents.
func measure(entries []entry) (self, footprint []float64) {
	self = make([]float64, len(entries))
	footprint = make([]float64, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		self[i] = EstimateWidth(e.node.Text)
		if len(e.kids) == 0 {
			footprint[i] = self[i]
			continue
		}
		footprint[i] = max(self[i], childSpan(e.kids, footprint))
	}
	return self, footprint
}

// childSpan is the width of a row of sibling subtrees including the gaps
// between them.
func childSpan(kids []int, footprint []float64) float64 {
	if len(kids) == 0 {
		return 0
	}
	var sum float64
	for _, k := range kids {
		sum += footprint[k]
	}
	return sum + SiblingGap*float64(len(kids)-1)
}
