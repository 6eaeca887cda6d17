package mindmap

// Fit constants.
const (
	FitPadding    = 80.0 // padding added on each side of the content box
	fitMargin     = 20.0 // container pixels kept free when fitting
	autoFitRatio  = 0.95
	widthFitRatio = 0.98

	MinScale     = 0.2 // lower bound for user zoom and fit-to-width
	MaxScale     = 3.0 // upper bound for user zoom and fit-to-width
	MinAutoScale = 0.5 // lower bound for the automatic fit
	MaxAutoScale = 2.0 // upper bound for the automatic fit
)

// Container defaults and minimums (pixels).
const (
	DefaultContainerWidth  = 800.0
	DefaultContainerHeight = 600.0
	MinContainerWidth      = 600.0
	MinContainerHeight     = 500.0
)

// ClampContainer raises an observed container size to the minimum size the
// mind map is laid out for.
func ClampContainer(width, height float64) (float64, float64) {
	return max(MinContainerWidth, width), max(MinContainerHeight, height)
}

// Rect is an axis-aligned box in layout coordinates.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// ContentWidth is the padded width of the content box.
func (r Rect) ContentWidth() float64 { return r.Width() + 2*FitPadding }

// ContentHeight is the padded height of the content box.
func (r Rect) ContentHeight() float64 { return r.Height() + 2*FitPadding }

// Bounds returns the box spanned by the node centres of l. The origin is
// always included, so MinX and MinY are never positive.
func Bounds(l Layout) Rect {
	var r Rect
	for _, n := range l.Nodes {
		r.MinX = min(r.MinX, n.X)
		r.MaxX = max(r.MaxX, n.X)
		r.MinY = min(r.MinY, n.Y)
		r.MaxY = max(r.MaxY, n.Y)
	}
	return r
}

// AutoFitScale is the scale that fits the whole padded content box of l,
// on both axes, into a container of the given size:
// clamp(min(scaleX, scaleY) * 0.95, MinAutoScale, MaxAutoScale).
func AutoFitScale(l Layout, containerWidth, containerHeight float64) float64 {
	b := Bounds(l)
	scaleX := (containerWidth - fitMargin) / b.ContentWidth()
	scaleY := (containerHeight - fitMargin) / b.ContentHeight()
	return clamp(min(scaleX, scaleY)*autoFitRatio, MinAutoScale, MaxAutoScale)
}

// FitToWidthScale is the scale that fits a padded content width into a
// container width, ignoring height: clamp(scaleX * 0.98, MinScale, MaxScale).
func FitToWidthScale(contentWidth, containerWidth float64) float64 {
	scaleX := (containerWidth - fitMargin) / contentWidth
	return clamp(scaleX*widthFitRatio, MinScale, MaxScale)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
