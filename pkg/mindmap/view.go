package mindmap

// zoomIntensity converts wheel delta to a relative scale change.
const zoomIntensity = 0.0012

// ViewTransform is the zoom and pan state of a single mind map view.
//
// The zero value is not ready for use; create one with NewViewTransform.
// State changes only through Wheel, DragStart/DragMove/DragEnd, FitToWidth
// and Reset.
type ViewTransform struct {
	Scale        float64 `json:"scale"`
	PanX         float64 `json:"pan_x"`
	PanY         float64 `json:"pan_y"`
	HasUserScale bool    `json:"has_user_scale"` // freezes the automatic fit

	drag dragAnchor
}

// dragAnchor remembers where a drag began.
type dragAnchor struct {
	active    bool
	startX    float64
	startY    float64
	startPanX float64
	startPanY float64
}

// NewViewTransform returns the initial view state: scale 1, no pan, and
// automatic fitting enabled.
func NewViewTransform() *ViewTransform {
	return &ViewTransform{Scale: 1}
}

// Reset returns v to its initial state, re-enabling automatic fitting.
func (v *ViewTransform) Reset() {
	*v = ViewTransform{Scale: 1}
}

// Wheel applies a wheel event. Zoom is multiplicative so it feels the same
// at every scale; negative deltaY zooms in. The result is clamped to
// [MinScale, MaxScale] and automatic fitting is switched off.
func (v *ViewTransform) Wheel(deltaY float64) {
	v.HasUserScale = true
	v.Scale = clamp(v.Scale*(1+(-deltaY*zoomIntensity)), MinScale, MaxScale)
}

// DragStart anchors a pan gesture at the pointer position. Starting while a
// drag is already active re-anchors at the new position.
func (v *ViewTransform) DragStart(x, y float64) {
	v.drag = dragAnchor{
		active:    true,
		startX:    x,
		startY:    y,
		startPanX: v.PanX,
		startPanY: v.PanY,
	}
}

// DragMove pans by the pointer's offset from the drag anchor. It does
// nothing when no drag is active.
func (v *ViewTransform) DragMove(x, y float64) {
	if !v.drag.active {
		return
	}
	v.PanX = v.drag.startPanX + (x - v.drag.startX)
	v.PanY = v.drag.startPanY + (y - v.drag.startY)
}

// DragEnd finishes a pan gesture. Calling it without an active drag is a
// no-op.
func (v *ViewTransform) DragEnd() {
	v.drag.active = false
}

// Dragging reports whether a pan gesture is in progress.
func (v *ViewTransform) Dragging() bool { return v.drag.active }

// FitToWidth scales the view so that the padded horizontal extent of l
// fills its container width, resets the pan and switches off automatic
// fitting. Vertical overflow is accepted. An empty layout leaves v
// unchanged.
func (v *ViewTransform) FitToWidth(l Layout) {
	if l.IsEmpty() {
		return
	}
	v.Scale = FitToWidthScale(Bounds(l).ContentWidth(), l.ContainerWidth)
	v.PanX, v.PanY = 0, 0
	v.HasUserScale = true
}

// EffectiveScale is the scale a renderer should apply to l: the automatic
// both-axes fit until the user has zoomed or fitted, the clamped user scale
// afterwards.
func (v *ViewTransform) EffectiveScale(l Layout) float64 {
	if !v.HasUserScale {
		return AutoFitScale(l, l.ContainerWidth, l.ContainerHeight)
	}
	return clamp(v.Scale, MinScale, MaxScale)
}
