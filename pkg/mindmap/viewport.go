package mindmap

// Viewport is everything a rendering surface needs to draw a layout under
// a view transform.
//
// The layout is drawn into a content box of ContentWidth x ContentHeight,
// with layout coordinates shifted by (OffsetX, OffsetY) so the leftmost and
// topmost node centres sit FitPadding inside the box. The box is centred in
// the container, moved by the pan and scaled about its centre.
type Viewport struct {
	ContainerWidth  float64 `json:"container_width"`
	ContainerHeight float64 `json:"container_height"`
	ContentWidth    float64 `json:"content_width"`
	ContentHeight   float64 `json:"content_height"`
	OffsetX         float64 `json:"offset_x"`
	OffsetY         float64 `json:"offset_y"`
	Scale           float64 `json:"scale"`
	PanX            float64 `json:"pan_x"`
	PanY            float64 `json:"pan_y"`
}

// NewViewport combines l with the current state of v. A nil v behaves like
// a fresh view (automatic fit, no pan).
func NewViewport(l Layout, v *ViewTransform) Viewport {
	if v == nil {
		v = NewViewTransform()
	}
	b := Bounds(l)
	return Viewport{
		ContainerWidth:  l.ContainerWidth,
		ContainerHeight: l.ContainerHeight,
		ContentWidth:    b.ContentWidth(),
		ContentHeight:   b.ContentHeight(),
		OffsetX:         FitPadding - b.MinX,
		OffsetY:         FitPadding - b.MinY,
		Scale:           v.EffectiveScale(l),
		PanX:            v.PanX,
		PanY:            v.PanY,
	}
}

// Local maps layout coordinates to content-box coordinates.
func (vp Viewport) Local(x, y float64) (float64, float64) {
	return x + vp.OffsetX, y + vp.OffsetY
}

// Project maps layout coordinates to container pixels.
func (vp Viewport) Project(x, y float64) (float64, float64) {
	lx, ly := vp.Local(x, y)
	px := vp.ContainerWidth/2 + vp.PanX + vp.Scale*(lx-vp.ContentWidth/2)
	py := vp.ContainerHeight/2 + vp.PanY + vp.Scale*(ly-vp.ContentHeight/2)
	return px, py
}

// Unproject maps container pixels back to layout coordinates. It is the
// inverse of Project.
func (vp Viewport) Unproject(px, py float64) (float64, float64) {
	lx := (px-vp.ContainerWidth/2-vp.PanX)/vp.Scale + vp.ContentWidth/2
	ly := (py-vp.ContainerHeight/2-vp.PanY)/vp.Scale + vp.ContentHeight/2
	return lx - vp.OffsetX, ly - vp.OffsetY
}

// HitTest returns the id of the node whose box contains the container
// point (px, py), using the node's estimated width and style height.
func (vp Viewport) HitTest(l Layout, px, py float64) (string, bool) {
	x, y := vp.Unproject(px, py)
	// Later nodes are drawn on top, so search backwards.
	for i := len(l.Nodes) - 1; i >= 0; i-- {
		n := l.Nodes[i]
		if x >= n.Left() && x <= n.Right() && y >= n.Y-n.Style.Height/2 && y <= n.Y+n.Style.Height/2 {
			return n.ID, true
		}
	}
	return "", false
}
