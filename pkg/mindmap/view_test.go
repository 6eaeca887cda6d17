package mindmap

import (
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func TestNewViewTransform(t *testing.T) {
	v := NewViewTransform()
	if v.Scale != 1 || v.PanX != 0 || v.PanY != 0 || v.HasUserScale || v.Dragging() {
		t.Errorf("NewViewTransform() = %+v", v)
	}
}

func TestWheel(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float64
		want   float64
	}{
		{name: "zoom in", deltas: []float64{-100}, want: 1.12},
		{name: "zoom out", deltas: []float64{100}, want: 0.88},
		{name: "no movement", deltas: []float64{0}, want: 1},
		{name: "clamp max", deltas: repeat(-1000, 100), want: MaxScale},
		{name: "clamp min", deltas: repeat(1000, 100), want: MinScale},
		{name: "overshoot below zero", deltas: []float64{5000}, want: MinScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewTransform()
			for _, d := range tt.deltas {
				v.Wheel(d)
			}
			if !approx(v.Scale, tt.want) {
				t.Errorf("Scale = %v, want %v", v.Scale, tt.want)
			}
			if !v.HasUserScale {
				t.Error("HasUserScale should be set after a wheel event")
			}
			if v.Scale < MinScale || v.Scale > MaxScale {
				t.Errorf("Scale %v outside [%v, %v]", v.Scale, MinScale, MaxScale)
			}
		})
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestDrag(t *testing.T) {
	v := NewViewTransform()

	v.DragMove(50, 50)
	if v.PanX != 0 || v.PanY != 0 {
		t.Fatalf("move without drag panned to (%v, %v)", v.PanX, v.PanY)
	}

	v.DragStart(10, 10)
	if !v.Dragging() {
		t.Fatal("Dragging() = false after DragStart")
	}
	v.DragMove(30, 50)
	if v.PanX != 20 || v.PanY != 40 {
		t.Errorf("pan = (%v, %v), want (20, 40)", v.PanX, v.PanY)
	}
	v.DragEnd()
	v.DragMove(100, 100)
	if v.PanX != 20 || v.PanY != 40 {
		t.Errorf("pan after DragEnd = (%v, %v), want (20, 40)", v.PanX, v.PanY)
	}

	// A second drag accumulates on top of the first.
	v.DragStart(0, 0)
	v.DragMove(5, -5)
	v.DragEnd()
	if v.PanX != 25 || v.PanY != 35 {
		t.Errorf("pan = (%v, %v), want (25, 35)", v.PanX, v.PanY)
	}
	if v.HasUserScale {
		t.Error("dragging must not freeze the automatic fit")
	}
}

func TestFitToWidth(t *testing.T) {
	l := Layout{
		ContainerWidth:  500,
		ContainerHeight: 600,
		Nodes: []LayoutNode{
			{ID: "left", X: 20, Y: 110},
			{ID: "right", X: 1000, Y: 250},
		},
	}

	v := NewViewTransform()
	v.DragStart(0, 0)
	v.DragMove(40, 40)
	v.DragEnd()

	v.FitToWidth(l)

	want := (500.0 - 20) / (1000 + 160) * 0.98
	if !approx(v.Scale, want) {
		t.Errorf("Scale = %v, want %v", v.Scale, want)
	}
	if math.Abs(v.Scale-0.4055) > 1e-3 {
		t.Errorf("Scale = %v, want about 0.4055", v.Scale)
	}
	if v.PanX != 0 || v.PanY != 0 {
		t.Errorf("pan = (%v, %v), want (0, 0)", v.PanX, v.PanY)
	}
	if !v.HasUserScale {
		t.Error("HasUserScale should be set after FitToWidth")
	}
	if got := v.EffectiveScale(l); !approx(got, want) {
		t.Errorf("EffectiveScale = %v, want %v", got, want)
	}
}

func TestFitToWidthClamps(t *testing.T) {
	tiny := Layout{ContainerWidth: 2000, ContainerHeight: 600, Nodes: []LayoutNode{{X: 1, Y: 1}}}
	v := NewViewTransform()
	v.FitToWidth(tiny)
	if v.Scale != MaxScale {
		t.Errorf("Scale = %v, want %v", v.Scale, MaxScale)
	}

	huge := Layout{ContainerWidth: 600, ContainerHeight: 600, Nodes: []LayoutNode{{X: 100000, Y: 1}}}
	v.FitToWidth(huge)
	if v.Scale != MinScale {
		t.Errorf("Scale = %v, want %v", v.Scale, MinScale)
	}
}

func TestFitToWidthEmpty(t *testing.T) {
	v := NewViewTransform()
	v.DragStart(0, 0)
	v.DragMove(7, 9)
	v.DragEnd()
	before := *v

	v.FitToWidth(Layout{ContainerWidth: 800, ContainerHeight: 600})

	if *v != before {
		t.Errorf("FitToWidth on empty layout changed state: %+v -> %+v", before, *v)
	}
}

func TestEffectiveScale(t *testing.T) {
	l, err := Build(topicTree(), 800, 600)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	v := NewViewTransform()
	// Content box is 650x410; the x axis is the tighter fit.
	want := (800.0 - 20) / 650 * 0.95
	if got := v.EffectiveScale(l); !approx(got, want) {
		t.Errorf("auto EffectiveScale = %v, want %v", got, want)
	}

	v.Wheel(-100)
	if got := v.EffectiveScale(l); !approx(got, 1.12) {
		t.Errorf("user EffectiveScale = %v, want 1.12", got)
	}

	v.Reset()
	if v.HasUserScale || v.Scale != 1 {
		t.Errorf("Reset() left %+v", v)
	}
	if got := v.EffectiveScale(l); !approx(got, want) {
		t.Errorf("EffectiveScale after Reset = %v, want %v", got, want)
	}
}
