package turntable

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestVec2Ops(t *testing.T) {
	a := Vec2{3, 4}
	b := Vec2{1, 2}
	if got := a.Add(b); got != (Vec2{4, 6}) {
		t.Errorf("Add = %v, want {4 6}", got)
	}
	if got := a.Sub(b); got != (Vec2{2, 2}) {
		t.Errorf("Sub = %v, want {2 2}", got)
	}
	if got := a.Scale(0.5); got != (Vec2{1.5, 2}) {
		t.Errorf("Scale = %v, want {1.5 2}", got)
	}
	if got := a.Len(); got != 5 {
		t.Errorf("Len = %v, want 5", got)
	}
	if a.IsZero() || !(Vec2{}).IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 5, 40, false},
		{"outside bottom", 50, 75, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Rect.Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSourceAndEventNames(t *testing.T) {
	if SourceAutoRotate.String() != "auto-rotate" {
		t.Errorf("SourceAutoRotate = %q", SourceAutoRotate.String())
	}
	if Source(200).String() != "unknown" {
		t.Errorf("out of range source = %q", Source(200).String())
	}
	if EventPinchStart.String() != "pinch-start" {
		t.Errorf("EventPinchStart = %q", EventPinchStart.String())
	}
	if EventType(200).String() != "unknown" {
		t.Errorf("out of range event = %q", EventType(200).String())
	}
}

func TestFinite(t *testing.T) {
	if !finite(1) || finite(math.NaN()) || finite(math.Inf(1)) || finite(math.Inf(-1)) {
		t.Error("finite mismatch")
	}
}
