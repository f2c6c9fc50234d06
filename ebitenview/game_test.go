package ebitenview

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/turntable"
)

func TestCube(t *testing.T) {
	c := Cube(2)
	if len(c.Vertices) != 8 {
		t.Fatalf("vertices = %d, want 8", len(c.Vertices))
	}
	if len(c.Edges) != 12 {
		t.Fatalf("edges = %d, want 12", len(c.Edges))
	}
	for _, e := range c.Edges {
		d := c.Vertices[e[0]].Sub(c.Vertices[e[1]]).Len()
		if d != 2 {
			t.Errorf("edge %v length = %v, want 2", e, d)
		}
	}
	lo, hi := c.Bounds()
	if lo != (mgl64.Vec3{-1, -1, -1}) || hi != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("Bounds = %v, %v", lo, hi)
	}
}

func TestBoundsEmpty(t *testing.T) {
	lo, hi := Wireframe{}.Bounds()
	if lo != (mgl64.Vec3{}) || hi != (mgl64.Vec3{}) {
		t.Errorf("Bounds = %v, %v, want zero", lo, hi)
	}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		key  ebiten.Key
		want string
	}{
		{ebiten.KeyW, turntable.KeyForward},
		{ebiten.KeyArrowLeft, turntable.KeyArrowLeft},
		{ebiten.KeyShiftRight, turntable.KeyShift},
		{ebiten.KeyE, turntable.KeyDown},
	}
	for _, tt := range tests {
		if got := keyName(tt.key); got != tt.want {
			t.Errorf("keyName(%v) = %q, want %q", tt.key, got, tt.want)
		}
	}
	if got := keyName(ebiten.KeyZ); got == "" {
		t.Error("unmapped keys should still have a name")
	}
}

func TestNewGameAttachesFittedModel(t *testing.T) {
	v := turntable.NewViewport(turntable.DefaultConfig())
	mesh := Cube(10)
	g := NewGame(v, RunConfig{Mesh: &mesh})
	if g.model == nil || v.Object() == nil {
		t.Fatal("expected a model to be attached")
	}
	size := g.model.Size()
	if size.X() != turntable.FitSize {
		t.Errorf("fitted size = %v, want %v", size.X(), turntable.FitSize)
	}
	w, h := g.Layout(320, 240)
	if w != 320 || h != 240 || v.Size() != (turntable.Vec2{X: 320, Y: 240}) {
		t.Errorf("Layout did not resize the viewport: %v", v.Size())
	}
}
