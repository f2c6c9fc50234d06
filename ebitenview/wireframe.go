package ebitenview

import "github.com/go-gl/mathgl/mgl64"

// Wireframe is a model-space line mesh.
type Wireframe struct {
	Vertices []mgl64.Vec3
	Edges    [][2]int
}

// Cube returns the twelve edges of an axis-aligned cube with the given edge
// length, centered on the origin.
func Cube(size float64) Wireframe {
	h := size / 2
	w := Wireframe{Vertices: make([]mgl64.Vec3, 0, 8)}
	for i := 0; i < 8; i++ {
		x, y, z := -h, -h, -h
		if i&1 != 0 {
			x = h
		}
		if i&2 != 0 {
			y = h
		}
		if i&4 != 0 {
			z = h
		}
		w.Vertices = append(w.Vertices, mgl64.Vec3{x, y, z})
	}
	// Vertices differing in exactly one bit share an edge.
	for i := 0; i < 8; i++ {
		for _, bit := range []int{1, 2, 4} {
			if j := i | bit; j != i {
				w.Edges = append(w.Edges, [2]int{i, j})
			}
		}
	}
	return w
}

// Bounds returns the model-space bounding box. An empty wireframe has zero
// bounds.
func (w Wireframe) Bounds() (lo, hi mgl64.Vec3) {
	if len(w.Vertices) == 0 {
		return lo, hi
	}
	lo, hi = w.Vertices[0], w.Vertices[0]
	for _, v := range w.Vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v[i])
			hi[i] = max(hi[i], v[i])
		}
	}
	return lo, hi
}
