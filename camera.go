package turntable

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera is the view entity the controller moves. Local axes follow the
// usual convention: +X right, +Y up, and the camera looks down -Z.
type Camera interface {
	Position() mgl64.Vec3
	SetPosition(p mgl64.Vec3)
	// TranslateX moves the camera along its local right axis.
	TranslateX(d float64)
	// TranslateZ moves the camera along its local back axis; negative values
	// move forward.
	TranslateZ(d float64)
	// LookAt re-aims the camera at target, keeping world +Y as up.
	LookAt(target mgl64.Vec3)
}

// WorldUp is the world vertical axis.
var WorldUp = mgl64.Vec3{0, 1, 0}

const basisEpsilon = 1e-9

// Camera3D is a perspective camera with an explicit orthonormal basis.
type Camera3D struct {
	// FOV is the vertical field of view in degrees.
	FOV float64
	// Near and Far are the clip plane distances.
	Near, Far float64
	// Viewport is the screen-space rectangle the camera renders into.
	Viewport Rect

	position mgl64.Vec3
	forward  mgl64.Vec3
	right    mgl64.Vec3
	up       mgl64.Vec3
}

// NewCamera3D creates a camera at the origin looking down -Z.
func NewCamera3D(viewport Rect) *Camera3D {
	return &Camera3D{
		FOV:      45,
		Near:     0.1,
		Far:      1000,
		Viewport: viewport,
		forward:  mgl64.Vec3{0, 0, -1},
		right:    mgl64.Vec3{1, 0, 0},
		up:       WorldUp,
	}
}

// Position returns the camera position in world space.
func (c *Camera3D) Position() mgl64.Vec3 { return c.position }

// SetPosition moves the camera without changing its orientation.
func (c *Camera3D) SetPosition(p mgl64.Vec3) { c.position = p }

// Forward returns the unit view direction.
func (c *Camera3D) Forward() mgl64.Vec3 { return c.forward }

// Right returns the unit local +X axis.
func (c *Camera3D) Right() mgl64.Vec3 { return c.right }

// Up returns the unit local +Y axis.
func (c *Camera3D) Up() mgl64.Vec3 { return c.up }

// TranslateX moves the camera along its local right axis.
func (c *Camera3D) TranslateX(d float64) {
	c.position = c.position.Add(c.right.Mul(d))
}

// TranslateY moves the camera along its local up axis.
func (c *Camera3D) TranslateY(d float64) {
	c.position = c.position.Add(c.up.Mul(d))
}

// TranslateZ moves the camera along its local back axis.
func (c *Camera3D) TranslateZ(d float64) {
	c.position = c.position.Sub(c.forward.Mul(d))
}

// LookAt re-aims the camera at target. Looking straight along the world
// vertical keeps the previous right axis so the basis stays well defined.
// A target at the camera position is ignored.
func (c *Camera3D) LookAt(target mgl64.Vec3) {
	f := target.Sub(c.position)
	if f.Len() < basisEpsilon {
		return
	}
	f = f.Normalize()
	r := f.Cross(WorldUp)
	if r.Len() < basisEpsilon {
		r = c.right
	}
	r = r.Normalize()
	c.forward = f
	c.right = r
	c.up = r.Cross(f).Normalize()
}

// Aspect returns the viewport width over height, or 1 for an empty viewport.
func (c *Camera3D) Aspect() float64 {
	if c.Viewport.Height <= 0 || c.Viewport.Width <= 0 {
		return 1
	}
	return c.Viewport.Width / c.Viewport.Height
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera3D) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.position, c.position.Add(c.forward), c.up)
}

// ProjectionMatrix returns the perspective projection for the viewport.
func (c *Camera3D) ProjectionMatrix() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect(), c.Near, c.Far)
}

// Project maps a world-space point to viewport pixels. ok is false for
// points behind the camera.
func (c *Camera3D) Project(p mgl64.Vec3) (sx, sy float64, ok bool) {
	clip := c.ProjectionMatrix().Mul4(c.ViewMatrix()).Mul4x1(p.Vec4(1))
	if clip.W() <= basisEpsilon {
		return 0, 0, false
	}
	nx := clip.X() / clip.W()
	ny := clip.Y() / clip.W()
	sx = c.Viewport.X + (nx+1)/2*c.Viewport.Width
	sy = c.Viewport.Y + (1-ny)/2*c.Viewport.Height
	return sx, sy, !math.IsNaN(sx) && !math.IsNaN(sy)
}

// cameraFlight holds active fly-to tweens for the three position axes.
type cameraFlight struct {
	tweens [3]*gween.Tween
	done   [3]bool
	pos    mgl64.Vec3
}

func newCameraFlight(from, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *cameraFlight {
	if fn == nil {
		fn = ease.InOutQuad
	}
	f := &cameraFlight{pos: from}
	for i := range f.tweens {
		f.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
	}
	return f
}

// update advances the flight by dt seconds and returns the new position and
// whether every axis has arrived.
func (f *cameraFlight) update(dt float32) (mgl64.Vec3, bool) {
	finished := true
	for i, tw := range f.tweens {
		if f.done[i] {
			continue
		}
		val, done := tw.Update(dt)
		f.pos[i] = float64(val)
		f.done[i] = done
		if !done {
			finished = false
		}
	}
	return f.pos, finished
}
