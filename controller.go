package turntable

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

// Controller defaults.
const (
	DefaultMoveSpeed       = 0.15  // world units per tick
	DefaultDragSensitivity = 0.005 // radians per pointer pixel
	DefaultWheelSpeed      = 0.03  // world units per wheel delta unit
)

// ControlConfig tunes how input maps onto the camera and object.
type ControlConfig struct {
	MoveSpeed       float64
	DragSensitivity float64
	WheelSpeed      float64
	GestureScale    float64
	AutoRotateSpeed float64
}

// DefaultControlConfig returns the stock tuning.
func DefaultControlConfig() ControlConfig {
	return ControlConfig{
		MoveSpeed:       DefaultMoveSpeed,
		DragSensitivity: DefaultDragSensitivity,
		WheelSpeed:      DefaultWheelSpeed,
		GestureScale:    DefaultGestureScale,
		AutoRotateSpeed: DefaultAutoRotateSpeed,
	}
}

// normalized replaces non-finite values with their defaults.
func (c ControlConfig) normalized() ControlConfig {
	def := DefaultControlConfig()
	fix := func(v *float64, d float64) {
		if !finite(*v) {
			*v = d
		}
	}
	fix(&c.MoveSpeed, def.MoveSpeed)
	fix(&c.DragSensitivity, def.DragSensitivity)
	fix(&c.WheelSpeed, def.WheelSpeed)
	fix(&c.GestureScale, def.GestureScale)
	fix(&c.AutoRotateSpeed, def.AutoRotateSpeed)
	return c
}

// Frame is the state a single tick reads. The arbiter is owned by the
// caller and passed in each tick; the controller keeps no timer of its own.
type Frame struct {
	Now        time.Time
	Input      *InputState
	AutoRotate *AutoRotateArbiter
	// Gestures are the gesture outputs published since the previous tick, in
	// arrival order.
	Gestures []GestureOutput
}

// FrameReport describes what a tick applied.
type FrameReport struct {
	Camera      Source // SourceKeyboard, SourceFlight or SourceNone
	Orientation Source // SourceGesture, SourceAutoRotate or SourceNone

	Pinch bool // a pinch is engaged after this tick
	// PinchStarted and PinchEnded report whether any edge of that kind was
	// seen among this tick's gesture outputs. PinchEdges holds every edge
	// in arrival order; the last one agrees with Pinch.
	PinchStarted bool
	PinchEnded   bool
	PinchEdges   []PinchEdge
}

// PinchEdge is one engage or release transition of the gesture pinch.
// Position is the viewport position of the output that caused it.
type PinchEdge struct {
	Started  bool
	Position Vec2
}

type sourceKind uint8

const (
	kindCamera sourceKind = iota
	kindOrientation
)

// frameSource is one entry in the per-tick priority list. The first ready
// source of each kind runs; the rest of that kind are skipped for the tick.
type frameSource struct {
	source Source
	kind   sourceKind
	ready  func(c *Controller, f *Frame) bool
	apply  func(c *Controller, f *Frame)
}

var frameSources = []frameSource{
	{SourceKeyboard, kindCamera, (*Controller).keysHeld, (*Controller).translate},
	{SourceFlight, kindCamera, (*Controller).flying, (*Controller).fly},
	{SourceGesture, kindOrientation, (*Controller).gestureActive, (*Controller).applyGesture},
	{SourceAutoRotate, kindOrientation, (*Controller).idle, (*Controller).autoRotate},
}

// Controller is the single writer of camera position and object
// orientation. Keyboard translation and camera flights run from Tick; pointer
// drag and wheel zoom are applied from their events through Drag and Zoom.
type Controller struct {
	camera Camera
	object Object
	target mgl64.Vec3
	cfg    ControlConfig

	flight   *cameraFlight
	flightDT float32 // seconds since the previous tick
	lastTick time.Time

	pinch   bool
	pending Vec2 // gesture delta drained this tick, before the secondary scale
}

// NewController creates a controller for camera and object. object may be
// nil until the model finishes loading.
func NewController(camera Camera, object Object, cfg ControlConfig) *Controller {
	return &Controller{
		camera: camera,
		object: object,
		cfg:    cfg.normalized(),
	}
}

// Config returns the effective tuning.
func (c *Controller) Config() ControlConfig { return c.cfg }

// SetConfig replaces the tuning. Non-finite values fall back to defaults.
func (c *Controller) SetConfig(cfg ControlConfig) { c.cfg = cfg.normalized() }

// SetObject attaches or detaches the object being oriented.
func (c *Controller) SetObject(obj Object) { c.object = obj }

// Target returns the fixed point the camera aims at.
func (c *Controller) Target() mgl64.Vec3 { return c.target }

// SetTarget changes the look-at point and re-aims the camera.
func (c *Controller) SetTarget(t mgl64.Vec3) {
	c.target = t
	c.camera.LookAt(t)
}

// Pinching reports whether a gesture pinch is engaged.
func (c *Controller) Pinching() bool { return c.pinch }

// Flying reports whether a camera flight is in progress.
func (c *Controller) Flying() bool { return c.flight != nil }

// Tick runs one frame: it advances the arbiter clock, folds in gesture
// outputs, then walks the priority list applying at most one camera source
// and one orientation source.
func (c *Controller) Tick(f Frame) FrameReport {
	var dt float32
	if !c.lastTick.IsZero() && f.Now.After(c.lastTick) {
		dt = float32(f.Now.Sub(c.lastTick).Seconds())
	}
	c.lastTick = f.Now
	if f.AutoRotate != nil {
		f.AutoRotate.Update(f.Now)
	}

	var rep FrameReport
	c.pending = Vec2{}
	for _, g := range f.Gestures {
		switch {
		case g.Engaged && !c.pinch:
			// A pinch starts still. The sampler may carry a stale reference
			// across outputs that never reached the controller.
			rep.PinchStarted = true
			rep.PinchEdges = append(rep.PinchEdges, PinchEdge{Started: true, Position: g.Position})
		case g.Engaged:
			c.pending = c.pending.Add(g.Delta)
		case c.pinch:
			rep.PinchEnded = true
			rep.PinchEdges = append(rep.PinchEdges, PinchEdge{Position: g.Position})
		}
		c.pinch = g.Engaged
	}
	rep.Pinch = c.pinch

	c.flightDT = dt
	for i := range frameSources {
		fs := &frameSources[i]
		switch fs.kind {
		case kindCamera:
			if rep.Camera != SourceNone {
				continue
			}
		case kindOrientation:
			if rep.Orientation != SourceNone {
				continue
			}
		}
		if !fs.ready(c, &f) {
			continue
		}
		fs.apply(c, &f)
		if fs.kind == kindCamera {
			rep.Camera = fs.source
		} else {
			rep.Orientation = fs.source
		}
	}
	return rep
}

func (c *Controller) keysHeld(f *Frame) bool {
	return f.Input != nil && f.Input.AnyPressed(movementKeys...)
}

// translate moves the camera along its local forward/right axes and the
// world vertical, then re-aims it. Any flight in progress is abandoned.
func (c *Controller) translate(f *Frame) {
	c.flight = nil
	in := f.Input
	speed := c.cfg.MoveSpeed
	if in.IsPressed(KeyShift) {
		speed *= 2
	}
	if in.AnyPressed(KeyForward, KeyArrowUp) {
		c.camera.TranslateZ(-speed)
	}
	if in.AnyPressed(KeyBack, KeyArrowDown) {
		c.camera.TranslateZ(speed)
	}
	if in.AnyPressed(KeyLeft, KeyArrowLeft) {
		c.camera.TranslateX(-speed)
	}
	if in.AnyPressed(KeyRight, KeyArrowRight) {
		c.camera.TranslateX(speed)
	}
	if in.IsPressed(KeyUp) {
		p := c.camera.Position()
		p[1] += speed
		c.camera.SetPosition(p)
	}
	if in.IsPressed(KeyDown) {
		p := c.camera.Position()
		p[1] -= speed
		c.camera.SetPosition(p)
	}
	c.camera.LookAt(c.target)
}

func (c *Controller) flying(*Frame) bool { return c.flight != nil }

func (c *Controller) fly(*Frame) {
	pos, done := c.flight.update(c.flightDT)
	c.camera.SetPosition(pos)
	c.camera.LookAt(c.target)
	if done {
		c.flight = nil
	}
}

// gestureActive holds the orientation slot while a pinch is engaged, even
// on ticks with no movement, so auto-rotate cannot advance under the hand.
func (c *Controller) gestureActive(*Frame) bool {
	return c.pinch || !c.pending.IsZero()
}

// applyGesture applies the drained gesture delta. A pointer drag owns the
// orientation while it lasts; gesture movement during a drag is dropped.
func (c *Controller) applyGesture(f *Frame) {
	if c.object == nil || c.pending.IsZero() {
		return
	}
	if f.Input != nil && f.Input.IsDragging() {
		c.pending = Vec2{}
		return
	}
	d := c.pending.Scale(c.cfg.GestureScale)
	c.rotate(d.Y, d.X)
	c.pending = Vec2{}
}

func (c *Controller) idle(f *Frame) bool {
	return c.object != nil && f.AutoRotate != nil && f.AutoRotate.Rotating() && !c.pinch
}

func (c *Controller) autoRotate(*Frame) {
	c.rotate(0, c.cfg.AutoRotateSpeed)
}

func (c *Controller) rotate(dPitch, dYaw float64) {
	pitch, yaw := c.object.Rotation()
	c.object.SetRotation(pitch+dPitch, yaw+dYaw)
}

// Drag applies the pointer displacement accumulated in in since the last
// drag event: horizontal movement turns yaw, vertical movement turns pitch.
// It reports whether the object was rotated.
func (c *Controller) Drag(in *InputState) bool {
	dx, dy := in.PointerDelta()
	if !in.IsDragging() || c.object == nil || (dx == 0 && dy == 0) {
		return false
	}
	s := c.cfg.DragSensitivity
	c.rotate(dy*s, dx*s)
	return true
}

// Zoom dollies the camera along its view axis by a wheel delta (positive
// values move away from the target) and re-aims it.
func (c *Controller) Zoom(deltaY float64) {
	if deltaY == 0 || !finite(deltaY) {
		return
	}
	c.flight = nil
	c.camera.TranslateZ(deltaY * c.cfg.WheelSpeed)
	c.camera.LookAt(c.target)
}

// FlyTo moves the camera to pos. A positive duration (seconds) animates the
// move over the following ticks with fn (nil selects ease.InOutQuad);
// otherwise the camera snaps immediately. Held movement keys cancel a flight.
func (c *Controller) FlyTo(pos mgl64.Vec3, duration float32, fn ease.TweenFunc) {
	if duration <= 0 {
		c.flight = nil
		c.camera.SetPosition(pos)
		c.camera.LookAt(c.target)
		return
	}
	c.flight = newCameraFlight(c.camera.Position(), pos, duration, fn)
}
