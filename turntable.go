package turntable

import "math"

// Vec2 is a 2D vector used for screen-space positions, pointer deltas and
// pitch/yaw rotation deltas throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by f on both axes.
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Size returns the width and height of r as a Vec2.
func (r Rect) Size() Vec2 { return Vec2{r.Width, r.Height} }

// Source identifies the actor that produced a camera or orientation update.
type Source uint8

const (
	SourceNone       Source = iota // nothing ran
	SourceKeyboard                 // directional keys translating the camera
	SourceFlight                   // animated camera fly-to
	SourceWheel                    // scroll-wheel dolly along the view axis
	SourcePointer                  // pointer drag rotating the object
	SourceGesture                  // hand pinch rotating the object
	SourceAutoRotate               // idle auto-rotation advancing yaw
)

var sourceNames = [...]string{
	SourceNone:       "none",
	SourceKeyboard:   "keyboard",
	SourceFlight:     "flight",
	SourceWheel:      "wheel",
	SourcePointer:    "pointer",
	SourceGesture:    "gesture",
	SourceAutoRotate: "auto-rotate",
}

func (s Source) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return "unknown"
}

// EventType identifies a kind of control event reported to an EventSink.
type EventType uint8

const (
	EventDragStart           EventType = iota // pointer pressed, object follows drag
	EventDragEnd                              // pointer released or left the viewport
	EventPinchStart                           // thumb and index tips came into contact
	EventPinchEnd                             // pinch released or hand lost
	EventAutoRotateSuspended                  // arbiter left the idle-rotating state
	EventAutoRotateResumed                    // arbiter returned to idle rotation
)

var eventNames = [...]string{
	EventDragStart:           "drag-start",
	EventDragEnd:             "drag-end",
	EventPinchStart:          "pinch-start",
	EventPinchEnd:            "pinch-end",
	EventAutoRotateSuspended: "auto-rotate-suspended",
	EventAutoRotateResumed:   "auto-rotate-resumed",
}

func (e EventType) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// finite reports whether f is neither NaN nor infinite.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
