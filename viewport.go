package turntable

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"time"

	"fortio.org/log"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrGestureDisabled is returned by RunGestures when gesture control is off.
var ErrGestureDisabled = errors.New("gesture control disabled")

// gestureFeedCap bounds how many gesture outputs may wait for the next tick
// before the sampling loop blocks.
const gestureFeedCap = 64

// Interaction source names registered with the auto-rotate arbiter.
const (
	interactionPointer = "pointer"
	interactionWheel   = "wheel"
	interactionKey     = "key:"
)

// EventSink is the interface for optional event forwarding (for example
// into an ECS world). When set on a Viewport, control events are emitted to
// it from the update goroutine.
type EventSink interface {
	EmitEvent(event ControlEvent)
}

// ControlEvent carries a control state change for an EventSink.
type ControlEvent struct {
	Type   EventType
	Source Source
	Time   time.Time
	// X and Y are the pointer position for drag events and the smoothed
	// viewport position for pinch start.
	X, Y float64
	// Pitch and Yaw are the object orientation when the event fired.
	Pitch, Yaw float64
}

// Viewport is the top-level object that owns the camera, the object being
// viewed, the input state, the auto-rotate arbiter and the controller. All
// of its methods except RunGestures and Size must be called from the single
// goroutine that delivers input events and frame ticks.
type Viewport struct {
	cfg        Config
	camera     *Camera3D
	object     Object
	input      *InputState
	arbiter    *AutoRotateArbiter
	controller *Controller

	// Synchronous gesture path (SubmitHands) and asynchronous feed (RunGestures).
	gesture      *GestureProcessor
	gestureQueue []GestureOutput
	gestureFeed  chan GestureOutput
	gestureCfg   atomic.Pointer[GestureConfig]
	gestureOn    atomic.Bool
	size         atomic.Pointer[Vec2]

	sink  EventSink
	debug bool
	stats Stats

	injectQueue []syntheticEvent
	testRunner  *TestRunner
}

// NewViewport creates a viewport from cfg. The camera starts at the
// configured position aimed at the origin; no object is attached yet.
func NewViewport(cfg Config) *Viewport {
	cfg = cfg.Normalized()
	cam := NewCamera3D(cfg.Viewport())
	v := &Viewport{
		cfg:         cfg,
		camera:      cam,
		input:       NewInputState(),
		arbiter:     NewAutoRotateArbiter(cfg.AutoRotate),
		controller:  NewController(cam, nil, cfg.Control()),
		gesture:     NewGestureProcessor(cfg.Gesture()),
		gestureFeed: make(chan GestureOutput, gestureFeedCap),
	}
	gc := cfg.Gesture()
	v.gestureCfg.Store(&gc)
	v.gestureOn.Store(cfg.GestureControl)
	size := cfg.Viewport().Size()
	v.size.Store(&size)
	v.arbiter.OnTransition = v.onArbiterTransition

	cam.SetPosition(cfg.ResolveCameraPosition(objectSize(nil)))
	cam.LookAt(v.controller.Target())
	return v
}

// Config returns the active configuration.
func (v *Viewport) Config() Config { return v.cfg }

// Camera returns the viewport camera.
func (v *Viewport) Camera() *Camera3D { return v.camera }

// Object returns the attached object, or nil.
func (v *Viewport) Object() Object { return v.object }

// Input returns the input state tracker.
func (v *Viewport) Input() *InputState { return v.input }

// AutoRotate returns the auto-rotate arbiter.
func (v *Viewport) AutoRotate() *AutoRotateArbiter { return v.arbiter }

// Controller returns the transform controller.
func (v *Viewport) Controller() *Controller { return v.controller }

// Size returns the viewport size in pixels. Safe to call from any goroutine.
func (v *Viewport) Size() Vec2 { return *v.size.Load() }

// SetEventSink sets the optional event sink.
func (v *Viewport) SetEventSink(sink EventSink) { v.sink = sink }

// SetObject attaches the loaded object and places the camera for it. A
// *Model is framed using its fitted size.
func (v *Viewport) SetObject(obj Object) {
	v.object = obj
	v.controller.SetObject(obj)
	if obj == nil {
		return
	}
	v.camera.SetPosition(v.cfg.ResolveCameraPosition(objectSize(obj)))
	v.camera.LookAt(v.controller.Target())
}

// Resize changes the viewport dimensions.
func (v *Viewport) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.cfg.Width, v.cfg.Height = width, height
	v.camera.Viewport = v.cfg.Viewport()
	size := v.camera.Viewport.Size()
	v.size.Store(&size)
}

// --- Event notifications ---

// PointerDown starts a drag at (x, y) and suspends auto-rotation.
func (v *Viewport) PointerDown(x, y float64, now time.Time) {
	v.input.MovePointer(x, y)
	v.input.SetDragging(true)
	v.arbiter.Begin(interactionPointer, now)
	v.emit(EventDragStart, SourcePointer, now, x, y)
}

// PointerMove records the pointer position; during a drag it rotates the
// object by the displacement since the previous move.
func (v *Viewport) PointerMove(x, y float64, now time.Time) {
	v.input.MovePointer(x, y)
	if v.controller.Drag(v.input) {
		v.stats.DragEvents++
	}
}

// PointerUp ends a drag and schedules auto-rotation to resume.
func (v *Viewport) PointerUp(now time.Time) {
	if v.input.IsDragging() {
		v.input.SetDragging(false)
		x, y := v.input.Pointer()
		v.emit(EventDragEnd, SourcePointer, now, x, y)
	}
	v.arbiter.End(interactionPointer, now)
}

// PointerLeave is treated like PointerUp.
func (v *Viewport) PointerLeave(now time.Time) { v.PointerUp(now) }

// Wheel dollies the camera. A wheel step is a complete interaction: it
// suspends auto-rotation and immediately schedules the resume.
func (v *Viewport) Wheel(deltaY float64, now time.Time) {
	v.arbiter.Begin(interactionWheel, now)
	v.controller.Zoom(deltaY)
	v.stats.WheelEvents++
	v.arbiter.End(interactionWheel, now)
}

// KeyDown marks key as held and suspends auto-rotation.
func (v *Viewport) KeyDown(key string, now time.Time) {
	v.input.SetKey(key, true)
	v.arbiter.Begin(interactionKey+normalizeKey(key), now)
}

// KeyUp releases key. Auto-rotation resumes ResumeDelay after the last held
// key or drag ends.
func (v *Viewport) KeyUp(key string, now time.Time) {
	v.input.SetKey(key, false)
	v.arbiter.End(interactionKey+normalizeKey(key), now)
}

// SubmitHands feeds one hand-landmark sample through the synchronous gesture
// path. The resulting delta is applied on the next Tick. Ignored while
// gesture control is disabled.
func (v *Viewport) SubmitHands(hands []Hand, imageSize Vec2) {
	if !v.cfg.GestureControl {
		return
	}
	out := v.gesture.Process(GestureSample{
		Hands:        hands,
		ImageSize:    imageSize,
		ViewportSize: v.Size(),
	})
	v.gestureQueue = append(v.gestureQueue, out)
}

// RunGestures samples tracker on the calling goroutine until ctx is
// cancelled or the tracker runs out, publishing outputs that the next Tick
// applies. Call it from its own goroutine; it is the only Viewport method
// that may block. Gesture tuning is captured when sampling starts. While
// gesture control is switched off at runtime, outputs are discarded.
func (v *Viewport) RunGestures(ctx context.Context, tracker HandTracker) error {
	if !v.gestureOn.Load() {
		return ErrGestureDisabled
	}
	gc := v.gestureCfg.Load()
	p := NewGestureProcessor(*gc)
	log.Infof("gesture sampling started (threshold %.0fpx, smoothing %.2f)", p.Config().PinchThreshold, p.Config().SmoothingFactor)
	err := p.Run(ctx, tracker, v.Size, v.gestureFeed)
	log.Infof("gesture sampling stopped")
	return err
}

// drainGestureFeed moves outputs published by RunGestures into the queue
// for this tick without blocking.
func (v *Viewport) drainGestureFeed() {
	for {
		select {
		case out := <-v.gestureFeed:
			if v.cfg.GestureControl {
				v.gestureQueue = append(v.gestureQueue, out)
			}
		default:
			return
		}
	}
}

// Tick runs one frame at time now and reports what was applied.
func (v *Viewport) Tick(now time.Time) FrameReport {
	if v.testRunner != nil {
		v.testRunner.step(v, now)
	}
	v.processInjectedInput(now)
	v.drainGestureFeed()

	rep := v.controller.Tick(Frame{
		Now:        now,
		Input:      v.input,
		AutoRotate: v.arbiter,
		Gestures:   v.gestureQueue,
	})
	v.gestureQueue = v.gestureQueue[:0]

	for _, e := range rep.PinchEdges {
		if e.Started {
			v.emit(EventPinchStart, SourceGesture, now, e.Position.X, e.Position.Y)
		} else {
			v.emit(EventPinchEnd, SourceGesture, now, 0, 0)
		}
	}
	v.stats.record(rep)
	if v.debug {
		v.debugLog(rep)
	}
	return rep
}

// ApplyConfig switches to a new configuration at runtime. Auto-rotate and
// gesture toggles take effect immediately; a changed camera position is
// reached with a flight of cfg.FlightSeconds.
func (v *Viewport) ApplyConfig(cfg Config, now time.Time) {
	cfg = cfg.Normalized()
	prev := v.cfg
	v.cfg = cfg

	if cfg.Width != prev.Width || cfg.Height != prev.Height {
		v.Resize(cfg.Width, cfg.Height)
	}
	v.arbiter.SetEnabled(cfg.AutoRotate, now)
	v.controller.SetConfig(cfg.Control())

	if cfg.Gesture() != prev.Gesture() {
		v.gesture = NewGestureProcessor(cfg.Gesture())
		gc := cfg.Gesture()
		v.gestureCfg.Store(&gc)
	}
	v.gestureOn.Store(cfg.GestureControl)
	if !cfg.GestureControl {
		v.gesture.Reset()
		if v.controller.Pinching() {
			// Release the pinch so auto-rotate is not held off forever.
			v.gestureQueue = append(v.gestureQueue, GestureOutput{})
		}
	}
	if !slices.Equal(cfg.CameraPosition, prev.CameraPosition) {
		pos := cfg.ResolveCameraPosition(objectSize(v.object))
		v.controller.FlyTo(pos, float32(cfg.FlightSeconds), nil)
	}
	log.Infof("config applied: auto-rotate=%v speed=%.4f gesture=%v", cfg.AutoRotate, cfg.AutoRotateSpeed, cfg.GestureControl)
}

func (v *Viewport) onArbiterTransition(from, to AutoRotateState, now time.Time) {
	if v.debug {
		log.Infof("[turntable] auto-rotate %s -> %s", from, to)
	}
	switch to {
	case AutoRotateIdle:
		v.emit(EventAutoRotateResumed, SourceAutoRotate, now, 0, 0)
	case AutoRotateSuspended:
		if from == AutoRotateIdle {
			v.emit(EventAutoRotateSuspended, SourceAutoRotate, now, 0, 0)
		}
	}
}

func (v *Viewport) emit(t EventType, src Source, now time.Time, x, y float64) {
	if v.sink == nil {
		return
	}
	ev := ControlEvent{Type: t, Source: src, Time: now, X: x, Y: y}
	if v.object != nil {
		ev.Pitch, ev.Yaw = v.object.Rotation()
	}
	v.sink.EmitEvent(ev)
}

// sizedObject is implemented by objects that know their fitted size.
type sizedObject interface {
	Size() mgl64.Vec3
}

func objectSize(obj Object) mgl64.Vec3 {
	if s, ok := obj.(sizedObject); ok {
		return s.Size()
	}
	return mgl64.Vec3{}
}
