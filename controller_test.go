package turntable

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

type controllerFixture struct {
	cam     *Camera3D
	model   *Model
	ctrl    *Controller
	input   *InputState
	arbiter *AutoRotateArbiter
	now     time.Time
}

func newControllerFixture(autoRotate bool) *controllerFixture {
	cam := NewCamera3D(Rect{Width: 800, Height: 600})
	cam.SetPosition(mgl64.Vec3{0, 0, 10})
	cam.LookAt(mgl64.Vec3{})
	model := NewModel()
	return &controllerFixture{
		cam:     cam,
		model:   model,
		ctrl:    NewController(cam, model, DefaultControlConfig()),
		input:   NewInputState(),
		arbiter: NewAutoRotateArbiter(autoRotate),
		now:     epoch,
	}
}

func (f *controllerFixture) tick(gestures ...GestureOutput) FrameReport {
	f.now = f.now.Add(16 * time.Millisecond)
	return f.ctrl.Tick(Frame{Now: f.now, Input: f.input, AutoRotate: f.arbiter, Gestures: gestures})
}

func TestControllerKeyboardForward(t *testing.T) {
	f := newControllerFixture(true)
	f.input.SetKey("w", true)
	f.arbiter.Begin("key:w", f.now)
	for i := 0; i < 3; i++ {
		if rep := f.tick(); rep.Camera != SourceKeyboard {
			t.Fatalf("tick %d: Camera = %v, want keyboard", i, rep.Camera)
		}
	}
	if !vecApprox(f.cam.Position(), mgl64.Vec3{0, 0, 9.55}, 1e-9) {
		t.Errorf("Position = %v, want (0,0,9.55)", f.cam.Position())
	}
}

func TestControllerKeyboardIgnoresArbiter(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		f := newControllerFixture(enabled)
		f.input.SetKey("s", true)
		f.tick()
		if !vecApprox(f.cam.Position(), mgl64.Vec3{0, 0, 10.15}, 1e-9) {
			t.Errorf("auto-rotate %v: Position = %v, want (0,0,10.15)", enabled, f.cam.Position())
		}
	}
}

func TestControllerKeyboardDirections(t *testing.T) {
	tests := []struct {
		keys []string
		want mgl64.Vec3
	}{
		{[]string{"arrowup"}, mgl64.Vec3{0, 0, 9.85}},
		{[]string{"d"}, mgl64.Vec3{0.15, 0, 10}},
		{[]string{"arrowleft"}, mgl64.Vec3{-0.15, 0, 10}},
		{[]string{"q"}, mgl64.Vec3{0, 0.15, 10}},
		{[]string{"e"}, mgl64.Vec3{0, -0.15, 10}},
		{[]string{"w", "shift"}, mgl64.Vec3{0, 0, 9.7}},
	}
	for _, tt := range tests {
		f := newControllerFixture(false)
		for _, k := range tt.keys {
			f.input.SetKey(k, true)
		}
		f.tick()
		if !vecApprox(f.cam.Position(), tt.want, 1e-9) {
			t.Errorf("%v: Position = %v, want %v", tt.keys, f.cam.Position(), tt.want)
		}
	}
}

func TestControllerKeyboardReaims(t *testing.T) {
	f := newControllerFixture(false)
	f.input.SetKey("d", true)
	f.tick()
	want := mgl64.Vec3{}.Sub(f.cam.Position()).Normalize()
	if !vecApprox(f.cam.Forward(), want, 1e-9) {
		t.Errorf("Forward = %v, want %v", f.cam.Forward(), want)
	}
}

func TestControllerAutoRotate(t *testing.T) {
	f := newControllerFixture(true)
	rep := f.tick()
	if rep.Orientation != SourceAutoRotate {
		t.Fatalf("Orientation = %v, want auto-rotate", rep.Orientation)
	}
	if _, yaw := f.model.Rotation(); !approxEqual(yaw, DefaultAutoRotateSpeed, 1e-12) {
		t.Errorf("yaw = %v, want %v", yaw, DefaultAutoRotateSpeed)
	}

	f.arbiter.Begin("pointer", f.now)
	f.tick()
	if _, yaw := f.model.Rotation(); !approxEqual(yaw, DefaultAutoRotateSpeed, 1e-12) {
		t.Errorf("yaw advanced while suspended: %v", yaw)
	}
}

func TestControllerPinchBlocksAutoRotate(t *testing.T) {
	f := newControllerFixture(true)
	rep := f.tick(GestureOutput{Engaged: true, Position: Vec2{100, 100}})
	if !rep.PinchStarted || !rep.Pinch {
		t.Fatalf("report = %+v, want pinch started", rep)
	}
	if rep.Orientation != SourceGesture {
		t.Errorf("Orientation = %v, want gesture", rep.Orientation)
	}
	// Held pinch with no movement still blocks auto-rotate.
	for i := 0; i < 5; i++ {
		if rep := f.tick(); rep.Orientation == SourceAutoRotate {
			t.Fatalf("tick %d: auto-rotate ran during pinch", i)
		}
	}
	if p, y := f.model.Rotation(); p != 0 || y != 0 {
		t.Errorf("rotation = (%v, %v), want unchanged", p, y)
	}

	rep = f.tick(GestureOutput{})
	if !rep.PinchEnded || rep.Pinch {
		t.Errorf("report = %+v, want pinch ended", rep)
	}
	if rep.Orientation != SourceAutoRotate {
		t.Errorf("Orientation after release = %v, want auto-rotate", rep.Orientation)
	}
}

func TestControllerGestureDelta(t *testing.T) {
	f := newControllerFixture(false)
	f.tick(
		GestureOutput{Engaged: true, Position: Vec2{100, 100}},
		GestureOutput{Engaged: true, Position: Vec2{101, 100}, Delta: Vec2{0.005, 0}},
	)
	p, y := f.model.Rotation()
	if !approxEqual(y, 0.001, 1e-12) || p != 0 {
		t.Errorf("rotation = (%v, %v), want (0, 0.001)", p, y)
	}
}

func TestControllerPinchStartIgnoresDelta(t *testing.T) {
	f := newControllerFixture(false)
	rep := f.tick(GestureOutput{Engaged: true, Position: Vec2{100, 100}, Delta: Vec2{0.5, 0.5}})
	if !rep.PinchStarted {
		t.Fatal("expected pinch start")
	}
	if p, y := f.model.Rotation(); p != 0 || y != 0 {
		t.Errorf("rotation = (%v, %v), want unchanged", p, y)
	}
}

func TestControllerPinchEdgesInOrder(t *testing.T) {
	f := newControllerFixture(false)
	f.tick(GestureOutput{Engaged: true, Position: Vec2{100, 100}})
	rep := f.tick(
		GestureOutput{},
		GestureOutput{Engaged: true, Position: Vec2{200, 150}},
	)
	if !rep.Pinch {
		t.Fatal("pinch should be engaged")
	}
	want := []PinchEdge{{Started: false}, {Started: true, Position: Vec2{200, 150}}}
	if len(rep.PinchEdges) != len(want) {
		t.Fatalf("PinchEdges = %+v, want %+v", rep.PinchEdges, want)
	}
	for i := range want {
		if rep.PinchEdges[i] != want[i] {
			t.Errorf("edge %d = %+v, want %+v", i, rep.PinchEdges[i], want[i])
		}
	}
}

func TestControllerDragExcludesGesture(t *testing.T) {
	f := newControllerFixture(false)
	f.input.SetDragging(true)
	rep := f.tick(
		GestureOutput{Engaged: true, Position: Vec2{100, 100}},
		GestureOutput{Engaged: true, Position: Vec2{101, 100}, Delta: Vec2{0.005, 0}},
	)
	if !rep.Pinch {
		t.Error("pinch should still be tracked during a drag")
	}
	if p, y := f.model.Rotation(); p != 0 || y != 0 {
		t.Errorf("rotation = (%v, %v), gesture should not rotate during a drag", p, y)
	}
}

func TestControllerDrag(t *testing.T) {
	f := newControllerFixture(false)
	f.input.MovePointer(100, 100)
	f.input.SetDragging(true)
	f.input.MovePointer(120, 90)
	if !f.ctrl.Drag(f.input) {
		t.Fatal("Drag reported no rotation")
	}
	p, y := f.model.Rotation()
	if !approxEqual(y, 20*DefaultDragSensitivity, 1e-12) || !approxEqual(p, -10*DefaultDragSensitivity, 1e-12) {
		t.Errorf("rotation = (%v, %v)", p, y)
	}
	if f.ctrl.Drag(f.input) {
		t.Error("Drag without movement should not rotate")
	}
	f.input.SetDragging(false)
	f.input.MovePointer(300, 300)
	if f.ctrl.Drag(f.input) {
		t.Error("Drag while not dragging should not rotate")
	}
}

func TestControllerNoObject(t *testing.T) {
	f := newControllerFixture(true)
	f.ctrl.SetObject(nil)
	rep := f.tick(GestureOutput{Engaged: true}, GestureOutput{Engaged: true, Delta: Vec2{1, 1}})
	if rep.Orientation == SourceAutoRotate {
		t.Error("auto-rotate should not run without an object")
	}
	f.input.SetDragging(true)
	f.input.MovePointer(50, 50)
	if f.ctrl.Drag(f.input) {
		t.Error("Drag should be a no-op without an object")
	}
}

func TestControllerZoom(t *testing.T) {
	f := newControllerFixture(false)
	f.ctrl.Zoom(100)
	if !vecApprox(f.cam.Position(), mgl64.Vec3{0, 0, 13}, 1e-9) {
		t.Errorf("Position = %v, want (0,0,13)", f.cam.Position())
	}
	f.ctrl.Zoom(-100)
	if !vecApprox(f.cam.Position(), mgl64.Vec3{0, 0, 10}, 1e-9) {
		t.Errorf("Position = %v, want (0,0,10)", f.cam.Position())
	}
}

func TestControllerFlyTo(t *testing.T) {
	f := newControllerFixture(false)
	f.tick()
	f.ctrl.FlyTo(mgl64.Vec3{0, 0, 20}, 0.1, ease.Linear)
	if !f.ctrl.Flying() {
		t.Fatal("expected a flight")
	}
	var rep FrameReport
	for i := 0; i < 20 && f.ctrl.Flying(); i++ {
		rep = f.tick()
		if rep.Camera != SourceFlight {
			t.Fatalf("tick %d: Camera = %v, want flight", i, rep.Camera)
		}
	}
	if f.ctrl.Flying() {
		t.Fatal("flight did not finish")
	}
	if !vecApprox(f.cam.Position(), mgl64.Vec3{0, 0, 20}, 1e-4) {
		t.Errorf("Position = %v, want (0,0,20)", f.cam.Position())
	}
}

func TestControllerKeysCancelFlight(t *testing.T) {
	f := newControllerFixture(false)
	f.tick()
	f.ctrl.FlyTo(mgl64.Vec3{0, 0, 20}, 1, nil)
	f.input.SetKey("w", true)
	if rep := f.tick(); rep.Camera != SourceKeyboard {
		t.Errorf("Camera = %v, want keyboard", rep.Camera)
	}
	if f.ctrl.Flying() {
		t.Error("keyboard should cancel the flight")
	}
}

func TestControllerFlyToSnap(t *testing.T) {
	f := newControllerFixture(false)
	f.ctrl.FlyTo(mgl64.Vec3{3, 0, 4}, 0, nil)
	if f.ctrl.Flying() {
		t.Error("zero duration should snap")
	}
	if f.cam.Position() != (mgl64.Vec3{3, 0, 4}) {
		t.Errorf("Position = %v", f.cam.Position())
	}
}
