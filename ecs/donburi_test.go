package ecs

import (
	"testing"
	"time"

	"github.com/phanxgames/turntable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []turntable.ControlEvent
	ControlEventType.Subscribe(world, func(w donburi.World, e turntable.ControlEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(turntable.ControlEvent{
		Type:   turntable.EventDragStart,
		Source: turntable.SourcePointer,
		X:      100,
		Y:      200,
	})
	sink.EmitEvent(turntable.ControlEvent{
		Type:   turntable.EventPinchStart,
		Source: turntable.SourceGesture,
		Yaw:    0.5,
	})

	// Events are queued until processed.
	assert.Empty(t, received)
	ControlEventType.ProcessEvents(world)

	require.Len(t, received, 2)
	assert.Equal(t, turntable.EventDragStart, received[0].Type)
	assert.Equal(t, 100.0, received[0].X)
	assert.Equal(t, 200.0, received[0].Y)
	assert.Equal(t, turntable.EventPinchStart, received[1].Type)
	assert.Equal(t, 0.5, received[1].Yaw)
}

func TestDonburiSink_ImplementsEventSink(t *testing.T) {
	world := donburi.NewWorld()
	var sink turntable.EventSink = NewDonburiSink(world)
	_ = sink // compile-time interface check
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	ControlEventType.Subscribe(world, func(w donburi.World, e turntable.ControlEvent) {
		count1++
	})
	ControlEventType.Subscribe(world, func(w donburi.World, e turntable.ControlEvent) {
		count2++
	})

	sink.EmitEvent(turntable.ControlEvent{Type: turntable.EventAutoRotateResumed})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestDonburiSink_BindMirrorsOrientation(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	_, ok := sink.Entity()
	assert.False(t, ok, "no entity before Bind")

	e := sink.Bind()
	assert.Equal(t, e, sink.Bind(), "Bind should be idempotent")

	sink.EmitEvent(turntable.ControlEvent{
		Type:   turntable.EventDragEnd,
		Source: turntable.SourcePointer,
		Pitch:  0.25,
		Yaw:    -1.5,
	})

	entry := world.Entry(e)
	require.True(t, entry.HasComponent(Orientation))
	got := Orientation.Get(entry)
	assert.Equal(t, 0.25, got.Pitch)
	assert.Equal(t, -1.5, got.Yaw)
	assert.Equal(t, turntable.SourcePointer, got.Source)
}

func TestDonburiSink_ViewportIntegration(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	sink.Bind()

	var types []turntable.EventType
	ControlEventType.Subscribe(world, func(w donburi.World, e turntable.ControlEvent) {
		types = append(types, e.Type)
	})

	cfg := turntable.DefaultConfig()
	cfg.AutoRotate = true
	v := turntable.NewViewport(cfg)
	v.SetObject(turntable.NewModel())
	v.SetEventSink(sink)

	t0 := time.Unix(0, 0)
	v.PointerDown(10, 10, t0)
	v.PointerMove(30, 10, t0)
	v.PointerUp(t0)
	v.Tick(t0.Add(turntable.ResumeDelay))
	ControlEventType.ProcessEvents(world)

	assert.Equal(t, []turntable.EventType{
		turntable.EventAutoRotateSuspended,
		turntable.EventDragStart,
		turntable.EventDragEnd,
		turntable.EventAutoRotateResumed,
	}, types)

	e, ok := sink.Entity()
	require.True(t, ok)
	got := Orientation.Get(world.Entry(e))
	assert.InDelta(t, 20*turntable.DefaultDragSensitivity, got.Yaw, 1e-12)
}
