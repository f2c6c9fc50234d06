package ecs

import (
	"github.com/phanxgames/turntable"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ControlEventType is the Donburi event type for turntable control events.
// Subscribe to this in your ECS systems to receive drag, pinch and
// auto-rotate events.
var ControlEventType = events.NewEventType[turntable.ControlEvent]()

// OrientationData is the object orientation as of the last control event.
type OrientationData struct {
	Pitch, Yaw float64
	// Source is the actor behind the last event that updated the entity.
	Source turntable.Source
}

// Orientation is the component written by a bound DonburiSink.
var Orientation = donburi.NewComponentType[OrientationData]()

// DonburiSink is a turntable.EventSink backed by a Donburi world.
type DonburiSink struct {
	world  donburi.World
	entity donburi.Entity
	bound  bool
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Control
// events are published to ControlEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{world: world}
}

// Bind creates an entity carrying an Orientation component and keeps it up
// to date from subsequent events. Calling Bind again returns the same entity.
func (s *DonburiSink) Bind() donburi.Entity {
	if s.bound && s.world.Valid(s.entity) {
		return s.entity
	}
	s.entity = s.world.Create(Orientation)
	s.bound = true
	return s.entity
}

// Entity returns the bound entity, if any.
func (s *DonburiSink) Entity() (donburi.Entity, bool) {
	if !s.bound || !s.world.Valid(s.entity) {
		return donburi.Null, false
	}
	return s.entity, true
}

// EmitEvent implements turntable.EventSink.
func (s *DonburiSink) EmitEvent(event turntable.ControlEvent) {
	if e, ok := s.Entity(); ok {
		entry := s.world.Entry(e)
		Orientation.SetValue(entry, OrientationData{
			Pitch:  event.Pitch,
			Yaw:    event.Yaw,
			Source: event.Source,
		})
	}
	ControlEventType.Publish(s.world, event)
}
