// Package ecs provides ECS adapters for turntable's control event system.
//
// The primary adapter is [NewDonburiSink], which bridges turntable control
// events (drag, pinch, auto-rotate suspend/resume) into a [Donburi] world as
// typed events. Subscribe to [ControlEventType] in your ECS systems to
// receive them. The sink can also mirror the object orientation carried by
// each event into an [Orientation] component on a bound entity.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	viewport.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
