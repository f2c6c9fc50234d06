// Package turntable is the interaction core of a 3D object viewer: it orients
// a loaded model inside a viewport from pointer drag, scroll-wheel zoom,
// keyboard translation, idle auto-rotation and an optional hand-gesture
// channel, all arbitrated by one rule.
//
// The package is renderer-agnostic. Rendering, asset loading and the hand
// landmark model are supplied from outside through small interfaces:
// [Camera], [Object] and [HandTracker]. An [Ebitengine] driver lives in
// turntable/ebitenview and a [Donburi] event bridge in turntable/ecs.
//
// # Quick start
//
//	v := turntable.NewViewport(turntable.DefaultConfig())
//	model := turntable.NewModel()
//	model.Fit(lo, hi) // bounds of the loaded mesh
//	v.SetObject(model)
//
//	// From the driver's event callbacks:
//	v.PointerDown(x, y, now)
//	v.KeyDown("w", now)
//
//	// Once per frame:
//	v.Tick(now)
//
// # Arbitration
//
// The [AutoRotateArbiter] keeps one suspension clock for every input source.
// Any interaction suspends auto-rotation; rotation resumes [ResumeDelay]
// after the last interaction ends. A new interaction before the deadline
// cancels it. While a pinch gesture is engaged auto-rotation is held off
// regardless of the arbiter.
//
// Each tick the [Controller] walks an ordered list of frame sources and
// applies at most one camera source (keyboard, then a fly-to animation) and
// one orientation source (gesture, then auto-rotate). Pointer drag and wheel
// zoom are applied from their events. Gesture movement is dropped while a
// pointer drag is in progress, so the two never sum in one frame.
//
// # Gestures
//
// [GestureProcessor] turns hand-landmark samples into rotation deltas: a
// pinch engages when the thumb and index tips come within the threshold,
// the pinch point is mirrored, mapped to viewport pixels and smoothed, and
// successive smoothed positions produce the delta. [Viewport.RunGestures]
// samples a [HandTracker] on its own goroutine and hands outputs to the tick
// over a channel. [HandRecording] replays recorded landmarks without a
// camera.
//
// # Configuration
//
// [Config] loads from TOML or YAML ([LoadConfig]), from element-style
// attributes ([ParseAttributes]) and can be hot-reloaded with
// [WatchConfig]. Apply changes with [Viewport.ApplyConfig].
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package turntable
